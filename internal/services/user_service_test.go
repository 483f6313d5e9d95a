package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRegister_HashesPasswordAndNormalizesEmail(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Images: &fakeImages{}}
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email:     " Cook@Example.ORG ",
		Username:  "cook_1",
		FirstName: "Anna",
		LastName:  "Smith",
		Password:  "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "cook@example.org" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash == "s3cret-pass" || u.PasswordHash == "" {
		t.Fatalf("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}

func TestRegister_UsernameRules(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Images: &fakeImages{}}
	ctx := context.Background()

	for _, bad := range []string{"has space", "semi;colon", "me", "ME", ""} {
		_, err := svc.Register(ctx, RegisterInput{
			Email: "a@b.c", Username: bad, FirstName: "A", LastName: "B", Password: "p",
		})
		if !errors.Is(err, ErrBadUsername) {
			t.Fatalf("username %q: want ErrBadUsername, got %v", bad, err)
		}
	}
	// The full allowed alphabet passes.
	if _, err := svc.Register(ctx, RegisterInput{
		Email: "ok@b.c", Username: "user.name+tag@x-1_", FirstName: "A", LastName: "B", Password: "p",
	}); err != nil {
		t.Fatalf("allowed username rejected: %v", err)
	}
}

func TestRegister_UniquenessConflicts(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Images: &fakeImages{}}
	ctx := context.Background()

	in := RegisterInput{Email: "dup@b.c", Username: "dup", FirstName: "A", LastName: "B", Password: "p"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}

	same := in
	same.Username = "other"
	if _, err := svc.Register(ctx, same); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}

	same = in
	same.Email = "other@b.c"
	if _, err := svc.Register(ctx, same); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("want ErrUsernameTaken, got %v", err)
	}
}

func TestAvatar_SetAndDelete(t *testing.T) {
	db := newServiceDB(t)
	images := &fakeImages{}
	svc := &UserService{DB: db, Images: images}
	ctx := context.Background()
	u := mustUser(t, db, "painter")

	if _, err := svc.SetAvatar(ctx, u.ID, "  "); !errors.Is(err, ErrAvatarRequired) {
		t.Fatalf("want ErrAvatarRequired, got %v", err)
	}

	got, err := svc.SetAvatar(ctx, u.ID, "data:image/png;base64,xxxx")
	if err != nil {
		t.Fatalf("SetAvatar: %v", err)
	}
	if got.Avatar == "" || images.saved != 1 {
		t.Fatalf("avatar not stored: %+v saved=%d", got, images.saved)
	}

	if err := svc.DeleteAvatar(ctx, u.ID); err != nil {
		t.Fatalf("DeleteAvatar: %v", err)
	}
	after, err := svc.Get(ctx, u.ID)
	if err != nil || after.Avatar != "" {
		t.Fatalf("avatar not cleared: %+v err=%v", after, err)
	}

	if _, err := svc.SetAvatar(ctx, 999, "data:image/png;base64,xxxx"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestUserList_Pagination(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Images: &fakeImages{}}
	ctx := context.Background()
	for _, name := range []string{"a1", "a2", "a3"} {
		mustUser(t, db, name)
	}

	users, total, err := svc.List(ctx, 0, 2)
	if err != nil || total != 3 || len(users) != 2 {
		t.Fatalf("List: total=%d page=%d err=%v", total, len(users), err)
	}
	if _, err := svc.Get(ctx, 404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}
