// Package services – UserService
//
// This file implements account use-cases: registration with bcrypt password
// hashing, profile reads, and avatar set/delete. Token issuance and session
// mechanics live outside this service; callers arrive with an already
// resolved user id.
package services

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
)

// usernamePattern matches the allowed username alphabet: word characters
// plus @ . + -. The reserved value "me" is rejected separately because it
// collides with the /users/me route.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// UserService implements account management.
type UserService struct {
	DB     *gorm.DB
	Images ImageSaver
}

// Register creates a new account.
//
// Validation:
//   - username must match `^[\w.@+-]+$` and must not be "me"
//     (ErrBadUsername).
//   - email and username must be unique (ErrEmailTaken / ErrUsernameTaken;
//     the unique indexes arbitrate concurrent registrations).
//
// The password is stored as a bcrypt hash and never returned.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if !usernamePattern.MatchString(username) || strings.EqualFold(username, "me") {
		return nil, ErrBadUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if isDuplicate(err) {
			if strings.Contains(strings.ToLower(err.Error()), "email") {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// Get returns the user with the given id, or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns one page of users plus the total count.
func (s *UserService) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	total, err := repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	users, err := repo.ListUsersPage(ctx, s.DB, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetAvatar stores the base64-encoded avatar image for userID and returns
// the updated user. An empty payload is a validation failure.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, dataURI string) (*domain.User, error) {
	if strings.TrimSpace(dataURI) == "" {
		return nil, ErrAvatarRequired
	}
	path, err := s.Images.SaveDataURI(dataURI, "avatars")
	if err != nil {
		return nil, &ValidationError{Field: "avatar", Message: err.Error()}
	}
	if err := repo.UpdateUserAvatar(ctx, s.DB, userID, path); err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Get(ctx, userID)
}

// DeleteAvatar clears the avatar of userID.
func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	if err := repo.UpdateUserAvatar(ctx, s.DB, userID, ""); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
