package services

import (
	"context"
	"errors"
	"testing"

	"github.com/foodgram/backend/internal/domain"
)

func TestShortCode_DeterministicAndFixedLength(t *testing.T) {
	a := ShortCode("/recipes/1")
	b := ShortCode("/recipes/1")
	c := ShortCode("/recipes/2")
	if a != b {
		t.Fatalf("same URL must hash to same code: %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("different URLs collided: %q", a)
	}
	if len(a) != domain.ShortCodeLen {
		t.Fatalf("code length = %d; want %d", len(a), domain.ShortCodeLen)
	}
}

func TestGetOrCreate_ConvergesOnOneRow(t *testing.T) {
	db := newServiceDB(t)
	svc := &ShortLinkService{DB: db}
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "/recipes/1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := svc.GetOrCreate(ctx, "/recipes/1")
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if first.ID != second.ID || first.ShortCode != second.ShortCode {
		t.Fatalf("rows diverged: %+v vs %+v", first, second)
	}

	var count int64
	db.Model(&domain.ShortLink{}).Count(&count)
	if count != 1 {
		t.Fatalf("want 1 row, got %d", count)
	}
}

func TestResolve(t *testing.T) {
	db := newServiceDB(t)
	svc := &ShortLinkService{DB: db}
	ctx := context.Background()

	l, err := svc.GetOrCreate(ctx, "/recipes/42")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	target, err := svc.Resolve(ctx, l.ShortCode)
	if err != nil || target != "/recipes/42" {
		t.Fatalf("Resolve = %q, %v", target, err)
	}
	if _, err := svc.Resolve(ctx, "nope"); !errors.Is(err, ErrShortLinkNotFound) {
		t.Fatalf("want ErrShortLinkNotFound, got %v", err)
	}
}
