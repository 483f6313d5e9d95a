// Package services – BookmarkService
//
// This file implements the generic bookmark toggle shared by favorites and
// the shopping cart: one add/remove implementation parameterized by the
// relation kind, instead of two near-identical services. Duplicate adds are
// ultimately arbitrated by the (user, recipe, kind) unique index, so a
// losing concurrent insert surfaces as the same conflict error rather than
// a crash.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
)

// BookmarkService implements the add/remove use-cases for the user↔recipe
// membership relations (favorite, shopping cart).
type BookmarkService struct {
	DB *gorm.DB
}

// Add puts recipeID into userID's set of the given kind and returns the
// bookmarked recipe for the short response form.
//
// Errors:
//   - ErrRecipeNotFound when the recipe does not exist.
//   - ErrAlreadyBookmarked when the pair already exists, including the case
//     where a concurrent duplicate request lost the race on the unique index.
func (s *BookmarkService) Add(ctx context.Context, userID, recipeID uint, kind string) (*domain.Recipe, error) {
	r, err := repo.GetRecipe(ctx, s.DB, recipeID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if err := repo.CreateLink(ctx, s.DB, userID, recipeID, kind); err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyBookmarked
		}
		return nil, err
	}
	return r, nil
}

// Remove takes recipeID out of userID's set of the given kind.
//
// Errors:
//   - ErrRecipeNotFound when the recipe does not exist.
//   - ErrBookmarkNotFound when the pair was never added (or already removed).
func (s *BookmarkService) Remove(ctx context.Context, userID, recipeID uint, kind string) error {
	if _, err := repo.GetRecipe(ctx, s.DB, recipeID); err != nil {
		if isNotFound(err) {
			return ErrRecipeNotFound
		}
		return err
	}
	if err := repo.DeleteLink(ctx, s.DB, userID, recipeID, kind); err != nil {
		if isNotFound(err) {
			return ErrBookmarkNotFound
		}
		return err
	}
	return nil
}
