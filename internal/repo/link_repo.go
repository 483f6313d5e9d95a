// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the generic
// bookmark relation (UserRecipeLink): favorites and the shopping cart share
// one table discriminated by kind.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
)

// CreateLink inserts a (user, recipe, kind) bookmark row. A concurrent or
// repeated insert of the same triple fails on the ux_user_recipe_kind unique
// index; the raw DB error is propagated for the service layer to classify.
func CreateLink(ctx context.Context, db *gorm.DB, userID, recipeID uint, kind string) error {
	l := &domain.UserRecipeLink{
		UserID:    userID,
		RecipeID:  recipeID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(l).Error
}

// DeleteLink removes a bookmark row. If no row matched (never added, or
// already removed), it returns ErrNotFound.
func DeleteLink(ctx context.Context, db *gorm.DB, userID, recipeID uint, kind string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&domain.UserRecipeLink{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasLink reports whether the (user, recipe, kind) bookmark exists.
func HasLink(ctx context.Context, db *gorm.DB, userID, recipeID uint, kind string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.UserRecipeLink{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Count(&n).Error
	return n > 0, err
}

// LinkSet returns, for one user and kind, the subset of recipeIDs that are
// bookmarked, as a membership map. It lets the presenter compute viewer
// flags for a whole listing with a single query instead of one per recipe.
func LinkSet(ctx context.Context, db *gorm.DB, userID uint, kind string, recipeIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := db.WithContext(ctx).
		Model(&domain.UserRecipeLink{}).
		Where("user_id = ? AND kind = ? AND recipe_id IN ?", userID, kind, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
