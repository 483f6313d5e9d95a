// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the read-mostly
// catalog: tags and ingredients.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ListTags returns every tag ordered by name ascending.
func ListTags(ctx context.Context, db *gorm.DB) ([]domain.Tag, error) {
	var out []domain.Tag
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// GetTag fetches a single tag by ID, or ErrNotFound if missing.
func GetTag(ctx context.Context, db *gorm.DB, id uint) (*domain.Tag, error) {
	var t domain.Tag
	if err := db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// TagsByIDs returns the tags whose IDs appear in ids. Missing IDs are simply
// absent from the result; the caller compares lengths to detect them.
func TagsByIDs(ctx context.Context, db *gorm.DB, ids []uint) ([]domain.Tag, error) {
	var out []domain.Tag
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// ListIngredients returns ingredients ordered by name ascending. When
// namePrefix is non-empty the result is restricted to names starting with it,
// case-insensitively.
func ListIngredients(ctx context.Context, db *gorm.DB, namePrefix string) ([]domain.Ingredient, error) {
	q := db.WithContext(ctx).Order("name asc")
	if p := strings.TrimSpace(namePrefix); p != "" {
		q = q.Where("LOWER(name) LIKE ?", strings.ToLower(p)+"%")
	}
	var out []domain.Ingredient
	err := q.Find(&out).Error
	return out, err
}

// GetIngredient fetches a single ingredient by ID, or ErrNotFound if missing.
func GetIngredient(ctx context.Context, db *gorm.DB, id uint) (*domain.Ingredient, error) {
	var i domain.Ingredient
	if err := db.WithContext(ctx).First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

// IngredientsByIDs returns the ingredients whose IDs appear in ids, keyed by
// ID for O(1) existence checks by the recipe composer.
func IngredientsByIDs(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]domain.Ingredient, error) {
	var rows []domain.Ingredient
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]domain.Ingredient, len(rows))
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}
