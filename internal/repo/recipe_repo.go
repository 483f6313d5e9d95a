// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipe
// aggregate: the recipe row itself, its tag links, and its RecipeIngredient
// rows.
//
// The mutating functions are written to be composed inside a transaction by
// the recipe composer (services.RecipeService): each takes the handle it is
// given, so passing a tx-bound *gorm.DB makes the whole create/update
// all-or-nothing.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
)

// RecipeFilter narrows ListRecipesPage / CountRecipes. Zero values mean "no
// restriction". Favorited / InShoppingCart are interpreted for ViewerID and
// ignored for anonymous viewers (ViewerID == 0), matching the public API
// contract.
type RecipeFilter struct {
	AuthorID       uint
	TagSlugs       []string
	ViewerID       uint
	Favorited      bool
	InShoppingCart bool
}

func applyRecipeFilter(q *gorm.DB, f RecipeFilter) *gorm.DB {
	if f.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where(
			"recipes.id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).
				Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs),
		)
	}
	if f.ViewerID != 0 {
		if f.Favorited {
			q = q.Where(
				"recipes.id IN (?)",
				linkSubquery(q, f.ViewerID, domain.LinkFavorite),
			)
		}
		if f.InShoppingCart {
			q = q.Where(
				"recipes.id IN (?)",
				linkSubquery(q, f.ViewerID, domain.LinkShoppingCart),
			)
		}
	}
	return q
}

func linkSubquery(q *gorm.DB, userID uint, kind string) *gorm.DB {
	return q.Session(&gorm.Session{NewDB: true}).
		Model(&domain.UserRecipeLink{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind)
}

// InsertRecipe persists a new recipe row. PubDate is set to UTC now; the
// caller supplies every other field.
func InsertRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	r.PubDate = time.Now().UTC()
	return db.WithContext(ctx).Omit("Tags", "Ingredients", "Author").Create(r).Error
}

// UpdateRecipeFields replaces the scalar fields of an existing recipe.
// PubDate is deliberately untouched: it is set once on creation.
func UpdateRecipeFields(ctx context.Context, db *gorm.DB, id uint, name, text string, cookingTime int, image string) error {
	res := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":         name,
			"text":         text,
			"cooking_time": cookingTime,
			"image":        image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetRecipeTags replaces the recipe's tag set wholesale.
func SetRecipeTags(ctx context.Context, db *gorm.DB, r *domain.Recipe, tags []domain.Tag) error {
	return db.WithContext(ctx).Model(r).Association("Tags").Replace(tags)
}

// DeleteRecipeIngredients removes every RecipeIngredient row owned by the
// recipe. Used by the composer before re-inserting the new set.
func DeleteRecipeIngredients(ctx context.Context, db *gorm.DB, recipeID uint) error {
	return db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&domain.RecipeIngredient{}).Error
}

// InsertRecipeIngredients bulk-inserts one row per (ingredient, amount) pair.
func InsertRecipeIngredients(ctx context.Context, db *gorm.DB, rows []domain.RecipeIngredient) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rows).Error
}

// GetRecipe fetches a recipe with its author, tags, and quantified
// ingredient rows preloaded, or ErrNotFound if missing.
func GetRecipe(ctx context.Context, db *gorm.DB, id uint) (*domain.Recipe, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		First(&r, id).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountRecipes returns the number of recipes matching the filter.
func CountRecipes(ctx context.Context, db *gorm.DB, f RecipeFilter) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Recipe{})
	err := applyRecipeFilter(q, f).Count(&total).Error
	return total, err
}

// ListRecipesPage returns a page of recipes matching the filter, newest
// publication first (ties broken by id descending for a stable order).
func ListRecipesPage(ctx context.Context, db *gorm.DB, f RecipeFilter, offset, limit int) ([]domain.Recipe, error) {
	var out []domain.Recipe
	q := db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient")
	err := applyRecipeFilter(q, f).
		Order("pub_date desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListAuthorRecipes returns an author's recipes, newest first, capped at
// limit when limit > 0. Used by the subscriptions read model.
func ListAuthorRecipes(ctx context.Context, db *gorm.DB, authorID uint, limit int) ([]domain.Recipe, error) {
	q := db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Recipe
	err := q.Find(&out).Error
	return out, err
}

// DeleteRecipe removes a recipe row. Tag links, RecipeIngredient rows, and
// bookmark rows cascade via their FK constraints; the tag link table is
// cleared explicitly because SQLite join tables created by AutoMigrate do
// not always carry the cascade.
func DeleteRecipe(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.UserRecipeLink{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
