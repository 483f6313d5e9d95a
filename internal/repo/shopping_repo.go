// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the grouped-sum query behind the
// shopping-list report.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
)

// IngredientTotal is one aggregated shopping-list line: an ingredient
// identity plus the exact integer sum of its amounts across every recipe in
// the user's shopping cart.
type IngredientTotal struct {
	Name  string
	Unit  string
	Total int64
}

// SumShoppingList aggregates RecipeIngredient rows for every recipe in the
// user's shopping cart with a single grouped query: join to the ingredient
// catalog, group by (name, unit), sum amounts, order by name ascending.
// Name is unique in the catalog, so the ordering is total.
//
// An empty shopping cart yields an empty slice, which the service layer
// turns into an explicit "list is empty" error.
func SumShoppingList(ctx context.Context, db *gorm.DB, userID uint) ([]IngredientTotal, error) {
	var out []IngredientTotal
	err := db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&domain.UserRecipeLink{}).
				Select("recipe_id").
				Where("user_id = ? AND kind = ?", userID, domain.LinkShoppingCart),
		).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc").
		Scan(&out).Error
	return out, err
}
