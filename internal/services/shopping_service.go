// Package services – ShoppingListService
//
// This file implements the shopping-list aggregator: one read-only
// grouped-sum query over the RecipeIngredient rows of every recipe in the
// user's shopping cart. Summation is exact integer addition; ordering is by
// ingredient name ascending (name is unique in the catalog, so the order is
// total). An empty cart yields an explicit error instead of an empty
// document.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/repo"
)

// ReportTitle is the title line of the shopping-list document.
const ReportTitle = "Список покупок"

// ReportItem is one numbered line of the shopping-list report.
type ReportItem struct {
	Index  int
	Name   string
	Amount int64
	Unit   string
}

// Report is the aggregated shopping list, ready for rendering.
type Report struct {
	Title string
	Items []ReportItem
}

// ShoppingListService builds shopping-list reports.
type ShoppingListService struct {
	DB *gorm.DB
}

// BuildReport aggregates the shopping cart of userID into an ordered report.
// Running it twice with no intervening writes yields identical output (it is
// a pure read). Returns ErrShoppingListEmpty when the cart holds no recipes.
func (s *ShoppingListService) BuildReport(ctx context.Context, userID uint) (*Report, error) {
	totals, err := repo.SumShoppingList(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, ErrShoppingListEmpty
	}
	items := make([]ReportItem, len(totals))
	for i, t := range totals {
		items[i] = ReportItem{
			Index:  i + 1,
			Name:   t.Name,
			Amount: t.Total,
			Unit:   t.Unit,
		}
	}
	return &Report{Title: ReportTitle, Items: items}, nil
}
