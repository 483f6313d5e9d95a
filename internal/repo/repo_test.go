package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/domain"
)

// newTestDB opens a throwaway SQLite database in a temp dir and runs the
// full schema migration.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        username + "@example.org",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "x",
	}
	if err := CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func seedTag(t *testing.T, db *gorm.DB, name, slug string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("seed tag %s: %v", slug, err)
	}
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *domain.Ingredient {
	t.Helper()
	ing := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("seed ingredient %s: %v", name, err)
	}
	return ing
}

// seedRecipe inserts a recipe with the given tags and (ingredient, amount)
// pairs through the same repo functions the composer uses.
func seedRecipe(t *testing.T, db *gorm.DB, author *domain.User, name string, tags []domain.Tag, items map[uint]int) *domain.Recipe {
	t.Helper()
	ctx := context.Background()
	r := &domain.Recipe{
		Name:        name,
		Text:        "steps",
		CookingTime: 30,
		Image:       "recipes/img.png",
		AuthorID:    author.ID,
	}
	if err := InsertRecipe(ctx, db, r); err != nil {
		t.Fatalf("insert recipe: %v", err)
	}
	if len(tags) > 0 {
		if err := SetRecipeTags(ctx, db, r, tags); err != nil {
			t.Fatalf("set tags: %v", err)
		}
	}
	rows := make([]domain.RecipeIngredient, 0, len(items))
	for id, amount := range items {
		rows = append(rows, domain.RecipeIngredient{RecipeID: r.ID, IngredientID: id, Amount: amount})
	}
	if len(rows) > 0 {
		if err := InsertRecipeIngredients(ctx, db, rows); err != nil {
			t.Fatalf("insert recipe ingredients: %v", err)
		}
	}
	return r
}
