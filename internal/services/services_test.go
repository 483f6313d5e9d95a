package services

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
	"github.com/foodgram/backend/internal/repo"
)

// newServiceDB opens a throwaway SQLite database with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fakeImages is an in-memory ImageSaver: it accepts any non-empty payload
// and returns a deterministic media path.
type fakeImages struct {
	saved int
}

func (f *fakeImages) SaveDataURI(dataURI, subdir string) (string, error) {
	if dataURI == "" {
		return "", fmt.Errorf("empty payload")
	}
	f.saved++
	return fmt.Sprintf("%s/fake-%d.png", subdir, f.saved), nil
}

func mustUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        username + "@example.org",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "x",
	}
	if err := repo.CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func mustTag(t *testing.T, db *gorm.DB, name, slug string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("seed tag %s: %v", slug, err)
	}
	return tag
}

func mustIngredient(t *testing.T, db *gorm.DB, name, unit string) *domain.Ingredient {
	t.Helper()
	ing := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("seed ingredient %s: %v", name, err)
	}
	return ing
}

// validInput returns a payload that passes every composer check, referencing
// the given tag and ingredient.
func validInput(tagID, ingredientID uint) RecipeInput {
	return RecipeInput{
		Name:        "Pancakes",
		Text:        "mix and fry",
		CookingTime: 20,
		Image:       "data:image/png;base64,xxxx",
		TagIDs:      []uint{tagID},
		Ingredients: []IngredientAmount{{ID: ingredientID, Amount: 200}},
	}
}
