package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
)

func newRecipeService(t *testing.T) (*RecipeService, *gorm.DB) {
	t.Helper()
	db := newServiceDB(t)
	return &RecipeService{DB: db, Images: &fakeImages{}}, db
}

func TestRecipeCreate_ValidationOrder(t *testing.T) {
	svc, db := newRecipeService(t)
	ctx := context.Background()
	author := mustUser(t, db, "author")
	tag := mustTag(t, db, "Dinner", "dinner")
	ing := mustIngredient(t, db, "flour", "g")

	base := validInput(tag.ID, ing.ID)

	cases := []struct {
		name   string
		mutate func(*RecipeInput)
		want   error
	}{
		{"empty tags", func(in *RecipeInput) { in.TagIDs = nil }, ErrEmptyTags},
		{"duplicate tags", func(in *RecipeInput) { in.TagIDs = []uint{tag.ID, tag.ID} }, ErrDuplicateTags},
		{"empty ingredients", func(in *RecipeInput) { in.Ingredients = nil }, ErrEmptyIngredients},
		{"duplicate ingredients", func(in *RecipeInput) {
			in.Ingredients = []IngredientAmount{{ID: ing.ID, Amount: 1}, {ID: ing.ID, Amount: 2}}
		}, ErrDuplicateIngredient},
		{"cooking time zero", func(in *RecipeInput) { in.CookingTime = 0 }, ErrCookingTimeRange},
		{"cooking time over day", func(in *RecipeInput) { in.CookingTime = 1441 }, ErrCookingTimeRange},
		{"missing image", func(in *RecipeInput) { in.Image = "" }, ErrImageRequired},
		{"unknown tag", func(in *RecipeInput) { in.TagIDs = []uint{999} }, ErrTagNotFound},
		{"amount zero", func(in *RecipeInput) {
			in.Ingredients = []IngredientAmount{{ID: ing.ID, Amount: 0}}
		}, ErrAmountRange},
		{"amount above bound", func(in *RecipeInput) {
			in.Ingredients = []IngredientAmount{{ID: ing.ID, Amount: 32001}}
		}, ErrAmountRange},
	}
	for _, tc := range cases {
		in := base
		in.TagIDs = append([]uint(nil), base.TagIDs...)
		in.Ingredients = append([]IngredientAmount(nil), base.Ingredients...)
		tc.mutate(&in)
		if _, err := svc.Create(ctx, author.ID, in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	// Boundary amounts are accepted.
	in := base
	in.Ingredients = []IngredientAmount{{ID: ing.ID, Amount: 32000}}
	if _, err := svc.Create(ctx, author.ID, in); err != nil {
		t.Fatalf("amount 32000 must pass: %v", err)
	}
}

func TestRecipeCreate_UnknownIngredientCarriesID(t *testing.T) {
	svc, db := newRecipeService(t)
	ctx := context.Background()
	author := mustUser(t, db, "author")
	tag := mustTag(t, db, "Dinner", "dinner")

	in := validInput(tag.ID, 777)
	_, err := svc.Create(ctx, author.ID, in)
	var infe *IngredientNotFoundError
	if !errors.As(err, &infe) || infe.ID != 777 {
		t.Fatalf("want IngredientNotFoundError{777}, got %v", err)
	}

	// Atomicity: the failed create leaves no recipe row behind.
	var count int64
	db.Model(&domain.Recipe{}).Count(&count)
	if count != 0 {
		t.Fatalf("failed create left %d recipe rows", count)
	}
}

func TestRecipeCreate_PersistsFullAggregate(t *testing.T) {
	svc, db := newRecipeService(t)
	ctx := context.Background()
	author := mustUser(t, db, "author")
	tag := mustTag(t, db, "Dinner", "dinner")
	flour := mustIngredient(t, db, "flour", "g")
	milk := mustIngredient(t, db, "milk", "ml")

	in := validInput(tag.ID, flour.ID)
	in.Ingredients = append(in.Ingredients, IngredientAmount{ID: milk.ID, Amount: 300})

	v, err := svc.Create(ctx, author.ID, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	r := v.Recipe
	if r.AuthorID != author.ID || r.Name != "Pancakes" || r.Image == "" {
		t.Fatalf("unexpected recipe: %+v", r)
	}
	if len(r.Tags) != 1 || r.Tags[0].ID != tag.ID {
		t.Fatalf("tags: %+v", r.Tags)
	}
	got := map[uint]int{}
	for _, line := range r.Ingredients {
		got[line.IngredientID] = line.Amount
	}
	if got[flour.ID] != 200 || got[milk.ID] != 300 {
		t.Fatalf("ingredient set mismatch: %+v", got)
	}
	// Creator sees their own fresh recipe with false flags.
	if v.IsFavorited || v.IsInShoppingCart || v.AuthorIsSubscribed {
		t.Fatalf("fresh recipe must carry false flags: %+v", v)
	}
}

func TestRecipeUpdate_AuthorCheckPrecedesValidation(t *testing.T) {
	svc, db := newRecipeService(t)
	ctx := context.Background()
	author := mustUser(t, db, "author")
	stranger := mustUser(t, db, "stranger")
	tag := mustTag(t, db, "Dinner", "dinner")
	ing := mustIngredient(t, db, "flour", "g")

	v, err := svc.Create(ctx, author.ID, validInput(tag.ID, ing.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Invalid payload from a non-author: permission error, not validation.
	if _, err := svc.Update(ctx, v.Recipe.ID, stranger.ID, RecipeInput{}); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("want ErrNotAuthor, got %v", err)
	}
	if _, err := svc.Update(ctx, 9999, author.ID, RecipeInput{}); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("want ErrRecipeNotFound, got %v", err)
	}
}

func TestRecipeUpdate_ReplacesWholesale(t *testing.T) {
	svc, db := newRecipeService(t)
	ctx := context.Background()
	author := mustUser(t, db, "author")
	dinner := mustTag(t, db, "Dinner", "dinner")
	lunch := mustTag(t, db, "Lunch", "lunch")
	flour := mustIngredient(t, db, "flour", "g")
	milk := mustIngredient(t, db, "milk", "ml")

	in := validInput(dinner.ID, flour.ID)
	v, err := svc.Create(ctx, author.ID, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	oldImage := v.Recipe.Image

	upd := RecipeInput{
		Name:        "Crepes",
		Text:        "thinner",
		CookingTime: 15,
		// Image empty: keep the stored file.
		TagIDs:      []uint{lunch.ID},
		Ingredients: []IngredientAmount{{ID: milk.ID, Amount: 500}},
	}
	v2, err := svc.Update(ctx, v.Recipe.ID, author.ID, upd)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	r := v2.Recipe
	if r.Name != "Crepes" || r.CookingTime != 15 || r.Image != oldImage {
		t.Fatalf("scalar fields: %+v", r)
	}
	if len(r.Tags) != 1 || r.Tags[0].ID != lunch.ID {
		t.Fatalf("tag set not replaced: %+v", r.Tags)
	}
	if len(r.Ingredients) != 1 || r.Ingredients[0].IngredientID != milk.ID || r.Ingredients[0].Amount != 500 {
		t.Fatalf("ingredient lines not replaced: %+v", r.Ingredients)
	}

	// No orphaned lines for the old ingredient remain.
	var orphans int64
	db.Model(&domain.RecipeIngredient{}).
		Where("recipe_id = ? AND ingredient_id = ?", r.ID, flour.ID).
		Count(&orphans)
	if orphans != 0 {
		t.Fatalf("old ingredient line survived: %d", orphans)
	}
}

func TestRecipeDelete_AuthorOnly(t *testing.T) {
	svc, db := newRecipeService(t)
	ctx := context.Background()
	author := mustUser(t, db, "author")
	stranger := mustUser(t, db, "stranger")
	tag := mustTag(t, db, "Dinner", "dinner")
	ing := mustIngredient(t, db, "flour", "g")

	v, err := svc.Create(ctx, author.ID, validInput(tag.ID, ing.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, v.Recipe.ID, stranger.ID); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("want ErrNotAuthor, got %v", err)
	}
	if err := svc.Delete(ctx, v.Recipe.ID, author.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, v.Recipe.ID, 0); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("want ErrRecipeNotFound after delete, got %v", err)
	}
}

func TestRecipeGet_ViewerFlags(t *testing.T) {
	svc, db := newRecipeService(t)
	ctx := context.Background()
	author := mustUser(t, db, "author")
	fan := mustUser(t, db, "fan")
	tag := mustTag(t, db, "Dinner", "dinner")
	ing := mustIngredient(t, db, "flour", "g")

	v, err := svc.Create(ctx, author.ID, validInput(tag.ID, ing.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rid := v.Recipe.ID
	if err := repo.CreateLink(ctx, db, fan.ID, rid, domain.LinkFavorite); err != nil {
		t.Fatalf("link: %v", err)
	}
	if err := repo.CreateSubscription(ctx, db, fan.ID, author.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Anonymous: all flags false.
	anon, err := svc.Get(ctx, rid, 0)
	if err != nil {
		t.Fatalf("Get anon: %v", err)
	}
	if anon.IsFavorited || anon.IsInShoppingCart || anon.AuthorIsSubscribed {
		t.Fatalf("anonymous flags must be false: %+v", anon)
	}

	// The fan sees favorited + subscribed, cart false.
	got, err := svc.Get(ctx, rid, fan.ID)
	if err != nil {
		t.Fatalf("Get fan: %v", err)
	}
	if !got.IsFavorited || got.IsInShoppingCart || !got.AuthorIsSubscribed {
		t.Fatalf("fan flags: %+v", got)
	}
}

func TestRecipeList_PageFlagsAndCount(t *testing.T) {
	svc, db := newRecipeService(t)
	ctx := context.Background()
	author := mustUser(t, db, "author")
	fan := mustUser(t, db, "fan")
	tag := mustTag(t, db, "Dinner", "dinner")
	ing := mustIngredient(t, db, "flour", "g")

	var first uint
	for i := 0; i < 3; i++ {
		in := validInput(tag.ID, ing.ID)
		in.Name = in.Name + string(rune('A'+i))
		v, err := svc.Create(ctx, author.ID, in)
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		if i == 0 {
			first = v.Recipe.ID
		}
	}
	if err := repo.CreateLink(ctx, db, fan.ID, first, domain.LinkShoppingCart); err != nil {
		t.Fatalf("cart link: %v", err)
	}

	views, total, err := svc.List(ctx, repo.RecipeFilter{ViewerID: fan.ID}, 0, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(views) != 2 {
		t.Fatalf("pagination: total=%d page=%d", total, len(views))
	}
	// Newest first: the carted (oldest) recipe is on the second page.
	_, total2, err := svc.List(ctx, repo.RecipeFilter{ViewerID: fan.ID, InShoppingCart: true}, 0, 10)
	if err != nil || total2 != 1 {
		t.Fatalf("cart filter: total=%d err=%v", total2, err)
	}
}
