// Package services – RecipeService
//
// This file implements the recipe composer: validated, atomic multi-row
// writes for a recipe and its tag set and quantified ingredient set. Create
// and update run inside a single database transaction so the recipe row, its
// tag links, and the full RecipeIngredient replacement are all-or-nothing.
// Service-level errors (ValidationError values, IngredientNotFoundError,
// ErrNotAuthor, ErrRecipeNotFound) are returned for predictable cases so
// handlers can map them to HTTP results consistently.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
)

// ImageSaver persists an encoded image payload and returns the stored
// media-relative path. Implemented by storage.Store; abstracted here so
// tests can substitute an in-memory fake.
type ImageSaver interface {
	SaveDataURI(dataURI, subdir string) (string, error)
}

// IngredientAmount is one (ingredient id, amount) pair of a recipe payload.
type IngredientAmount struct {
	ID     uint
	Amount int
}

// RecipeInput is the validated payload of a recipe create or update.
// Image holds a base64 data URI; on update an empty Image keeps the stored
// file. TagIDs and Ingredients are mandatory and non-empty on both create
// and update (full-replace semantics, no partial diffing).
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	TagIDs      []uint
	Ingredients []IngredientAmount
}

// RecipeView is the read model for a single recipe: the entity with its
// preloaded associations plus the viewer-dependent flags. For an anonymous
// viewer every flag is false and the relation store is never queried.
type RecipeView struct {
	Recipe             *domain.Recipe
	IsFavorited        bool
	IsInShoppingCart   bool
	AuthorIsSubscribed bool
}

// RecipeService implements the recipe composer and read model. The DB handle
// may be a plain *gorm.DB or a transaction-bound handle.
type RecipeService struct {
	DB     *gorm.DB
	Images ImageSaver
}

// validateInput runs the payload checks shared by create and update, in the
// contract's order: tags, ingredients, cooking time, image. Referential
// checks (tag/ingredient existence) run later, inside the transaction.
func validateInput(in RecipeInput, imageRequired bool) error {
	if len(in.TagIDs) == 0 {
		return ErrEmptyTags
	}
	seenTags := make(map[uint]struct{}, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if _, dup := seenTags[id]; dup {
			return ErrDuplicateTags
		}
		seenTags[id] = struct{}{}
	}

	if len(in.Ingredients) == 0 {
		return ErrEmptyIngredients
	}
	seenIngr := make(map[uint]struct{}, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if _, dup := seenIngr[item.ID]; dup {
			return ErrDuplicateIngredient
		}
		seenIngr[item.ID] = struct{}{}
	}

	if in.CookingTime < domain.MinCookingTime || in.CookingTime > domain.MaxCookingTime {
		return ErrCookingTimeRange
	}
	if imageRequired && in.Image == "" {
		return ErrImageRequired
	}
	return nil
}

// resolveReferences loads the referenced tags and ingredients inside the
// transaction and verifies every id exists. A missing ingredient is reported
// with its offending id; amounts are range-checked after existence, matching
// the documented validation order.
func resolveReferences(ctx context.Context, tx *gorm.DB, in RecipeInput) ([]domain.Tag, []domain.RecipeIngredient, error) {
	tags, err := repo.TagsByIDs(ctx, tx, in.TagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(in.TagIDs) {
		return nil, nil, ErrTagNotFound
	}

	ids := make([]uint, len(in.Ingredients))
	for i, item := range in.Ingredients {
		ids[i] = item.ID
	}
	known, err := repo.IngredientsByIDs(ctx, tx, ids)
	if err != nil {
		return nil, nil, err
	}
	rows := make([]domain.RecipeIngredient, 0, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if _, ok := known[item.ID]; !ok {
			return nil, nil, &IngredientNotFoundError{ID: item.ID}
		}
		if item.Amount < domain.MinIngredientAmount || item.Amount > domain.MaxIngredientAmount {
			return nil, nil, ErrAmountRange
		}
		rows = append(rows, domain.RecipeIngredient{
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return tags, rows, nil
}

// Create validates in and persists a new recipe authored by authorID.
//
// Semantics and validation (in order):
//   - tags non-empty, no duplicate ids
//   - ingredients non-empty, no duplicate ids
//   - cooking time within [1, 1440]
//   - image present (required on create)
//   - every referenced tag and ingredient id exists in the catalog; a
//     missing ingredient yields IngredientNotFoundError carrying the id
//   - every amount within [1, 32000]
//
// Concurrency & atomicity:
//   - The recipe row, its tag links, and the bulk-inserted RecipeIngredient
//     rows are written in one transaction; a partial failure leaves no row
//     behind.
func (s *RecipeService) Create(ctx context.Context, authorID uint, in RecipeInput) (*RecipeView, error) {
	if err := validateInput(in, true); err != nil {
		return nil, err
	}

	imagePath, err := s.Images.SaveDataURI(in.Image, "recipes")
	if err != nil {
		return nil, &ValidationError{Field: "image", Message: err.Error()}
	}

	var recipeID uint
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, rows, err := resolveReferences(ctx, tx, in)
		if err != nil {
			return err
		}

		r := &domain.Recipe{
			Name:        in.Name,
			Text:        in.Text,
			CookingTime: in.CookingTime,
			Image:       imagePath,
			AuthorID:    authorID,
		}
		if err := repo.InsertRecipe(ctx, tx, r); err != nil {
			return err
		}
		if err := repo.SetRecipeTags(ctx, tx, r, tags); err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = r.ID
		}
		if err := repo.InsertRecipeIngredients(ctx, tx, rows); err != nil {
			return err
		}
		recipeID = r.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipeID, authorID)
}

// Update replaces a recipe wholesale on behalf of actorID.
//
// The author check precedes any validation, write, or lock: a non-author is
// rejected with ErrNotAuthor. Tags and ingredients are mandatory on update;
// an empty Image keeps the stored file. On success the scalar fields are
// replaced, the tag set is replaced, and every existing RecipeIngredient row
// is deleted and re-inserted from the payload, all in one transaction.
func (s *RecipeService) Update(ctx context.Context, recipeID, actorID uint, in RecipeInput) (*RecipeView, error) {
	existing, err := repo.GetRecipe(ctx, s.DB, recipeID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if existing.AuthorID != actorID {
		return nil, ErrNotAuthor
	}

	if err := validateInput(in, false); err != nil {
		return nil, err
	}

	imagePath := existing.Image
	if in.Image != "" {
		if imagePath, err = s.Images.SaveDataURI(in.Image, "recipes"); err != nil {
			return nil, &ValidationError{Field: "image", Message: err.Error()}
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, rows, err := resolveReferences(ctx, tx, in)
		if err != nil {
			return err
		}
		if err := repo.UpdateRecipeFields(ctx, tx, recipeID, in.Name, in.Text, in.CookingTime, imagePath); err != nil {
			return err
		}
		if err := repo.SetRecipeTags(ctx, tx, &domain.Recipe{ID: recipeID}, tags); err != nil {
			return err
		}
		if err := repo.DeleteRecipeIngredients(ctx, tx, recipeID); err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipeID
		}
		return repo.InsertRecipeIngredients(ctx, tx, rows)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipeID, actorID)
}

// Delete removes a recipe on behalf of actorID. Only the author may delete;
// RecipeIngredient rows and bookmark rows are removed with it.
func (s *RecipeService) Delete(ctx context.Context, recipeID, actorID uint) error {
	existing, err := repo.GetRecipe(ctx, s.DB, recipeID)
	if err != nil {
		if isNotFound(err) {
			return ErrRecipeNotFound
		}
		return err
	}
	if existing.AuthorID != actorID {
		return ErrNotAuthor
	}
	return repo.DeleteRecipe(ctx, s.DB, recipeID)
}

// Get returns the read model for one recipe as seen by viewerID (0 for
// anonymous). Viewer flags are resolved with at most three point queries;
// none are issued for an anonymous viewer.
func (s *RecipeService) Get(ctx context.Context, recipeID, viewerID uint) (*RecipeView, error) {
	r, err := repo.GetRecipe(ctx, s.DB, recipeID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	v := &RecipeView{Recipe: r}
	if viewerID == 0 {
		return v, nil
	}
	if v.IsFavorited, err = repo.HasLink(ctx, s.DB, viewerID, recipeID, domain.LinkFavorite); err != nil {
		return nil, err
	}
	if v.IsInShoppingCart, err = repo.HasLink(ctx, s.DB, viewerID, recipeID, domain.LinkShoppingCart); err != nil {
		return nil, err
	}
	if v.AuthorIsSubscribed, err = repo.IsSubscribed(ctx, s.DB, viewerID, r.AuthorID); err != nil {
		return nil, err
	}
	return v, nil
}

// List returns one page of recipe read models matching f, newest publication
// first, plus the total match count for pagination metadata. Viewer flags
// for the whole page are resolved with three set queries.
func (s *RecipeService) List(ctx context.Context, f repo.RecipeFilter, offset, limit int) ([]RecipeView, int64, error) {
	total, err := repo.CountRecipes(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	recipes, err := repo.ListRecipesPage(ctx, s.DB, f, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]RecipeView, len(recipes))
	for i := range recipes {
		views[i].Recipe = &recipes[i]
	}
	if f.ViewerID == 0 || len(recipes) == 0 {
		return views, total, nil
	}

	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}
	fav, err := repo.LinkSet(ctx, s.DB, f.ViewerID, domain.LinkFavorite, recipeIDs)
	if err != nil {
		return nil, 0, err
	}
	cart, err := repo.LinkSet(ctx, s.DB, f.ViewerID, domain.LinkShoppingCart, recipeIDs)
	if err != nil {
		return nil, 0, err
	}
	subs, err := repo.SubscribedSet(ctx, s.DB, f.ViewerID, authorIDs)
	if err != nil {
		return nil, 0, err
	}
	for i := range views {
		views[i].IsFavorited = fav[recipeIDs[i]]
		views[i].IsInShoppingCart = cart[recipeIDs[i]]
		views[i].AuthorIsSubscribed = subs[authorIDs[i]]
	}
	return views, total, nil
}
