// Response shapes and the mapping from domain entities to them.
//
// The read models mirror the public API contract: recipes carry nested tag
// objects, the author with a viewer-dependent `is_subscribed` flag, and
// ingredient lines joined with their catalog name and unit. The short recipe
// form is used by bookmark toggles and subscription listings.
package handlers

import "github.com/foodgram/backend/internal/domain"

// TagResponse is one tag object in API responses.
type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// UserResponse is the public profile shape.
type UserResponse struct {
	ID           uint    `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// IngredientLineResponse is one quantified ingredient line of a recipe.
type IngredientLineResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe read model.
type RecipeResponse struct {
	ID               uint                     `json:"id"`
	Tags             []TagResponse            `json:"tags"`
	Author           UserResponse             `json:"author"`
	Ingredients      []IngredientLineResponse `json:"ingredients"`
	IsFavorited      bool                     `json:"is_favorited"`
	IsInShoppingCart bool                     `json:"is_in_shopping_cart"`
	Name             string                   `json:"name"`
	Image            string                   `json:"image"`
	Text             string                   `json:"text"`
	CookingTime      int                      `json:"cooking_time"`
}

// ShortRecipeResponse is the compact recipe form used by bookmark toggles
// and subscription listings.
type ShortRecipeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// UserWithRecipesResponse extends the profile with the author's recipes,
// used by the subscriptions listing.
type UserWithRecipesResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// mediaURL turns a stored media-relative path into a served URL. Empty
// stays empty so absent images render as "".
func mediaURL(path string) string {
	if path == "" {
		return ""
	}
	return "/media/" + path
}

// avatarURL is mediaURL with null for absent avatars.
func avatarURL(path string) *string {
	if path == "" {
		return nil
	}
	u := mediaURL(path)
	return &u
}

func presentTag(t domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func presentUser(u *domain.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       avatarURL(u.Avatar),
	}
}

func presentShortRecipe(r *domain.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       mediaURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

func presentRecipe(r *domain.Recipe, isFavorited, isInCart, authorSubscribed bool) RecipeResponse {
	tags := make([]TagResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = presentTag(t)
	}
	lines := make([]IngredientLineResponse, len(r.Ingredients))
	for i, ri := range r.Ingredients {
		lines[i] = IngredientLineResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}
	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           presentUser(&r.Author, authorSubscribed),
		Ingredients:      lines,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             r.Name,
		Image:            mediaURL(r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func presentUserWithRecipes(u *domain.User, isSubscribed bool, recipes []domain.Recipe, count int64) UserWithRecipesResponse {
	short := make([]ShortRecipeResponse, len(recipes))
	for i := range recipes {
		short[i] = presentShortRecipe(&recipes[i])
	}
	return UserWithRecipesResponse{
		UserResponse: presentUser(u, isSubscribed),
		Recipes:      short,
		RecipesCount: count,
	}
}
