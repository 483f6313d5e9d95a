// Recipe HTTP handlers.
//
// This file exposes REST endpoints for recipe resources:
//   - GET    /recipes                           (list, filters + pagination, ETag support)
//   - POST   /recipes                           (create)
//   - GET    /recipes/{id}                      (retrieve)
//   - PATCH  /recipes/{id}                      (replace, author only)
//   - DELETE /recipes/{id}                      (delete, author only)
//   - POST/DELETE /recipes/{id}/favorite        (favorites toggle)
//   - POST/DELETE /recipes/{id}/shopping_cart   (shopping-cart toggle)
//   - GET    /recipes/download_shopping_cart    (aggregated PDF)
//   - GET    /recipes/{id}/get-link             (short link)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/export"
	"github.com/foodgram/backend/internal/http/middleware"
	"github.com/foodgram/backend/internal/repo"
	"github.com/foodgram/backend/internal/services"
	"github.com/foodgram/backend/internal/sysutil"
	"github.com/foodgram/backend/internal/utils"
)

//
// DTOs
//

// IngredientRef is one (id, amount) pair of a recipe payload.
type IngredientRef struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeRequest is the JSON payload for creating or updating a recipe.
// Image holds a base64 data URI; on update an empty image keeps the stored
// file.
type RecipeRequest struct {
	Name        string          `json:"name"`
	Text        string          `json:"text"`
	CookingTime int             `json:"cooking_time"`
	Image       string          `json:"image"`
	Tags        []uint          `json:"tags"`
	Ingredients []IngredientRef `json:"ingredients"`
}

func (r RecipeRequest) toInput() services.RecipeInput {
	items := make([]services.IngredientAmount, len(r.Ingredients))
	for i, ref := range r.Ingredients {
		items[i] = services.IngredientAmount{ID: ref.ID, Amount: ref.Amount}
	}
	return services.RecipeInput{
		Name:        strings.TrimSpace(r.Name),
		Text:        r.Text,
		CookingTime: r.CookingTime,
		Image:       r.Image,
		TagIDs:      r.Tags,
		Ingredients: items,
	}
}

// bindRecipeRequest parses and shallow-checks the payload. Name and text are
// required here; the ordered composer validation (tags, ingredients, cooking
// time, image, referential checks) runs in the service.
func bindRecipeRequest(c *gin.Context) (services.RecipeInput, bool) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return services.RecipeInput{}, false
	}
	in := req.toInput()
	if in.Name == "" || len(in.Name) > domain.MaxRecipeNameLen {
		failValidation(c, "name", fmt.Sprintf("name is required (1-%d chars)", domain.MaxRecipeNameLen))
		return services.RecipeInput{}, false
	}
	if strings.TrimSpace(in.Text) == "" {
		failValidation(c, "text", "text is required")
		return services.RecipeInput{}, false
	}
	return in, true
}

//
// CRUD
//

// ListRecipes returns a page of recipes, newest publication first.
//
// Filters: `author` (user id), repeated `tags` (slugs, OR-combined),
// `is_favorited=1` and `is_in_shopping_cart=1` (interpreted for the viewer,
// ignored for anonymous requests). Supports a weak ETag for author listings
// via If-None-Match and may return 304.
func (h *Handlers) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := viewerID(c)
	p := h.pageParams(c)

	f := repo.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		ViewerID: viewer,
	}
	if n := utils.AtoiDefault(c.Query("author"), 0); n > 0 {
		f.AuthorID = uint(n)
	}
	if viewer != 0 {
		f.Favorited = c.Query("is_favorited") == "1"
		f.InShoppingCart = c.Query("is_in_shopping_cart") == "1"
	}

	// ETag pre-check for author listings (best effort).
	if f.AuthorID != 0 && len(f.TagSlugs) == 0 && !f.Favorited && !f.InShoppingCart {
		if db := h.statsDB(); db != nil {
			count, maxTS, err := repo.AuthorStats(ctx, db, f.AuthorID)
			if err == nil {
				var ts int64
				if maxTS != nil {
					ts = maxTS.Unix()
				}
				etag := fmt.Sprintf(`W/"recipes:%d:%d:%d"`, f.AuthorID, count, ts)
				c.Header("ETag", etag)
				if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
					c.Status(http.StatusNotModified)
					return
				}
			}
		}
	}

	views, total, err := h.recipeSvc.List(ctx, f, p.Offset(), p.Limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	results := make([]RecipeResponse, len(views))
	for i, v := range views {
		results[i] = presentRecipe(v.Recipe, v.IsFavorited, v.IsInShoppingCart, v.AuthorIsSubscribed)
	}
	ok(c, http.StatusOK, h.page(c, p, total, results))
}

// CreateRecipe creates a recipe authored by the current user and returns the
// full read model.
func (h *Handlers) CreateRecipe(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	in, okBind := bindRecipeRequest(c)
	if !okBind {
		return
	}
	v, err := h.recipeSvc.Create(c.Request.Context(), uid, in)
	if err != nil {
		failFromService(c, err)
		return
	}
	middleware.LoggerFrom(c).Debug().
		Uint("recipe_id", v.Recipe.ID).
		Str("name", sysutil.Truncate(v.Recipe.Name, domain.MaxDisplayLen)).
		Msg("recipe created")
	ok(c, http.StatusCreated, presentRecipe(v.Recipe, v.IsFavorited, v.IsInShoppingCart, v.AuthorIsSubscribed))
}

// GetRecipe returns the full read model for one recipe, with viewer flags
// resolved for authenticated requests.
func (h *Handlers) GetRecipe(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		return
	}
	v, err := h.recipeSvc.Get(c.Request.Context(), id, viewerID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, presentRecipe(v.Recipe, v.IsFavorited, v.IsInShoppingCart, v.AuthorIsSubscribed))
}

// UpdateRecipe replaces a recipe wholesale. Only the author may update; the
// author check precedes payload validation.
func (h *Handlers) UpdateRecipe(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		return
	}
	in, okBind := bindRecipeRequest(c)
	if !okBind {
		return
	}
	v, err := h.recipeSvc.Update(c.Request.Context(), id, uid, in)
	if err != nil {
		failFromService(c, err)
		return
	}
	middleware.LoggerFrom(c).Debug().
		Uint("recipe_id", v.Recipe.ID).
		Str("name", sysutil.Truncate(v.Recipe.Name, domain.MaxDisplayLen)).
		Msg("recipe updated")
	ok(c, http.StatusOK, presentRecipe(v.Recipe, v.IsFavorited, v.IsInShoppingCart, v.AuthorIsSubscribed))
}

// DeleteRecipe removes a recipe. Only the author may delete.
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		return
	}
	if err := h.recipeSvc.Delete(c.Request.Context(), id, uid); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

//
// Bookmark toggles
//

// AddFavorite puts the recipe into the current user's favorites.
func (h *Handlers) AddFavorite(c *gin.Context) { h.addBookmark(c, domain.LinkFavorite) }

// RemoveFavorite takes the recipe out of the current user's favorites.
func (h *Handlers) RemoveFavorite(c *gin.Context) { h.removeBookmark(c, domain.LinkFavorite) }

// AddToShoppingCart puts the recipe into the current user's shopping cart.
func (h *Handlers) AddToShoppingCart(c *gin.Context) { h.addBookmark(c, domain.LinkShoppingCart) }

// RemoveFromShoppingCart takes the recipe out of the current user's shopping
// cart.
func (h *Handlers) RemoveFromShoppingCart(c *gin.Context) {
	h.removeBookmark(c, domain.LinkShoppingCart)
}

func (h *Handlers) addBookmark(c *gin.Context, kind string) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		return
	}
	r, err := h.bookmarkSvc.Add(c.Request.Context(), uid, id, kind)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyBookmarked) {
			failDetail(c, http.StatusBadRequest, err.Error())
			return
		}
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, presentShortRecipe(r))
}

func (h *Handlers) removeBookmark(c *gin.Context, kind string) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		return
	}
	if err := h.bookmarkSvc.Remove(c.Request.Context(), uid, id, kind); err != nil {
		if errors.Is(err, services.ErrBookmarkNotFound) {
			failDetail(c, http.StatusBadRequest, err.Error())
			return
		}
		failFromService(c, err)
		return
	}
	noContent(c)
}

//
// Shopping-list export
//

// DownloadShoppingCart aggregates the current user's shopping cart and
// returns it as a PDF attachment. An empty cart is a 400, not an empty
// document.
func (h *Handlers) DownloadShoppingCart(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	report, err := h.shoppingSvc.BuildReport(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, services.ErrShoppingListEmpty) {
			failDetail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, err.Error())
		return
	}
	pdf, err := export.ShoppingListPDF(report, h.opts.PDFLinesPerPage)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_list.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

//
// Short links
//

// GetRecipeLink issues (or returns) the short link for a recipe page.
// Response shape: {"short-link": "<base><code>"}.
func (h *Handlers) GetRecipeLink(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		return
	}
	if _, err := h.recipeSvc.Get(c.Request.Context(), id, 0); err != nil {
		failFromService(c, err)
		return
	}
	l, err := h.linkSvc.GetOrCreate(c.Request.Context(), fmt.Sprintf("/recipes/%d", id))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"short-link": h.opts.ShortLinkBase + l.ShortCode})
}

//
// Helpers
//

// statsDB exposes the raw handle behind the recipe service for the ETag
// pre-check; nil when the service is a test fake.
func (h *Handlers) statsDB() *gorm.DB {
	if svc, okSvc := h.recipeSvc.(*services.RecipeService); okSvc {
		return svc.DB
	}
	return h.db
}
