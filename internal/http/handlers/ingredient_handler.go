// Ingredient HTTP handlers.
//
// This file exposes the public, unpaginated ingredient reference data:
//   - GET /ingredients?name=   (list, case-insensitive name-prefix filter)
//   - GET /ingredients/{id}    (retrieve)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/repo"
)

// ListIngredients returns ingredients, optionally narrowed by the `name`
// query parameter interpreted as a case-insensitive prefix.
func (h *Handlers) ListIngredients(c *gin.Context) {
	items, err := repo.ListIngredients(c.Request.Context(), h.db, c.Query("name"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// GetIngredient returns one ingredient by id.
func (h *Handlers) GetIngredient(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "ingredient not found")
		return
	}
	ing, err := repo.GetIngredient(c.Request.Context(), h.db, id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "ingredient not found")
		return
	}
	ok(c, http.StatusOK, ing)
}
