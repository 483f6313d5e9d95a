// Tag HTTP handlers.
//
// This file exposes the public, unpaginated tag reference data:
//   - GET /tags          (list)
//   - GET /tags/{id}     (retrieve)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/repo"
)

// ListTags returns every tag, unpaginated. Tags are admin-curated reference
// data; the set is small and stable.
func (h *Handlers) ListTags(c *gin.Context) {
	tags, err := repo.ListTags(c.Request.Context(), h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = presentTag(t)
	}
	ok(c, http.StatusOK, out)
}

// GetTag returns one tag by id.
func (h *Handlers) GetTag(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "tag not found")
		return
	}
	t, err := repo.GetTag(c.Request.Context(), h.db, id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "tag not found")
		return
	}
	ok(c, http.StatusOK, presentTag(*t))
}
