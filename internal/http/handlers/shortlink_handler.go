// Short-link redirect handler.
//
// GET /s/{code} resolves a previously issued short code and redirects to the
// original recipe URL. Mounted at the server root, outside the API base
// path, so issued links stay short.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResolveShortLink redirects to the original URL behind the code, or 404s
// for unknown codes.
func (h *Handlers) ResolveShortLink(c *gin.Context) {
	target, err := h.linkSvc.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		failFromService(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}
