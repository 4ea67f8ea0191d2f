package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageBySlug is the public lookup behind /p/{slug}.
func (h *Handler) PageBySlug(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	p, err := h.services.Pages.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) MinistryBySlug(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	m, err := h.services.Ministries.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
