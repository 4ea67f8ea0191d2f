package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"churchcms/middleware"
)

// LatestSermons serves the homepage sermon block: ?latest=single returns the one
// latest sermon (or null), otherwise {"sermons": [...]} with the newest sermons.
func (h *Handler) LatestSermons(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	if c.Query("latest") == "single" {
		s, err := h.services.Sermons.Latest(ctx)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
		return
	}
	list, err := h.services.Sermons.Recent(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sermons": list})
}

func (h *Handler) EndLiveSermon(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	s, err := h.services.Sermons.EndLive(ctx, middleware.Principal(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if s == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "sermon": nil, "message": "no live sermon"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sermon": s})
}
