package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"churchcms/middleware"
)

// DashboardStats serves the admin dashboard counters.
func (h *Handler) DashboardStats(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()
	stats, err := h.services.Stats.Dashboard(ctx, middleware.Principal(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
