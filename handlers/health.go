package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports the store and the optional collaborators. Only the store
// makes the service unhealthy.
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "running", http.StatusOK
	store := "healthy"
	if err := h.store.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("store ping failed")
		store = "unhealthy"
		status, code = "degraded", http.StatusServiceUnavailable
	}

	cache := "disabled"
	if h.redis != nil {
		cache = "healthy"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			cache = "unhealthy"
		}
	}

	storage := "disabled"
	if h.services.Uploads.Available() {
		storage = "configured"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": gin.H{
			"store":   store,
			"cache":   cache,
			"storage": storage,
		},
	})
}
