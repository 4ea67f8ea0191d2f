package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"churchcms/middleware"
	"churchcms/models"
)

// requestTimeout bounds the storage work of one request.
const requestTimeout = 10 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindUnauthenticated:
		return http.StatusUnauthorized
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindConflict:
		return http.StatusConflict
	case models.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError maps err to its status and body. Internal causes are logged, never sent.
func (h *Handler) writeError(c *gin.Context, err error) {
	kind := models.KindOf(err)
	body := models.ErrorResponse{Code: string(kind)}
	var appErr *models.AppError
	if errors.As(err, &appErr) && kind != models.KindInternal {
		body.Error = appErr.Message
		body.Details = appErr.Details
	} else {
		body.Error = "Internal server error"
		body.Code = string(models.KindInternal)
		h.log.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": middleware.GetRequestID(c),
		}).Error("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(kind), body)
}

func (h *Handler) badRequest(c *gin.Context, message string, details ...string) {
	h.writeError(c, models.NewValidationError(message, details...))
}
