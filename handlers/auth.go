package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"churchcms/middleware"
	"churchcms/models"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a session token, returned in the body and as
// an HTTP-only cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "email and password are required", middleware.BindingDetails(err)...)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	session, err := h.services.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.setSessionCookie(c, session.Token, time.Until(session.ExpiresAt))
	c.JSON(http.StatusOK, session)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -time.Second)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session returns the signed-in principal, or 401.
func (h *Handler) Session(c *gin.Context) {
	p := middleware.Principal(c)
	if p == nil {
		h.writeError(c, models.NewUnauthenticatedError("not signed in"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.secureCookies, true)
}
