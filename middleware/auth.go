package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"churchcms/access"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

const principalKey = "principal"

// TokenParser turns a session token into the principal it was issued to.
type TokenParser interface {
	Parse(token string) (*access.Principal, error)
}

// Session resolves the caller from a Bearer token or the session cookie and
// stores the principal in the context. It never rejects a request: routes decide
// what an anonymous caller may do.
func Session(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token != "" {
			if p, err := parser.Parse(token); err == nil {
				c.Set(principalKey, p)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// Principal returns the signed-in caller, or nil.
func Principal(c *gin.Context) *access.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*access.Principal)
	return p
}

// SetPrincipal stores p as the caller of the request.
func SetPrincipal(c *gin.Context, p *access.Principal) {
	c.Set(principalKey, p)
}
