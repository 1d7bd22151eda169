package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/caretrack/pkg/auth"
	"github.com/jwalitptl/caretrack/pkg/errors"
	"github.com/jwalitptl/caretrack/pkg/httputil"
)

const ContextSessionID = "session_id"

// SessionValidator checks an admin session token
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	sessions   SessionValidator
	cookieName string
}

func NewAuthMiddleware(sessions SessionValidator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// Token reads the session token from the cookie or a bearer Authorization header
func (m *AuthMiddleware) Token(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (m *AuthMiddleware) authenticate(c *gin.Context) error {
	token := m.Token(c)
	if token == "" {
		return errors.Unauthorized(nil)
	}
	claims, err := m.sessions.Validate(c.Request.Context(), token)
	if err != nil {
		return err
	}
	c.Set(ContextSessionID, claims.ID)
	return nil
}

// RequireAdmin guards the JSON admin API
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authenticate(c); err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdminPage guards admin pages, sending visitors without a session to loginPath
func (m *AuthMiddleware) RequireAdminPage(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authenticate(c); err != nil {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
