package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/caretrack/internal/middleware"
	"github.com/jwalitptl/caretrack/internal/service/auth"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
	"github.com/jwalitptl/caretrack/pkg/httputil"
)

// CookieConfig describes the admin session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// SetSessionCookie stores the session token in an HTTP-only cookie
func (cc CookieConfig) SetSessionCookie(c *gin.Context, session *auth.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cc.Name, session.Token, maxAge, "/", "", cc.Secure, true)
}

func (cc CookieConfig) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cc.Name, "", -1, "/", "", cc.Secure, true)
}

type Handler struct {
	service *auth.Service
	guard   *middleware.AuthMiddleware
	cookie  CookieConfig
}

func NewHandler(service *auth.Service, guard *middleware.AuthMiddleware, cookie CookieConfig) *Handler {
	return &Handler{
		service: service,
		guard:   guard,
		cookie:  cookie,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	session := r.Group("/admin/session")
	{
		session.POST("", h.Login)
		session.DELETE("", h.Logout)
	}
}

type LoginRequest struct {
	Passkey string `json:"passkey"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.Passkey)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.cookie.SetSessionCookie(c, session)
	httputil.RespondWithSuccess(c, http.StatusOK, LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), h.guard.Token(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	h.cookie.ClearSessionCookie(c)
	c.Status(http.StatusNoContent)
}
