package page

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/caretrack/internal/handler/admin"
	"github.com/jwalitptl/caretrack/internal/middleware"
	"github.com/jwalitptl/caretrack/internal/service/appointment"
	"github.com/jwalitptl/caretrack/internal/service/auth"
	"github.com/jwalitptl/caretrack/internal/service/patient"
	"github.com/jwalitptl/caretrack/internal/web"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
	"github.com/jwalitptl/caretrack/pkg/httputil"
)

type Config struct {
	Location       *time.Location
	MaxUploadBytes int64
	Cookie         admin.CookieConfig
}

// Handler serves the server-rendered patient and admin pages
type Handler struct {
	patients     *patient.Service
	appointments *appointment.Service
	sessions     *auth.Service
	guard        *middleware.AuthMiddleware
	cfg          Config
	now          func() time.Time
}

func NewHandler(patients *patient.Service, appointments *appointment.Service, sessions *auth.Service,
	guard *middleware.AuthMiddleware, cfg Config) *Handler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Handler{
		patients:     patients,
		appointments: appointments,
		sessions:     sessions,
		guard:        guard,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.Home)
	r.POST("/", h.CreateUser)

	patients := r.Group("/patients/:userId")
	{
		patients.GET("/register", h.RegisterForm)
		patients.POST("/register", h.Register)
		patients.GET("/new-appointment", h.NewAppointmentForm)
		patients.POST("/new-appointment", h.CreateAppointment)
		patients.GET("/new-appointment/success", h.Success)
	}

	r.GET(web.AdminLoginPath, h.LoginForm)
	r.POST(web.AdminLoginPath, h.Login)
	r.POST("/admin/logout", h.Logout)

	dashboard := r.Group(web.AdminPath, h.guard.RequireAdminPage(web.AdminLoginPath))
	{
		dashboard.GET("", h.Dashboard)
		dashboard.GET("/appointments/export", h.Export)
		dashboard.GET("/appointments/:id/:mode", h.Dialog)
		dashboard.POST("/appointments/:id/:mode", h.UpdateAppointment)
	}
}

// renderError shows the error page with the status of err's kind
func (h *Handler) renderError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	status := httputil.StatusCode(appErr.Kind)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("kind", string(appErr.Kind)).
			Str("path", c.FullPath()).
			Msg("page failed")
	}
	c.HTML(status, web.PageError, web.ErrorPage{Status: status, Message: appErr.Message})
}

// formFailure splits err into the errors shown next to the controls and a
// message shown above the form
func formFailure(err error) (status int, fields map[string]string, message string) {
	appErr := apperrors.As(err)
	status = httputil.StatusCode(appErr.Kind)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("kind", string(appErr.Kind)).Msg("form submit failed")
	}
	if appErr.Kind == apperrors.KindValidation && len(appErr.Fields) > 0 {
		return status, appErr.Fields, ""
	}
	return status, nil, appErr.Message
}

func (h *Handler) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
