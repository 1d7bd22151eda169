package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/caretrack/internal/handler/appointment"
	"github.com/jwalitptl/caretrack/internal/handler/health"
	"github.com/jwalitptl/caretrack/internal/middleware"
	"github.com/jwalitptl/caretrack/internal/web"
	"github.com/jwalitptl/caretrack/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers are the route sets mounted by Setup
type Handlers struct {
	Health      *health.Handler
	Pages       Handler
	Patient     Handler
	Appointment *appointment.Handler
	Admin       Handler
	Catalog     Handler
	Forms       Handler
}

type RouterConfig struct {
	AllowedOrigins []string
	HSTS           bool
	// RateLimit nil serves every client without limit
	RateLimit      *middleware.RateLimiterConfig
	MaxUploadBytes int64
	RequestTimeout time.Duration
	ImagesDir      string
	MetricsPath    string
	Metrics        *metrics.Metrics
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	config   RouterConfig
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config RouterConfig) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		config:   config,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
	)
	if config.Metrics != nil {
		engine.Use(middleware.Metrics(config.Metrics))
	}
	engine.Use(
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(config.HSTS)),
		middleware.CORS(middleware.DefaultCORSConfig(config.AllowedOrigins)),
	)
	if config.RateLimit != nil {
		engine.Use(middleware.NewRateLimiter(*config.RateLimit).RateLimit())
	}
	engine.Use(middleware.SizeLimit(middleware.DefaultSizeLimitConfig(config.MaxUploadBytes)))
	if config.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(config.RequestTimeout))
	}

	return r
}

func (r *Router) Setup() {
	r.engine.SetHTMLTemplate(web.Templates())
	r.engine.StaticFS("/assets", web.Assets(r.config.ImagesDir))

	r.setupHealthCheck(&r.engine.RouterGroup)

	// Every page and API response may carry patient data
	pages := r.engine.Group("", middleware.NoStore())
	r.handlers.Pages.RegisterRoutes(pages)

	api := r.engine.Group("/api/v1", middleware.NoStore())
	r.setupPublicRoutes(api)

	admin := api.Group("/admin", r.auth.RequireAdmin())
	r.handlers.Appointment.RegisterAdminRoutes(admin)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	r.handlers.Health.RegisterRoutes(rg)
	if r.config.MetricsPath != "" {
		r.handlers.Health.RegisterMetrics(rg, r.config.MetricsPath)
	}
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.handlers.Patient.RegisterRoutes(rg)
	r.handlers.Appointment.RegisterRoutes(rg)
	r.handlers.Admin.RegisterRoutes(rg)
	r.handlers.Catalog.RegisterRoutes(rg)
	r.handlers.Forms.RegisterRoutes(rg)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
