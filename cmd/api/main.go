package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/caretrack/internal/config"
	"github.com/jwalitptl/caretrack/internal/gateway"
	"github.com/jwalitptl/caretrack/internal/gateway/appwrite"
	"github.com/jwalitptl/caretrack/internal/gateway/memory"
	"github.com/jwalitptl/caretrack/internal/gateway/postgres"
	"github.com/jwalitptl/caretrack/internal/gateway/s3"
	adminHandler "github.com/jwalitptl/caretrack/internal/handler/admin"
	"github.com/jwalitptl/caretrack/internal/handler/appointment"
	"github.com/jwalitptl/caretrack/internal/handler/catalog"
	"github.com/jwalitptl/caretrack/internal/handler/forms"
	"github.com/jwalitptl/caretrack/internal/handler/health"
	"github.com/jwalitptl/caretrack/internal/handler/page"
	"github.com/jwalitptl/caretrack/internal/handler/patient"
	"github.com/jwalitptl/caretrack/internal/middleware"
	"github.com/jwalitptl/caretrack/internal/router"
	appointmentService "github.com/jwalitptl/caretrack/internal/service/appointment"
	authService "github.com/jwalitptl/caretrack/internal/service/auth"
	"github.com/jwalitptl/caretrack/internal/service/notification"
	patientService "github.com/jwalitptl/caretrack/internal/service/patient"
	"github.com/jwalitptl/caretrack/pkg/auth"
	"github.com/jwalitptl/caretrack/pkg/logger"
	"github.com/jwalitptl/caretrack/pkg/metrics"
	"github.com/jwalitptl/caretrack/pkg/security"
)

const tokenIssuer = "caretrack"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Console:    cfg.Logging.Console,
	})
	log.Logger = appLogger.ZL

	ctx := context.Background()

	// Metrics live on a private registry served at /metrics
	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.NewMetrics(cfg.Metrics.Prefix, registry)
		gatherer = registry
	}

	// Initialize backend gateway
	backend, closeBackend, err := newBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Backend.Driver).Msg("failed to initialize backend")
	}
	defer closeBackend()
	backend = gateway.Instrument(backend, m)

	// Initialize admin sessions
	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer closeSessions()

	tokens, err := auth.NewJWTService(cfg.Admin.JWTSecret, tokenIssuer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session tokens")
	}

	// Initialize services
	loc := cfg.Locale.Location()
	notifier := notification.NewService(backend.Messages, loc, appLogger, m)
	patientSvc := patientService.NewService(backend, appLogger, m)
	appointmentSvc := appointmentService.NewService(backend, notifier, appLogger, m)
	authSvc := authService.NewService(security.NewBcryptHasher(bcrypt.DefaultCost), cfg.Admin.PasskeyHash,
		tokens, sessions, cfg.Admin.SessionTTL, appLogger)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc, cfg.Admin.CookieName)
	cookie := adminHandler.CookieConfig{Name: cfg.Admin.CookieName, Secure: cfg.Admin.CookieSecure}

	// Initialize handlers
	pages := page.NewHandler(patientSvc, appointmentSvc, authSvc, authMiddleware, page.Config{
		Location:       loc,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Cookie:         cookie,
	})
	handlers := router.Handlers{
		Health:      health.NewHandler(backend, gatherer),
		Patient:     patient.NewHandler(patientSvc, loc, cfg.Server.MaxUploadBytes),
		Appointment: appointment.NewHandler(appointmentSvc, patientSvc),
		Admin:       adminHandler.NewHandler(authSvc, authMiddleware, cookie),
		Catalog:     catalog.NewHandler(),
		Forms:       forms.NewHandler(appointmentSvc, patientSvc),
		Pages:       pages,
	}

	routerConfig := router.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		HSTS:           cfg.Admin.CookieSecure,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		RequestTimeout: cfg.Server.RequestTimeout,
		ImagesDir:      cfg.Server.ImagesDir,
		Metrics:        m,
	}
	if cfg.Metrics.Enabled {
		routerConfig.MetricsPath = cfg.Metrics.Path
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = &middleware.RateLimiterConfig{
			Rate:      rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst:     cfg.RateLimit.Burst,
			ClientTTL: cfg.RateLimit.ClientTTL,
		}
	}

	// Setup router
	r := router.NewRouter(authMiddleware, handlers, routerConfig)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("backend", cfg.Backend.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func collections(cfg *config.Config) gateway.Collections {
	return gateway.Collections{
		DatabaseID:              cfg.Backend.DatabaseID,
		PatientCollectionID:     cfg.Backend.PatientCollectionID,
		AppointmentCollectionID: cfg.Backend.AppointmentCollectionID,
		BucketID:                cfg.Backend.BucketID,
	}
}

// newBackend builds the configured gateway driver. The returned close func is never nil.
func newBackend(ctx context.Context, cfg *config.Config) (gateway.Backend, func(), error) {
	noop := func() {}

	var files gateway.FileStorage
	if cfg.Files.Driver == "s3" {
		storage, err := s3.NewFromEnvironment(ctx, s3.Config{
			Bucket:        cfg.Files.S3Bucket,
			Region:        cfg.Files.S3Region,
			Prefix:        cfg.Files.S3Prefix,
			PublicBaseURL: cfg.Files.PublicBaseURL,
		})
		if err != nil {
			return gateway.Backend{}, noop, err
		}
		files = storage
	}

	switch cfg.Backend.Driver {
	case "appwrite":
		client := appwrite.NewClient(appwrite.Config{
			Endpoint:        cfg.Backend.Endpoint,
			ProjectID:       cfg.Backend.ProjectID,
			APIKey:          cfg.Backend.APIKey,
			Timeout:         cfg.Backend.Timeout,
			BreakerFailures: cfg.Backend.BreakerFailures,
			BreakerTimeout:  cfg.Backend.BreakerTimeout,
		})
		backend := client.Gateway(collections(cfg))
		if files != nil {
			backend.Files = files
		}
		return backend, noop, nil

	case "postgres":
		db, err := postgres.NewDB(cfg.Database.DSN())
		if err != nil {
			return gateway.Backend{}, noop, err
		}
		store := postgres.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return gateway.Backend{}, noop, err
		}
		return store.Gateway(files, collections(cfg)), func() { db.Close() }, nil

	default:
		log.Warn().Msg("using the in-memory backend, data is lost on restart")
		mem := memory.New(fmt.Sprintf("http://localhost:%d", cfg.Server.Port))
		c := collections(cfg)
		if c.DatabaseID == "" {
			c = gateway.Collections{
				DatabaseID:              "caretrack",
				PatientCollectionID:     "patients",
				AppointmentCollectionID: "appointments",
				BucketID:                "identification",
			}
		}
		backend := mem.Gateway(c)
		if files != nil {
			backend.Files = files
		}
		return backend, noop, nil
	}
}

// newSessionStore keeps sessions in Redis when configured so they survive restarts
// and are shared between replicas
func newSessionStore(ctx context.Context, cfg *config.Config) (authService.SessionStore, func(), error) {
	if cfg.Redis.URL == "" {
		return authService.NewCacheSessionStore(10 * time.Minute), func() {}, nil
	}
	client, err := authService.NewRedisClient(ctx, authService.RedisConfig{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
	})
	if err != nil {
		return nil, func() {}, err
	}
	return authService.NewRedisSessionStore(client), func() { client.Close() }, nil
}
