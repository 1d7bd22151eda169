package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

type Handler struct {
	backend  gateway.Pinger
	gatherer prometheus.Gatherer
}

// NewHandler reports readiness through the backend. A nil gatherer disables /metrics.
func NewHandler(backend gateway.Pinger, gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		backend:  backend,
		gatherer: gatherer,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.LivenessCheck)
		health.GET("/ready", h.ReadinessCheck)
	}
}

// RegisterMetrics exposes the registry at path
func (h *Handler) RegisterMetrics(r gin.IRoutes, path string) {
	if h.gatherer == nil {
		return
	}
	r.GET(path, gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.backend.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "DOWN",
			"reason": "Backend connection failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
