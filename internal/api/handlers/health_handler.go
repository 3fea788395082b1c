package handlers

import (
	"context"
	"net/http"
	"time"

	"lecture-manager/internal/config"
	interfaces "lecture-manager/internal/interfaces/infrastructure"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	ping  func(ctx context.Context) error
	cache interfaces.StatsCache
}

// NewHealthHandler creates a new health handler. ping checks the store;
// cache may be nil when caching is disabled.
func NewHealthHandler(ping func(ctx context.Context) error, cache interfaces.StatsCache) *HealthHandler {
	return &HealthHandler{
		ping:  ping,
		cache: cache,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// HealthCheck handles GET /health. The cache is advisory, so a failing
// cache degrades the report but never the status code.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	cfg := config.Get()
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	services := make(map[string]string)
	status := "healthy"
	code := http.StatusOK

	if err := h.ping(ctx); err != nil {
		services["database"] = "unhealthy: " + err.Error()
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	} else {
		services["database"] = "healthy"
	}

	switch {
	case h.cache == nil:
		services["cache"] = "disabled"
	case h.cache.Health(ctx) != nil:
		services["cache"] = "unhealthy (" + h.cache.Backend() + ")"
	default:
		services["cache"] = "healthy (" + h.cache.Backend() + ")"
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Services:  services,
	})
}

// ReadinessCheck handles GET /ready
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := h.ping(ctx) == nil
	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, map[string]interface{}{
		"ready":     ready,
		"timestamp": time.Now(),
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now(),
	})
}
