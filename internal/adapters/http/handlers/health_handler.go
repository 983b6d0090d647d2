package handlers

import (
	"context"
	"time"

	"iledu-loan/internal/config"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cfg      *config.Config
	database Pinger
	cache    Pinger
}

// NewHealthHandler creates a new health handler. cache may be nil when no
// Redis is configured.
func NewHealthHandler(cfg *config.Config, database, cache Pinger) *HealthHandler {
	return &HealthHandler{cfg: cfg, database: database, cache: cache}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "iLEdu loan API is running",
		"mode":    h.cfg.AppMode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API, database and cache health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"api": "healthy"}
	healthy := true

	checks["database"] = probe(ctx, h.database, &healthy)
	if h.cache != nil {
		checks["cache"] = probe(ctx, h.cache, &healthy)
	}

	status, code := "ok", fiber.StatusOK
	if !healthy {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}

func probe(ctx context.Context, p Pinger, healthy *bool) string {
	if p == nil {
		return "unknown"
	}
	if err := p.Ping(ctx); err != nil {
		*healthy = false
		return "unhealthy"
	}
	return "healthy"
}
