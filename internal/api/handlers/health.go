// Package handlers implements HTTP handlers for the fiscus-ingest API.
package handlers

import (
	"context"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	checks map[string]Pinger
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithReadinessCheck adds a named dependency to the readiness probe.
func WithReadinessCheck(name string, p Pinger) HealthOption {
	return func(h *HealthHandler) {
		h.checks[name] = p
	}
}

// NewHealthHandler creates a HealthHandler whose readiness depends on db
// and any extra checks.
func NewHealthHandler(db Pinger, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{checks: map[string]Pinger{"database": db}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Description Returns 200 if the process is running.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if every dependency answers, 503 otherwise.
//
// @Summary Readiness check
// @Description Returns 200 if the database and configured dependencies are reachable, 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} ReadinessResponse
// @Failure 503 {object} ReadinessResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx := c.Request().Context()

	var failed []string
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		slices.Sort(failed)
		return c.JSON(
			http.StatusServiceUnavailable,
			ReadinessResponse{Status: "unavailable", Failed: failed},
		)
	}
	return c.JSON(http.StatusOK, ReadinessResponse{Status: "ready"})
}
