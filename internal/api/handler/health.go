package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mobi/cms-console/internal/core/ports"
)

// HealthHandler handles GET /health: liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// BreakerState reports the backend circuit breaker state ("closed", "half-open", "open").
type BreakerState interface {
	State() string
}

// HealthDependenciesHandler handles GET /health/ready: readiness probe.
// The console is ready when session storage answers and the backend breaker
// is not open.
type HealthDependenciesHandler struct {
	storage ports.Pinger
	backend BreakerState
}

func NewHealthDependenciesHandler(storage ports.Pinger, backend BreakerState) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{storage: storage, backend: backend}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.storage.Ping(ctx); err != nil {
		deps["session_storage"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["session_storage"] = dependencyStatus{Status: "ok"}
	}

	if state := h.backend.State(); state == "open" {
		deps["backend"] = dependencyStatus{Status: "unhealthy", Error: "circuit " + state}
		healthy = false
	} else {
		deps["backend"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
