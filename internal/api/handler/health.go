package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/imagegallery/gallery/internal/infrastructure/readiness"
)

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Hello handles GET /api/hello.
func (h *HealthHandler) Hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello world")
}

// DependencyCheck pings one backing service.
type DependencyCheck func(ctx context.Context) error

// ReadinessHandler handles GET /health/ready, the readiness probe.
// The store connector state comes first; registered dependency checks run
// only once the store is ready. Failure causes are logged, never returned.
type ReadinessHandler struct {
	tracker *readiness.Tracker
	log     zerolog.Logger

	mu     sync.RWMutex
	checks map[string]DependencyCheck
}

func NewReadinessHandler(tracker *readiness.Tracker, log zerolog.Logger) *ReadinessHandler {
	return &ReadinessHandler{tracker: tracker, log: log, checks: make(map[string]DependencyCheck)}
}

// AddCheck registers a named dependency check. Checks may be added after
// the server has started.
func (h *ReadinessHandler) AddCheck(name string, check DependencyCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

type dependencyStatus struct {
	Status string `json:"status"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	state := h.tracker.State()
	store := dependencyStatus{Status: state.String()}
	if state != readiness.Ready {
		healthy = false
		if err := h.tracker.Err(); err != nil {
			h.log.Warn().Err(err).Str("dependency", "store").Msg("readiness check failed")
		}
	}
	deps["store"] = store

	if healthy {
		h.mu.RLock()
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				h.log.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
				deps[name] = dependencyStatus{Status: "unhealthy"}
				healthy = false
			} else {
				deps[name] = dependencyStatus{Status: "ok"}
			}
		}
		h.mu.RUnlock()
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
