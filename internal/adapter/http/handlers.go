package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const checkTimeout = 2 * time.Second

// HealthCheck probes one backing service (database, redis).
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

type Handler struct {
	checks []HealthCheck
}

func NewHandler(checks ...HealthCheck) *Handler { return &Handler{checks: checks} }

// Health answers 503 when any dependency probe fails.
func (h *Handler) Health(c echo.Context) error {
	status, code := "ok", http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), checkTimeout)
		err := chk.Probe(ctx)
		cancel()
		if err != nil {
			deps[chk.Name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[chk.Name] = "up"
	}

	body := map[string]any{
		"status":  status,
		"service": "creditbureau",
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(deps) > 0 {
		body["checks"] = deps
	}
	return c.JSON(code, body)
}
