package system

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sosdesk/internal/api/respond"
)

// Check is a named dependency probe; Ping returning nil means healthy.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Handler struct {
	logger  *slog.Logger
	checks  []Check
	timeout time.Duration
}

func NewHandler(logger *slog.Logger, checks ...Check) *Handler {
	return &Handler{logger: logger, checks: checks, timeout: 2 * time.Second}
}

func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.Ping(ctx); err != nil {
			respond.Logger(h.logger, r).Warn("health check failed", slog.String("check", c.Name), slog.String("error", err.Error()))
			results[c.Name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[c.Name] = "ok"
	}

	body := map[string]any{"status": "ok", "checks": results}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	respond.JSON(w, status, body)
}
