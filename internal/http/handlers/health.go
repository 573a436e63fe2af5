package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	logger   *slog.Logger
	checkers map[string]HealthChecker
}

func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:   logger,
		checkers: make(map[string]HealthChecker),
	}
}

// AddChecker registers a named dependency to include in health reports
func (h *HealthHandler) AddChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// HandleHealth handles GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	deps := make(map[string]string, len(h.checkers))
	for name, checker := range h.checkers {
		if err := checker.HealthCheck(ctx); err != nil {
			h.logger.Warn("Dependency health check failed", "dependency", name, "error", err)
			deps[name] = "unhealthy"
			status = "degraded"
			continue
		}
		deps[name] = "healthy"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       status,
		"timestamp":    time.Now().Format(time.RFC3339),
		"dependencies": deps,
	})
}
