package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bizpos-backend/internal/ports"
	"github.com/go-chi/chi/v5"
)

const defaultHealthTimeout = 3 * time.Second

// HealthHandler exposes a readiness probe.
type HealthHandler struct {
	DB      ports.HealthChecker
	Timeout time.Duration
}

func (h HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

func (h HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := probe(ctx, h.DB); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// probe gives up when ctx expires even if the checker ignores ctx.
func probe(ctx context.Context, hc ports.HealthChecker) error {
	done := make(chan error, 1)
	go func() { done <- hc.Health(ctx) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
