package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency, e.g. a database ping.
type HealthCheck func(ctx context.Context) error

// HealthHandlers answers readiness/liveness probes.
type HealthHandlers struct {
	// Checks are run on every probe, keyed by dependency name. Empty means always healthy.
	Checks map[string]HealthCheck
	Logger *slog.Logger
}

// Health returns 200 {"status":"ok"} when every check passes and 503 otherwise.
// HEAD requests get the status code only.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	body := map[string]any{"status": "ok"}
	failed := map[string]string{}
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			failed[name] = "unavailable"
			if h.Logger != nil {
				h.Logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
			}
		}
	}
	if len(failed) > 0 {
		status = http.StatusServiceUnavailable
		body = map[string]any{"status": "degraded", "checks": failed}
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		return
	}
	WriteJSON(w, status, body)
}
