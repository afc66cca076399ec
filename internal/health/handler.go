// Package health exposes liveness reporting for the dashboard process.
package health

import (
	"context"
	"net/http"
	"time"

	"bobadash/pkg/platform/httputil"
)

// Checker reports the health of one dependency.
type Checker interface {
	Health(ctx context.Context) error
}

// Handler serves the liveness endpoint. Dependency checks are optional;
// a nil checker is reported as "disabled".
type Handler struct {
	redis Checker
}

func New(redis Checker) *Handler {
	return &Handler{redis: redis}
}

type status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ServeHTTP handles GET /healthz. Degraded dependencies flip the status but
// the endpoint still answers 200; the process itself is alive.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	out := status{Status: "ok", Checks: map[string]string{}}

	switch {
	case h.redis == nil:
		out.Checks["redis"] = "disabled"
	default:
		if err := h.redis.Health(ctx); err != nil {
			out.Status = "degraded"
			out.Checks["redis"] = "unreachable"
		} else {
			out.Checks["redis"] = "ok"
		}
	}

	httputil.WriteJSON(w, http.StatusOK, out)
}
