package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bobadash/internal/grant"
	"bobadash/pkg/platform/httputil"
	"bobadash/pkg/requestcontext"
)

// Service defines the interface for the grant request pipeline.
type Service interface {
	Submit(ctx context.Context, submitted grant.Submitted) (grant.Result, error)
}

// Handler wires the grant request endpoint to the grant service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the grant endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/grant-requests", h.HandleSubmit)
}

// HandleSubmit handles POST /grant-requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	submitted, ok := httputil.DecodeAndPrepare[grant.Submitted](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Submit(ctx, *submitted)
	if err != nil {
		h.logger.WarnContext(ctx, "grant request failed",
			"request_id", requestID,
			"event_code", submitted.EventCode,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "grant request accepted",
		"request_id", requestID,
		"event_code", submitted.EventCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, result)
}
