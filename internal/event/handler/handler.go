package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bobadash/internal/domain"
	dErrors "bobadash/pkg/domain-errors"
	"bobadash/pkg/platform/httputil"
	"bobadash/pkg/requestcontext"
)

// Service lists events under the caller's scope.
type Service interface {
	ListAll(ctx context.Context) ([]domain.EventRecord, error)
	ListByOwner(ctx context.Context, ownerSlackID string) ([]domain.EventRecord, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/events", h.List)
}

type listResponse struct {
	Events []domain.EventRecord `json:"events"`
	Total  int                  `json:"total"`
}

// List handles GET /events?scope=all or GET /events?owner=<slackID>.
// Exactly one of the two selectors must be present.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	scope := r.URL.Query().Get("scope")
	owner := r.URL.Query().Get("owner")

	var (
		events []domain.EventRecord
		err    error
	)
	switch {
	case scope == "all" && owner == "":
		events, err = h.service.ListAll(ctx)
	case scope == "" && owner != "":
		events, err = h.service.ListByOwner(ctx, owner)
	default:
		err = dErrors.New(dErrors.CodeBadRequest, "specify scope=all or owner=<slack id>")
	}
	if err != nil {
		h.logger.WarnContext(ctx, "event listing rejected",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "events listed",
		slog.String("request_id", requestID),
		slog.Int("total", len(events)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	httputil.WriteJSON(w, http.StatusOK, listResponse{Events: events, Total: len(events)})
}
