package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"bobadash/internal/submission"
	"bobadash/pkg/platform/httputil"
	"bobadash/pkg/requestcontext"
)

// Service defines the interface for submission listing operations.
type Service interface {
	List(ctx context.Context, req submission.ListRequest) (*submission.Listing, error)
	Export(ctx context.Context, req submission.ExportRequest) (content, filename string, err error)
}

// Handler wires submission endpoints to the submission service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a submission handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts submission endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/events/{code}/submissions", h.HandleList)
	r.Get("/events/{code}/submissions/export", h.HandleExport)
}

// HandleList handles GET /events/{code}/submissions.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	code, err := url.PathUnescape(chi.URLParam(r, "code"))
	if err != nil {
		code = chi.URLParam(r, "code")
	}

	status, serr := submission.ParseStatusFilter(r.URL.Query().Get("status"))
	if serr != nil {
		httputil.WriteError(w, serr)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if p, perr := strconv.Atoi(raw); perr == nil && p > 0 {
			page = p
		}
	}

	listing, err := h.service.List(ctx, submission.ListRequest{
		EventCode: code,
		Query:     r.URL.Query().Get("query"),
		Status:    status,
		Page:      page,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submission listing failed",
			"request_id", requestID,
			"event_code", code,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "submissions listed",
		"request_id", requestID,
		"event_code", code,
		"total", listing.Total,
		"page", listing.Page,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, listing)
}

// HandleExport handles GET /events/{code}/submissions/export.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	code, err := url.PathUnescape(chi.URLParam(r, "code"))
	if err != nil {
		code = chi.URLParam(r, "code")
	}

	status, serr := submission.ParseStatusFilter(r.URL.Query().Get("status"))
	if serr != nil {
		httputil.WriteError(w, serr)
		return
	}

	content, filename, err := h.service.Export(ctx, submission.ExportRequest{
		EventCode: code,
		Query:     r.URL.Query().Get("query"),
		Status:    status,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submission export failed",
			"request_id", requestID,
			"event_code", code,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}
