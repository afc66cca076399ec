// Package handler exposes the operator-gated session token mint. The
// dashboard has no login flow of its own; identities are resolved out of
// band and exchanged here for a session JWT.
package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "bobadash/pkg/domain-errors"
	"bobadash/pkg/platform/httputil"
	"bobadash/pkg/requestcontext"
)

// DefaultSessionTTL bounds a minted session.
const DefaultSessionTTL = 24 * time.Hour

// TokenMinter signs session tokens for resolved identities.
type TokenMinter interface {
	GenerateSessionToken(userID, name, email, slackID string, expiresIn time.Duration) (string, error)
}

type Handler struct {
	minter TokenMinter
	logger *slog.Logger
}

func New(minter TokenMinter, logger *slog.Logger) *Handler {
	return &Handler{minter: minter, logger: logger}
}

// Register mounts the mint endpoint. Callers must wrap the route group with
// the ops-token middleware; the handler itself does no operator check.
func (h *Handler) Register(r chi.Router) {
	r.Post("/session/token", h.HandleMint)
}

type mintRequest struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	SlackID string `json:"slackId"`
}

func (m *mintRequest) Validate() error {
	if strings.TrimSpace(m.UserID) == "" || strings.TrimSpace(m.SlackID) == "" {
		return dErrors.New(dErrors.CodeValidation, "userId and slackId are required")
	}
	return nil
}

type mintResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HandleMint handles POST /session/token.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[mintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	token, err := h.minter.GenerateSessionToken(req.UserID, req.Name, req.Email, req.SlackID, DefaultSessionTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "session token mint failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint session token"))
		return
	}

	h.logger.InfoContext(ctx, "session token minted",
		"request_id", requestID,
		"slack_id", req.SlackID,
	)

	httputil.WriteJSON(w, http.StatusOK, mintResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(DefaultSessionTTL),
	})
}
