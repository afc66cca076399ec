package admin

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	request "bobadash/pkg/platform/middleware/request"
)

// RequireOpsToken gates an endpoint behind an operator token, compared
// against a bcrypt hash so the plaintext never lives in config. An empty
// hash disables the endpoint entirely.
func RequireOpsToken(expectedHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expectedHash == "" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"not_found"}`))
				return
			}

			token := r.Header.Get("X-Ops-Token")
			if err := bcrypt.CompareHashAndPassword([]byte(expectedHash), []byte(token)); err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "ops token mismatch",
					"request_id", request.GetRequestID(ctx),
				)
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"ops token required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
