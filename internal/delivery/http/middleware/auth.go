package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

type contextKey string

const claimsKey contextKey = "claims"

// SetClaims returns a context carrying the verified identity. Used by auth middleware.
func SetClaims(ctx context.Context, claims *domain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the authenticated identity from the context, if present.
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*domain.Claims)
	return c, ok && c != nil
}

// RequireAuth returns a wrapper that validates the Bearer token and stores the claims in the request context.
// A missing or malformed credential answers 401. A token that fails verification answers 403.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next(w, r.WithContext(SetClaims(r.Context(), claims)))
		}
	}
}

// RequireRole answers 403 unless the authenticated identity has role.
// It must run after RequireAuth.
func RequireRole(role string, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Role != role {
				logger.DebugContext(r.Context(), "role rejected", "path", r.URL.Path, "want", role)
				h.WriteJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next(w, r)
		}
	}
}
