package middleware

import (
	"net/http"

	"cabin-booking/pkg/token"
	"cabin-booking/pkg/utils"

	"go.uber.org/zap"
)

// RequireToken verifies the signed link token passed as ?token= and stores
// the bound claims in the request context. Requests without a valid token
// are rejected; use OptionalToken for routes with a public fallback view.
func RequireToken(signer *token.Signer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.URL.Query().Get("token")
			if raw == "" {
				utils.ResponseUnauthorized(w, "Ungültiger Zugangslink.")
				return
			}

			claims, ok := signer.Verify(raw)
			if !ok {
				logger.Warn("Invalid link token", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Ungültiger Zugangslink.")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetClaimsContext(r.Context(), claims)))
		})
	}
}

// OptionalToken verifies ?token= when present. An absent token passes
// through (public view); a present but invalid token is still rejected so
// a broken link never silently degrades to the public view.
func OptionalToken(signer *token.Signer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.URL.Query().Get("token")
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := signer.Verify(raw)
			if !ok {
				logger.Warn("Invalid link token", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Ungültiger Zugangslink.")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetClaimsContext(r.Context(), claims)))
		})
	}
}
