package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anikasharma/recipe-share/backend/internal/auth"
)

// RequireAuth is middleware that validates the bearer token and injects the
// verified claims into the request context. Requests without a valid token
// are rejected here and never reach the downstream handler.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				msg := `{"error":"invalid token"}`
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = `{"error":"token expired"}`
				}
				http.Error(w, msg, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}
