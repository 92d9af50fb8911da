package middleware

import (
	"crypto/subtle"
	"net/http"
)

// MigrateTokenHeader carries the shared secret for schema maintenance endpoints
const MigrateTokenHeader = "X-Migrate-Token"

// APIKeyMiddleware validates a shared secret from the given header.
// It compares the header value with the configured key; an unconfigured key disables the routes with 503.
func APIKeyMiddleware(header, apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error":"maintenance secret not configured on server"}`))
				return
			}

			// Extract key from header
			providedKey := r.Header.Get(header)

			// If no key provided or it doesn't match, return 401
			if providedKey == "" || subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}

			// Key is valid, proceed to next handler
			next.ServeHTTP(w, r)
		})
	}
}
