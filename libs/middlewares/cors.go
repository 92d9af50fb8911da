package middlewares

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders  = "Content-Type, Authorization, " + RequestIDHeader + ", X-Migrate-Token"
	corsExposeHeaders = RequestIDHeader
	corsMaxAge        = "3600"
)

// corsPolicy is the origin allow-list of CORSMiddleware, keyed by lower-cased origin
type corsPolicy struct {
	allowAll bool
	origins  map[string]struct{}
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	policy := corsPolicy{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			policy.allowAll = true
			continue
		}
		policy.origins[strings.ToLower(origin)] = struct{}{}
	}
	return policy
}

// allowOrigin returns the Access-Control-Allow-Origin value for a request origin, "" when it is not allowed.
// Tokens travel in the Authorization header, so "*" is echoed as is and credentials are never enabled.
func (p corsPolicy) allowOrigin(origin string) string {
	if origin == "" {
		return ""
	}
	if p.allowAll {
		return "*"
	}
	if _, ok := p.origins[strings.ToLower(origin)]; ok {
		return origin
	}
	return ""
}

// CORSMiddleware tags responses for allowed origins and answers every OPTIONS request with 204
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := w.Header()
			if allowed := policy.allowOrigin(r.Header.Get("Origin")); allowed != "" {
				header.Set("Access-Control-Allow-Origin", allowed)
				header.Set("Access-Control-Expose-Headers", corsExposeHeaders)
				if allowed != "*" {
					header.Add("Vary", "Origin")
				}
			}
			header.Set("Access-Control-Allow-Methods", corsAllowMethods)
			header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			header.Set("Access-Control-Max-Age", corsMaxAge)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
