package middlewares

import (
	"net/http"
)

// DefaultMaxRequestSize bounds JSON and form bodies; no endpoint accepts uploads
const DefaultMaxRequestSize int64 = 1 << 20 // 1MB

// RequestSizeLimitMiddleware caps request bodies at maxRequestSize bytes.
// A declared Content-Length over the cap is answered with 413 before the handler runs.
// Bodies without a declared length are cut off by http.MaxBytesReader, which handlers see as a decode error.
func RequestSizeLimitMiddleware(maxRequestSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxRequestSize {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
			next.ServeHTTP(w, r)
		})
	}
}
