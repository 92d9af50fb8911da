package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "standard", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", expected: "abc"},
		{name: "extra spaces", header: "  Bearer   abc  ", expected: "abc"},
		{name: "missing header", header: "", expected: ""},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", expected: ""},
		{name: "scheme only", header: "Bearer", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.expected, BearerToken(req))
		})
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		configuredKey  string
		providedKey    string
		expectedStatus int
	}{
		{name: "valid key", configuredKey: "secret", providedKey: "secret", expectedStatus: http.StatusOK},
		{name: "wrong key", configuredKey: "secret", providedKey: "guess", expectedStatus: http.StatusUnauthorized},
		{name: "missing key", configuredKey: "secret", providedKey: "", expectedStatus: http.StatusUnauthorized},
		{name: "not configured", configuredKey: "", providedKey: "anything", expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := APIKeyMiddleware(MigrateTokenHeader, tt.configuredKey)(okHandler)
			req := httptest.NewRequest(http.MethodPost, "/admin/migrate", nil)
			if tt.providedKey != "" {
				req.Header.Set(MigrateTokenHeader, tt.providedKey)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
