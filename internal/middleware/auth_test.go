package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// mockTokenResolver is a mock implementation of TokenResolver
type mockTokenResolver struct {
	subject string
	err     error
}

func (m *mockTokenResolver) ResolveToken(token string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.subject, nil
}

// mockPrincipalResolver is a mock implementation of PrincipalResolver
type mockPrincipalResolver struct {
	principal *models.Principal
	err       error
	calledFor string
}

func (m *mockPrincipalResolver) ResolvePrincipal(ctx context.Context, email string) (*models.Principal, error) {
	m.calledFor = email
	if m.err != nil {
		return nil, m.err
	}
	return m.principal, nil
}

func TestAuthMiddleware(t *testing.T) {
	student := &models.Principal{UserID: 7, Email: "ann@example.com", Role: models.RoleStudent}

	tests := []struct {
		name           string
		authHeader     string
		tokens         *mockTokenResolver
		resolver       *mockPrincipalResolver
		expectedStatus int
		expectedBody   string
		expectNext     bool
	}{
		{
			name:           "success",
			authHeader:     "Bearer good-token",
			tokens:         &mockTokenResolver{subject: "ann@example.com"},
			resolver:       &mockPrincipalResolver{principal: student},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "lowercase scheme",
			authHeader:     "bearer good-token",
			tokens:         &mockTokenResolver{subject: "ann@example.com"},
			resolver:       &mockPrincipalResolver{principal: student},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "missing header",
			tokens:         &mockTokenResolver{subject: "ann@example.com"},
			resolver:       &mockPrincipalResolver{principal: student},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"could not validate credentials"}`,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer forged",
			tokens:         &mockTokenResolver{err: errors.New("invalid credentials")},
			resolver:       &mockPrincipalResolver{principal: student},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"could not validate credentials"}`,
		},
		{
			name:           "inactive or missing user",
			authHeader:     "Bearer good-token",
			tokens:         &mockTokenResolver{subject: "ann@example.com"},
			resolver:       &mockPrincipalResolver{err: apperrors.Unauthenticated(apperrors.MsgInvalidCredentials)},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"could not validate credentials"}`,
		},
		{
			name:           "store unavailable",
			authHeader:     "Bearer good-token",
			tokens:         &mockTokenResolver{subject: "ann@example.com"},
			resolver:       &mockPrincipalResolver{err: apperrors.Infrastructure(errors.New("Error 1146: Table 'users' doesn't exist"))},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"database error, ensure migrations have been applied"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *models.Principal
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				got, _ = GetPrincipal(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			AuthMiddleware(tt.tokens, tt.resolver, zap.NewNop())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
			if tt.expectNext {
				assert.Equal(t, student, got)
				assert.Equal(t, "ann@example.com", tt.resolver.calledFor)
			} else {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		role           models.Role
		principal      *models.Principal
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "admin allowed",
			role:           models.RoleAdmin,
			principal:      &models.Principal{UserID: 1, Role: models.RoleAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "student on admin route",
			role:           models.RoleAdmin,
			principal:      &models.Principal{UserID: 2, Role: models.RoleStudent},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"error":"admin privileges required"}`,
		},
		{
			name:           "admin on student route",
			role:           models.RoleStudent,
			principal:      &models.Principal{UserID: 1, Role: models.RoleAdmin},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"error":"student privileges required"}`,
		},
		{
			name:           "no principal",
			role:           models.RoleStudent,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"could not validate credentials"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), tt.principal))
			}
			w := httptest.NewRecorder()

			RoleMiddleware(tt.role, zap.NewNop())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
