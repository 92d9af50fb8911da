// Package middleware holds the authorization gate of the enrollment API
package middleware

import (
	"context"
	"net/http"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	authmiddleware "github.com/courseenroll/backend/libs/auth/middleware"
	"github.com/courseenroll/backend/libs/handlers"
	"go.uber.org/zap"
)

type contextKey string

const principalKey contextKey = "principal"

// TokenResolver is the interface that wraps the token verification method
type TokenResolver interface {
	// Method ResolveToken verifies a bearer token and returns its subject.
	//
	// "token" parameter is the raw token taken from the Authorization header.
	//
	// Any verification failure returns an error, reasons are not distinguished.
	ResolveToken(token string) (string, error)
}

// PrincipalResolver is the interface that wraps the identity lookup method
type PrincipalResolver interface {
	// Method ResolvePrincipal looks up the active user behind a token subject.
	//
	// "email" parameter is the token subject.
	//
	// An absent or inactive user returns an authentication error,
	// a store failure returns an infrastructure error.
	ResolvePrincipal(ctx context.Context, email string) (*models.Principal, error)
}

// AuthMiddleware authenticates the bearer token of each request and stores the principal in the context
func AuthMiddleware(tokens TokenResolver, resolver PrincipalResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	base := &handlers.BaseHandler{Logger: logger}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := authmiddleware.BearerToken(r)
			if token == "" {
				base.RespondAppError(w, apperrors.Unauthenticated(apperrors.MsgInvalidCredentials))
				return
			}

			subject, err := tokens.ResolveToken(token)
			if err != nil {
				base.RespondAppError(w, apperrors.Wrap(apperrors.KindAuthentication, apperrors.MsgInvalidCredentials, err))
				return
			}

			principal, err := resolver.ResolvePrincipal(r.Context(), subject)
			if err != nil {
				base.RespondAppError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RoleMiddleware rejects principals that do not hold the given role with 403
func RoleMiddleware(role models.Role, logger *zap.Logger) func(http.Handler) http.Handler {
	base := &handlers.BaseHandler{Logger: logger}
	message := apperrors.MsgStudentRequired
	if role == models.RoleAdmin {
		message = apperrors.MsgAdminRequired
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				base.RespondAppError(w, apperrors.Unauthenticated(apperrors.MsgInvalidCredentials))
				return
			}
			if principal.Role != role {
				base.RespondAppError(w, apperrors.Forbidden(message))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal returns a copy of ctx carrying the principal
func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// GetPrincipal retrieves the principal stored by AuthMiddleware
func GetPrincipal(ctx context.Context) (*models.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*models.Principal)
	return principal, ok && principal != nil
}
