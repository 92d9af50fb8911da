package handlers

import (
	"net/http"
	"strconv"

	"github.com/courseenroll/backend/internal/middleware"
	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"github.com/go-chi/chi/v5"
)

// Guards bundles the authorization middlewares that route groups are wrapped in.
// Admin and Student must be applied after Auth.
type Guards struct {
	Auth    func(http.Handler) http.Handler
	Admin   func(http.Handler) http.Handler
	Student func(http.Handler) http.Handler
}

// principalFrom returns the principal stored by the auth middleware
func principalFrom(r *http.Request) (*models.Principal, error) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		return nil, apperrors.Unauthenticated(apperrors.MsgInvalidCredentials)
	}
	return principal, nil
}

// pathID parses a positive integer URL parameter
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return id, nil
}
