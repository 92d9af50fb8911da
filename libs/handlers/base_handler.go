package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/courseenroll/backend/libs/apperrors"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondAppError maps a classified error to its status code and client message.
// Infrastructure and unclassified errors are logged with full detail, clients only see the generic message.
func (h *BaseHandler) RespondAppError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	status := StatusFor(kind)

	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", zap.String("kind", kind.String()), zap.Error(err))
	} else {
		h.Logger.Debug("request rejected", zap.String("kind", kind.String()), zap.Error(err))
	}

	if kind == apperrors.KindAuthentication {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	h.RespondError(w, status, apperrors.MessageOf(err))
}

// StatusFor returns the HTTP status code for an error kind
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindConflict:
		return http.StatusBadRequest
	case apperrors.KindAuthentication:
		return http.StatusUnauthorized
	case apperrors.KindAuthorization:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
