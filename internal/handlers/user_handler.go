package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"github.com/courseenroll/backend/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserService is the interface that wraps methods for account management business logic.
type UserService interface {
	// Method GetProfile returns the profile of a user.
	//
	// "userID" parameter identifies the user.
	GetProfile(ctx context.Context, userID int) (*models.UserResponse, error)
	// Method ListStudents returns all student profiles.
	ListStudents(ctx context.Context) ([]models.UserResponse, error)
	// Method SetActive activates or deactivates a user.
	//
	// "userID" parameter identifies the user, "active" is the new flag value.
	SetActive(ctx context.Context, userID int, active bool) (*models.UserResponse, error)
	// Method DeleteStudent deletes a student together with the student's enrollments.
	//
	// "userID" parameter identifies the user, which must have the student role.
	DeleteStudent(ctx context.Context, userID int) error
}

// UserHandler handles user account HTTP requests
type UserHandler struct {
	handlers.BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		userService: userService,
	}
}

// RegisterRoutes registers all authenticated user routes
func (h *UserHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/users", func(r chi.Router) {
		r.Use(guards.Auth)
		r.Get("/me", h.GetMe)

		r.Group(func(r chi.Router) {
			r.Use(guards.Admin)
			r.Get("/admin-test", h.AdminCheck)
			r.Get("/students", h.ListStudents)
			r.Delete("/{id}", h.DeleteStudent)
			r.Patch("/{id}/active", h.SetActive)
		})
	})
}

// GetMe handles GET /users/me
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} map[string]string "Could not validate credentials"
// @Router /users/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFrom(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), principal.UserID)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// AdminCheck handles GET /users/admin-test
// @Summary Check admin access
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string "Admin privileges required"
// @Router /users/admin-test [get]
func (h *UserHandler) AdminCheck(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFrom(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "you are an admin",
		"email":   principal.Email,
	})
}

// ListStudents handles GET /users/students
// @Summary List students
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserResponse
// @Failure 403 {object} map[string]string "Admin privileges required"
// @Router /users/students [get]
func (h *UserHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.userService.ListStudents(r.Context())
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, students)
}

// DeleteStudent handles DELETE /users/{id}
// @Summary Delete a student
// @Description Delete a student account and all of its enrollments
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Can only delete student accounts"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if err := h.userService.DeleteStudent(r.Context(), userID); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "student deleted successfully"})
}

// SetActive handles PATCH /users/{id}/active
// @Summary Activate or deactivate a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.SetActiveRequest true "New active flag"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/active [patch]
func (h *UserHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	var req models.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IsActive == nil {
		h.RespondAppError(w, apperrors.Validation("is_active is required"))
		return
	}

	profile, err := h.userService.SetActive(r.Context(), userID, *req.IsActive)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}
