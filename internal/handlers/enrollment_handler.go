package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EnrollmentService is the interface that wraps methods for enrollment business logic.
type EnrollmentService interface {
	// Method Enroll enrolls the calling student in a course.
	//
	// "principal" parameter is the caller, "req" names the course and optionally the caller's own id.
	Enroll(ctx context.Context, principal *models.Principal, req *models.EnrollRequest) (*models.Enrollment, error)
	// Method Deregister removes the calling student's enrollment in a course.
	Deregister(ctx context.Context, principal *models.Principal, courseID int) error
	// Method RemoveStudent removes one user's enrollment from a course.
	RemoveStudent(ctx context.Context, courseID, userID int) error
	// Method RemoveStudents removes the enrollments of several users from a course.
	RemoveStudents(ctx context.Context, courseID int, req *models.BulkRemoveRequest) (*models.BulkRemoveResponse, error)
	// Method ListEnrollments returns all enrollments to admins and own enrollments to students.
	ListEnrollments(ctx context.Context, principal *models.Principal) ([]models.Enrollment, error)
	// Method ListOwnEnrollments returns the caller's enrollments.
	ListOwnEnrollments(ctx context.Context, principal *models.Principal) ([]models.Enrollment, error)
	// Method ListCourseEnrollments returns the enrollments of a course.
	ListCourseEnrollments(ctx context.Context, courseID int) ([]models.Enrollment, error)
}

// EnrollmentHandler handles enrollment HTTP requests
type EnrollmentHandler struct {
	handlers.BaseHandler
	enrollmentService EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService EnrollmentService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       handlers.BaseHandler{Logger: logger},
		enrollmentService: enrollmentService,
	}
}

// RegisterRoutes registers all enrollment routes
func (h *EnrollmentHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/enrollments", func(r chi.Router) {
		r.Use(guards.Auth)
		r.Get("/all", h.ListEnrollments)
		r.Get("/me", h.ListOwnEnrollments)

		r.Group(func(r chi.Router) {
			r.Use(guards.Student)
			r.Post("/", h.Enroll)
			r.Delete("/{course_id}", h.Deregister)
		})

		r.Group(func(r chi.Router) {
			r.Use(guards.Admin)
			r.Get("/course/{course_id}", h.ListCourseEnrollments)
			r.Delete("/admin/{course_id}/user/{user_id}", h.RemoveStudent)
			r.Delete("/admin/{course_id}", h.RemoveStudents)
		})
	})
}

// Enroll handles POST /enrollments/
// @Summary Enroll in a course
// @Description Students enroll themselves only. user_id may be omitted or must equal the caller.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.EnrollRequest true "Course to enroll in"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} map[string]string "Already enrolled, course unavailable or course full"
// @Failure 403 {object} map[string]string "Student privileges required or cannot enroll another user"
// @Router /enrollments/ [post]
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFrom(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	var req models.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enrollment, err := h.enrollmentService.Enroll(r.Context(), principal, &req)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, enrollment)
}

// Deregister handles DELETE /enrollments/{course_id}
// @Summary Deregister from a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Enrollment not found"
// @Router /enrollments/{course_id} [delete]
func (h *EnrollmentHandler) Deregister(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFrom(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	courseID, err := pathID(r, "course_id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if err := h.enrollmentService.Deregister(r.Context(), principal, courseID); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "successfully deregistered from course"})
}

// ListEnrollments handles GET /enrollments/all
// @Summary List enrollments
// @Description Admins get every enrollment, students get their own
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Enrollment
// @Router /enrollments/all [get]
func (h *EnrollmentHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFrom(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	enrollments, err := h.enrollmentService.ListEnrollments(r.Context(), principal)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, enrollments)
}

// ListOwnEnrollments handles GET /enrollments/me
// @Summary List the caller's enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Enrollment
// @Router /enrollments/me [get]
func (h *EnrollmentHandler) ListOwnEnrollments(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFrom(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	enrollments, err := h.enrollmentService.ListOwnEnrollments(r.Context(), principal)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, enrollments)
}

// ListCourseEnrollments handles GET /enrollments/course/{course_id}
// @Summary List the enrollments of a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Success 200 {array} models.Enrollment
// @Failure 403 {object} map[string]string "Admin privileges required"
// @Router /enrollments/course/{course_id} [get]
func (h *EnrollmentHandler) ListCourseEnrollments(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "course_id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	enrollments, err := h.enrollmentService.ListCourseEnrollments(r.Context(), courseID)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, enrollments)
}

// RemoveStudent handles DELETE /enrollments/admin/{course_id}/user/{user_id}
// @Summary Remove a student from a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Param user_id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Enrollment not found"
// @Router /enrollments/admin/{course_id}/user/{user_id} [delete]
func (h *EnrollmentHandler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "course_id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}
	userID, err := pathID(r, "user_id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if err := h.enrollmentService.RemoveStudent(r.Context(), courseID, userID); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "student removed from course successfully"})
}

// RemoveStudents handles DELETE /enrollments/admin/{course_id}
// @Summary Remove several students from a course
// @Description Users without an enrollment are skipped. Fails with 404 when nothing was removed.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Param request body models.BulkRemoveRequest true "Users to remove"
// @Success 200 {object} models.BulkRemoveResponse
// @Failure 400 {object} map[string]string "Empty user list"
// @Failure 404 {object} map[string]string "No enrollments found for the specified users"
// @Router /enrollments/admin/{course_id} [delete]
func (h *EnrollmentHandler) RemoveStudents(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "course_id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	var req models.BulkRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.enrollmentService.RemoveStudents(r.Context(), courseID, &req)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}
