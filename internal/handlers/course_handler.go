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

// CourseService is the interface that wraps methods for catalog business logic.
type CourseService interface {
	// Method CreateCourse validates the request and creates an active course.
	//
	// A taken code returns a conflict error.
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	// Method ListCourses returns the active courses.
	ListCourses(ctx context.Context) ([]models.Course, error)
	// Method GetCourse returns an active course, inactive and missing courses are not found.
	GetCourse(ctx context.Context, courseID int) (*models.Course, error)
	// Method UpdateCourse applies the supplied fields of a partial update.
	UpdateCourse(ctx context.Context, courseID int, req *models.UpdateCourseRequest) (*models.Course, error)
	// Method DeleteCourse deletes a course without enrollments.
	DeleteCourse(ctx context.Context, courseID int) error
	// Method GetCourseWithStudents returns a course with its enrolled users.
	GetCourseWithStudents(ctx context.Context, courseID int) (*models.CourseWithStudentsResponse, error)
}

// CourseHandler handles course catalog HTTP requests
type CourseHandler struct {
	handlers.BaseHandler
	courseService CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   handlers.BaseHandler{Logger: logger},
		courseService: courseService,
	}
}

// RegisterRoutes registers all course routes
func (h *CourseHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/courses", func(r chi.Router) {
		r.Use(guards.Auth)
		r.Get("/", h.ListCourses)
		r.Get("/{id}", h.GetCourse)

		r.Group(func(r chi.Router) {
			r.Use(guards.Admin)
			r.Post("/", h.CreateCourse)
			r.Put("/{id}", h.UpdateCourse)
			r.Delete("/{id}", h.DeleteCourse)
			r.Get("/{id}/students", h.GetCourseWithStudents)
		})
	})
}

// CreateCourse handles POST /courses/
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCourseRequest true "Course data"
// @Success 200 {object} models.Course
// @Failure 400 {object} map[string]string "Invalid field or course code already exists"
// @Failure 403 {object} map[string]string "Admin privileges required"
// @Router /courses/ [post]
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), &req)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// ListCourses handles GET /courses/
// @Summary List active courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Course
// @Router /courses/ [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /courses/{id}
// @Summary Get an active course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} map[string]string "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), courseID)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// UpdateCourse handles PUT /courses/{id}
// @Summary Update a course
// @Description Partial update, omitted fields are left unchanged. The code cannot be changed.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body models.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} models.Course
// @Failure 400 {object} map[string]string "Invalid field"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	var req models.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), courseID, &req)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// DeleteCourse handles DELETE /courses/{id}
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Cannot delete course with active enrollments"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), courseID); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "course deleted successfully"})
}

// GetCourseWithStudents handles GET /courses/{id}/students
// @Summary Get a course with its students
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} models.CourseWithStudentsResponse
// @Failure 404 {object} map[string]string "Course not found"
// @Router /courses/{id}/students [get]
func (h *CourseHandler) GetCourseWithStudents(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	course, err := h.courseService.GetCourseWithStudents(r.Context(), courseID)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}
