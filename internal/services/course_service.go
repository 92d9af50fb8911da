package services

import (
	"context"
	"strings"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// CourseRepository is the interface that wraps methods for Course table data access
type CourseRepository interface {
	// Method Create inserts a new active course.
	//
	// "course" parameter is used to create a new course, its ID is set on success.
	//
	// A taken code returns apperrors.ErrCourseCodeTaken.
	Create(ctx context.Context, course *models.Course) error
	// Method GetByID retrieves a course by ID regardless of its active flag.
	//
	// "courseID" parameter is used to retrieve a course by ID.
	//
	// If course with such ID does not exist, apperrors.ErrCourseNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, courseID int) (*models.Course, error)
	// Method ListActive retrieves all active courses ordered by ID.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	ListActive(ctx context.Context) ([]models.Course, error)
	// Method Update applies the non-nil fields of a partial update.
	//
	// "courseID" parameter is used to identify the course to update.
	// "update" parameter contains the fields to update.
	//
	// If course with such ID does not exist, apperrors.ErrCourseNotFound will be returned together with "nil" value.
	Update(ctx context.Context, courseID int, update *models.UpdateCourseRequest) (*models.Course, error)
	// Method Delete deletes a course without enrollments.
	//
	// "courseID" parameter is used to identify the course to delete.
	//
	// Returns apperrors.ErrCourseNotFound for a missing course and apperrors.ErrCourseHasEnrollments
	// when any enrollment references it.
	Delete(ctx context.Context, courseID int) error
	// Method ListStudents retrieves the users enrolled in a course.
	//
	// "courseID" parameter is used to identify the course.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	ListStudents(ctx context.Context, courseID int) ([]models.User, error)
}

// courseService implements CourseService
type courseService struct {
	courseRepo CourseRepository
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewCourseService creates a new course service
func NewCourseService(courseRepo CourseRepository, logger *zap.Logger) *courseService {
	return &courseService{
		courseRepo: courseRepo,
		validate:   newValidator(),
		logger:     logger,
	}
}

// CreateCourse creates an active course with a unique code
func (s *courseService) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Code = strings.TrimSpace(req.Code)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:    req.Title,
		Code:     req.Code,
		Capacity: req.Capacity,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created", zap.Int("courseID", course.ID), zap.String("code", course.Code))
	return course, nil
}

// ListCourses returns the active courses
func (s *courseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.courseRepo.ListActive(ctx)
}

// GetCourse returns an active course. Inactive courses are reported as not found.
func (s *courseService) GetCourse(ctx context.Context, courseID int) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

// UpdateCourse applies a partial update. The code cannot be changed.
func (s *courseService) UpdateCourse(ctx context.Context, courseID int, req *models.UpdateCourseRequest) (*models.Course, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		return s.courseRepo.GetByID(ctx, courseID)
	}

	course, err := s.courseRepo.Update(ctx, courseID, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("course updated", zap.Int("courseID", courseID))
	return course, nil
}

// DeleteCourse deletes a course that has no enrollments
func (s *courseService) DeleteCourse(ctx context.Context, courseID int) error {
	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		return err
	}

	s.logger.Info("course deleted", zap.Int("courseID", courseID))
	return nil
}

// GetCourseWithStudents returns a course, active or not, with its enrolled users
func (s *courseService) GetCourseWithStudents(ctx context.Context, courseID int) (*models.CourseWithStudentsResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	users, err := s.courseRepo.ListStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}

	students := make([]models.UserResponse, len(users))
	for i := range users {
		students[i] = users[i].ToResponse()
	}

	return &models.CourseWithStudentsResponse{
		Course:   *course,
		Students: students,
	}, nil
}
