package services

import (
	"context"
	"fmt"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// EnrollmentRepository is the interface that wraps methods for Enrollment table data access
type EnrollmentRepository interface {
	// Method Enroll creates an enrollment inside one transaction that locks the course row.
	//
	// "userID" and "courseID" parameters identify the pair to enroll.
	//
	// Checks run in order and stop at the first failure: apperrors.ErrAlreadyEnrolled,
	// apperrors.ErrCourseUnavailable, apperrors.ErrCourseFull.
	Enroll(ctx context.Context, userID, courseID int) (*models.Enrollment, error)
	// Method Delete removes the enrollment of a user in a course.
	//
	// "userID" and "courseID" parameters identify the enrollment.
	//
	// If there is no such enrollment, apperrors.ErrEnrollmentNotFound will be returned.
	Delete(ctx context.Context, userID, courseID int) error
	// Method DeleteMany removes the enrollments of several users in a course inside one transaction.
	//
	// "courseID" parameter identifies the course.
	// "userIDs" parameter lists the users, users without an enrollment are skipped.
	//
	// Returns the number of removed enrollments, or apperrors.ErrNoEnrollmentsForUsers when it is zero.
	DeleteMany(ctx context.Context, courseID int, userIDs []int) (int, error)
	// Method ListAll retrieves every enrollment.
	ListAll(ctx context.Context) ([]models.Enrollment, error)
	// Method ListByCourse retrieves the enrollments of a course.
	ListByCourse(ctx context.Context, courseID int) ([]models.Enrollment, error)
	// Method ListByUser retrieves the enrollments of a user.
	ListByUser(ctx context.Context, userID int) ([]models.Enrollment, error)
}

// enrollmentService implements EnrollmentService
type enrollmentService struct {
	enrollmentRepo EnrollmentRepository
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollmentRepo EnrollmentRepository, logger *zap.Logger) *enrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		validate:       newValidator(),
		logger:         logger,
	}
}

// Enroll enrolls the calling student in a course.
// Only students may enroll and only themselves; a user_id naming someone else is forbidden.
func (s *enrollmentService) Enroll(ctx context.Context, principal *models.Principal, req *models.EnrollRequest) (*models.Enrollment, error) {
	if principal.Role != models.RoleStudent {
		return nil, apperrors.Forbidden(apperrors.MsgStudentRequired)
	}
	if req.UserID != 0 && req.UserID != principal.UserID {
		return nil, apperrors.Forbidden(apperrors.MsgEnrollAnotherUser)
	}
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.Enroll(ctx, principal.UserID, req.CourseID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("student enrolled", zap.Int("userID", principal.UserID), zap.Int("courseID", req.CourseID))
	return enrollment, nil
}

// Deregister removes the calling student's enrollment in a course
func (s *enrollmentService) Deregister(ctx context.Context, principal *models.Principal, courseID int) error {
	if principal.Role != models.RoleStudent {
		return apperrors.Forbidden(apperrors.MsgStudentRequired)
	}

	if err := s.enrollmentRepo.Delete(ctx, principal.UserID, courseID); err != nil {
		return err
	}

	s.logger.Info("student deregistered", zap.Int("userID", principal.UserID), zap.Int("courseID", courseID))
	return nil
}

// RemoveStudent removes one user's enrollment from a course
func (s *enrollmentService) RemoveStudent(ctx context.Context, courseID, userID int) error {
	if err := s.enrollmentRepo.Delete(ctx, userID, courseID); err != nil {
		return err
	}

	s.logger.Info("enrollment removed", zap.Int("userID", userID), zap.Int("courseID", courseID))
	return nil
}

// RemoveStudents removes the enrollments of several users from a course.
// Repeated ids count once and users that are not enrolled are skipped.
func (s *enrollmentService) RemoveStudents(ctx context.Context, courseID int, req *models.BulkRemoveRequest) (*models.BulkRemoveResponse, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(req.UserIDs))
	userIDs := make([]int, 0, len(req.UserIDs))
	for _, id := range req.UserIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		userIDs = append(userIDs, id)
	}

	removed, err := s.enrollmentRepo.DeleteMany(ctx, courseID, userIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("enrollments removed", zap.Int("courseID", courseID), zap.Int("removed", removed))
	return &models.BulkRemoveResponse{
		Message: fmt.Sprintf("removed %d student(s) from course", removed),
		Removed: removed,
	}, nil
}

// ListEnrollments returns every enrollment to an admin and the caller's own enrollments to a student
func (s *enrollmentService) ListEnrollments(ctx context.Context, principal *models.Principal) ([]models.Enrollment, error) {
	if principal.IsAdmin() {
		return s.enrollmentRepo.ListAll(ctx)
	}
	return s.enrollmentRepo.ListByUser(ctx, principal.UserID)
}

// ListOwnEnrollments returns the caller's enrollments
func (s *enrollmentService) ListOwnEnrollments(ctx context.Context, principal *models.Principal) ([]models.Enrollment, error) {
	return s.enrollmentRepo.ListByUser(ctx, principal.UserID)
}

// ListCourseEnrollments returns the enrollments of one course
func (s *enrollmentService) ListCourseEnrollments(ctx context.Context, courseID int) ([]models.Enrollment, error) {
	return s.enrollmentRepo.ListByCourse(ctx, courseID)
}
