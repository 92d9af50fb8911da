package services

import (
	"context"
	"errors"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
)

// mockUserRepository is a mock implementation of the user repository interfaces
type mockUserRepository struct {
	user          *models.User
	users         []models.User
	err           error
	createErr     error
	exists        bool
	existsErr     error
	deleteErr     error
	created       *models.User
	deletedUserID int
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 1
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil || m.user.Email != email {
		return nil, apperrors.ErrUserNotFound
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil || m.user.ID != userID {
		return nil, apperrors.ErrUserNotFound
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockUserRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

func (m *mockUserRepository) SetActive(ctx context.Context, userID int, active bool) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil || m.user.ID != userID {
		return nil, apperrors.ErrUserNotFound
	}
	updated := *m.user
	updated.IsActive = active
	return &updated, nil
}

func (m *mockUserRepository) DeleteStudent(ctx context.Context, userID int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedUserID = userID
	return nil
}

// mockCourseRepository is a mock implementation of CourseRepository
type mockCourseRepository struct {
	course    *models.Course
	courses   []models.Course
	students  []models.User
	err       error
	createErr error
	updateErr error
	deleteErr error
	updated   *models.UpdateCourseRequest
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	course.ID = 1
	course.IsActive = true
	return nil
}

func (m *mockCourseRepository) GetByID(ctx context.Context, courseID int) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.course == nil || m.course.ID != courseID {
		return nil, apperrors.ErrCourseNotFound
	}
	return m.course, nil
}

func (m *mockCourseRepository) ListActive(ctx context.Context) ([]models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.courses, nil
}

func (m *mockCourseRepository) Update(ctx context.Context, courseID int, update *models.UpdateCourseRequest) (*models.Course, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.updated = update
	course := *m.course
	if update.Title != nil {
		course.Title = *update.Title
	}
	if update.Capacity != nil {
		course.Capacity = *update.Capacity
	}
	if update.IsActive != nil {
		course.IsActive = *update.IsActive
	}
	return &course, nil
}

func (m *mockCourseRepository) Delete(ctx context.Context, courseID int) error {
	return m.deleteErr
}

func (m *mockCourseRepository) ListStudents(ctx context.Context, courseID int) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.students, nil
}

// mockEnrollmentRepository is a mock implementation of EnrollmentRepository
type mockEnrollmentRepository struct {
	enrollments    []models.Enrollment
	err            error
	enrollErr      error
	deleteErr      error
	removed        int
	deleteManyErr  error
	deletedUserIDs []int
	deletedPair    [2]int
	listedUserID   int
	listedCourseID int
	listedAll      bool
}

func (m *mockEnrollmentRepository) Enroll(ctx context.Context, userID, courseID int) (*models.Enrollment, error) {
	if m.enrollErr != nil {
		return nil, m.enrollErr
	}
	return &models.Enrollment{ID: 1, UserID: userID, CourseID: courseID}, nil
}

func (m *mockEnrollmentRepository) Delete(ctx context.Context, userID, courseID int) error {
	m.deletedPair = [2]int{userID, courseID}
	return m.deleteErr
}

func (m *mockEnrollmentRepository) DeleteMany(ctx context.Context, courseID int, userIDs []int) (int, error) {
	m.deletedUserIDs = userIDs
	if m.deleteManyErr != nil {
		return 0, m.deleteManyErr
	}
	return m.removed, nil
}

func (m *mockEnrollmentRepository) ListAll(ctx context.Context) ([]models.Enrollment, error) {
	m.listedAll = true
	return m.enrollments, m.err
}

func (m *mockEnrollmentRepository) ListByCourse(ctx context.Context, courseID int) ([]models.Enrollment, error) {
	m.listedCourseID = courseID
	return m.enrollments, m.err
}

func (m *mockEnrollmentRepository) ListByUser(ctx context.Context, userID int) ([]models.Enrollment, error) {
	m.listedUserID = userID
	return m.enrollments, m.err
}

var errDatabase = errors.New("database error")
