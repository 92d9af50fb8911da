package services

import (
	"context"

	"github.com/courseenroll/backend/internal/models"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps methods for User table data access used by account management
type UserRepository interface {
	// Method GetByID retrieves a user by ID.
	//
	// "userID" parameter is used to retrieve a user by ID.
	//
	// If user with such ID does not exist, apperrors.ErrUserNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method ListByRole retrieves all users with the given role ordered by ID.
	//
	// "role" parameter is used to filter users.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	// Method SetActive sets the active flag of a user.
	//
	// "userID" parameter is used to identify the user.
	// "active" parameter is the new flag value.
	//
	// If user with such ID does not exist, apperrors.ErrUserNotFound will be returned together with "nil" value.
	SetActive(ctx context.Context, userID int, active bool) (*models.User, error)
	// Method DeleteStudent deletes a student and the student's enrollments in one transaction.
	//
	// "userID" parameter is used to identify the user to delete.
	//
	// Returns apperrors.ErrUserNotFound for a missing user and apperrors.ErrOnlyStudentsDeletable for an admin.
	DeleteStudent(ctx context.Context, userID int) error
}

// userService implements UserService
type userService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, logger *zap.Logger) *userService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns the profile of the given user
func (s *userService) GetProfile(ctx context.Context, userID int) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := user.ToResponse()
	return &response, nil
}

// ListStudents returns all student profiles
func (s *userService) ListStudents(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.userRepo.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	students := make([]models.UserResponse, len(users))
	for i := range users {
		students[i] = users[i].ToResponse()
	}
	return students, nil
}

// SetActive activates or deactivates a user account.
// A deactivated user's tokens stop working on the next request.
func (s *userService) SetActive(ctx context.Context, userID int, active bool) (*models.UserResponse, error) {
	user, err := s.userRepo.SetActive(ctx, userID, active)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user active flag changed", zap.Int("userID", userID), zap.Bool("active", active))
	response := user.ToResponse()
	return &response, nil
}

// DeleteStudent deletes a student account with its enrollments
func (s *userService) DeleteStudent(ctx context.Context, userID int) error {
	if err := s.userRepo.DeleteStudent(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("student deleted", zap.Int("userID", userID))
	return nil
}
