package services

import (
	"context"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"go.uber.org/zap"
)

// PrincipalUserRepository is the interface that wraps the user lookup needed to authenticate requests
type PrincipalUserRepository interface {
	// Method GetByEmail retrieves a user by exact email.
	//
	// "email" parameter is the subject carried by the bearer token.
	//
	// If user with such email does not exist, apperrors.ErrUserNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// principalService implements middleware.PrincipalResolver
type principalService struct {
	userRepo PrincipalUserRepository
	logger   *zap.Logger
}

// NewPrincipalService creates a new principal service
func NewPrincipalService(userRepo PrincipalUserRepository, logger *zap.Logger) *principalService {
	return &principalService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ResolvePrincipal returns the principal of an active user.
// Unknown and inactive users get the same authentication error as a bad token.
// Any store failure is reported as an infrastructure error.
func (s *principalService) ResolvePrincipal(ctx context.Context, email string) (*models.Principal, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Unauthenticated(apperrors.MsgInvalidCredentials)
		}
		s.logger.Error("failed to resolve principal", zap.Error(err))
		if apperrors.KindOf(err) == apperrors.KindInfrastructure {
			return nil, err
		}
		return nil, apperrors.Infrastructure(err)
	}

	if !user.IsActive {
		return nil, apperrors.Unauthenticated(apperrors.MsgInvalidCredentials)
	}

	return &models.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}
