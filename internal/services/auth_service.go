package services

import (
	"context"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// AuthUserRepository is the interface that wraps methods for User table data access used by registration and login
type AuthUserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user, its ID is set on success.
	//
	// A duplicate email returns apperrors.ErrEmailTaken.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by exact email.
	//
	// "email" parameter is used to retrieve a user by email.
	//
	// If user with such email does not exist, apperrors.ErrUserNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user exists with the given email.
	//
	// "email" parameter is used to check if a user exists with the given email.
	//
	// If some error occurs during user existence check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PasswordHasher is the interface that wraps password hashing methods
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer is the interface that wraps the token issuing method
type TokenIssuer interface {
	IssueToken(subject string) (string, error)
}

// authService implements AuthService
type authService struct {
	userRepo AuthUserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo AuthUserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *zap.Logger) *authService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		validate: newValidator(),
		logger:   logger,
	}
}

// Register creates an active user account
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if !req.Role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailTaken
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int("userID", user.ID), zap.String("role", string(user.Role)))
	response := user.ToResponse()
	return &response, nil
}

// Login verifies credentials and issues an access token.
// Unknown email and wrong password are indistinguishable (401). An inactive account is rejected
// with 403 before the password is checked.
func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Unauthenticated(apperrors.MsgInvalidLogin)
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.Forbidden(apperrors.MsgInactiveAccount)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.Unauthenticated(apperrors.MsgInvalidLogin)
	}

	token, err := s.tokens.IssueToken(user.Email)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err))
		return nil, err
	}

	return &models.TokenResponse{AccessToken: token, TokenType: models.TokenTypeBearer}, nil
}

// LoginLegacy is Login with the status codes of the form-based /users/login endpoint:
// bad credentials and inactive accounts are both answered with 400.
func (s *authService) LoginLegacy(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	token, err := s.Login(ctx, email, password)
	switch apperrors.KindOf(err) {
	case apperrors.KindAuthentication:
		return nil, apperrors.Wrap(apperrors.KindValidation, apperrors.MsgInvalidLogin, err)
	case apperrors.KindAuthorization:
		return nil, apperrors.Wrap(apperrors.KindValidation, apperrors.MsgInactiveUser, err)
	}
	return token, err
}
