package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"go.uber.org/zap"
)

const userColumns = `id, name, email, password_hash, role, is_active`

// userRepository implements UserRepository
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// scanUser scans a single user row
func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, is_active)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.Role, user.IsActive)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperrors.ErrEmailTaken
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return classify(fmt.Errorf("failed to create user: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByEmail retrieves a user by exact email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, classify(fmt.Errorf("failed to get user by email: %w", err))
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int("userID", userID))
		return nil, classify(fmt.Errorf("failed to get user by id: %w", err))
	}

	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, classify(fmt.Errorf("failed to check email existence: %w", err))
	}

	return exists, nil
}

// ListByRole retrieves all users holding the given role ordered by id
func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		r.logger.Error("failed to list users", zap.Error(err), zap.String("role", string(role)))
		return nil, classify(fmt.Errorf("failed to list users: %w", err))
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("failed to iterate users: %w", err))
	}

	return users, nil
}

// SetActive sets the active flag of a user and returns the updated user
func (r *userRepository) SetActive(ctx context.Context, userID int, active bool) (*models.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ? FOR UPDATE`
	user, err := scanUser(tx.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to lock user", zap.Error(err), zap.Int("userID", userID))
		return nil, classify(fmt.Errorf("failed to lock user: %w", err))
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, active, userID); err != nil {
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("userID", userID))
		return nil, classify(fmt.Errorf("failed to update user: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, classify(fmt.Errorf("failed to commit transaction: %w", err))
	}

	user.IsActive = active
	return user, nil
}

// DeleteStudent deletes a student together with the student's enrollments in one transaction
func (r *userRepository) DeleteStudent(ctx context.Context, userID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	var role models.Role
	err = tx.QueryRowContext(ctx, `SELECT role FROM users WHERE id = ? FOR UPDATE`, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to lock user", zap.Error(err), zap.Int("userID", userID))
		return classify(fmt.Errorf("failed to lock user: %w", err))
	}
	if role != models.RoleStudent {
		return apperrors.ErrOnlyStudentsDeletable
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE user_id = ?`, userID); err != nil {
		r.logger.Error("failed to delete user enrollments", zap.Error(err), zap.Int("userID", userID))
		return classify(fmt.Errorf("failed to delete user enrollments: %w", err))
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID); err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.Int("userID", userID))
		return classify(fmt.Errorf("failed to delete user: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}
