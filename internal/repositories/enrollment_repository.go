package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"go.uber.org/zap"
)

const enrollmentColumns = `id, user_id, course_id, created_at`

// enrollmentRepository implements EnrollmentRepository
type enrollmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB, logger *zap.Logger) *enrollmentRepository {
	return &enrollmentRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Enroll creates an enrollment after checking, in order, that the pair is new,
// the course exists and is active, and the course has a free seat.
//
// The course row is locked first, so concurrent enrollments in one course are serialized
// and the seat count cannot change between the check and the insert.
func (r *enrollmentRepository) Enroll(ctx context.Context, userID, courseID int) (*models.Enrollment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	var (
		capacity int
		isActive bool
		found    = true
	)
	err = tx.QueryRowContext(ctx, `SELECT capacity, is_active FROM courses WHERE id = ? FOR UPDATE`, courseID).
		Scan(&capacity, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		found = false
	} else if err != nil {
		r.logger.Error("failed to lock course", zap.Error(err), zap.Int("courseID", courseID))
		return nil, classify(fmt.Errorf("failed to lock course: %w", err))
	}

	var enrolled bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT * FROM enrollments WHERE user_id = ? AND course_id = ?)`, userID, courseID,
	).Scan(&enrolled)
	if err != nil {
		r.logger.Error("failed to check enrollment existence", zap.Error(err))
		return nil, classify(fmt.Errorf("failed to check enrollment existence: %w", err))
	}
	if enrolled {
		return nil, apperrors.ErrAlreadyEnrolled
	}

	if !found || !isActive {
		return nil, apperrors.ErrCourseUnavailable
	}

	var count int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM enrollments WHERE course_id = ?`, courseID).Scan(&count)
	if err != nil {
		r.logger.Error("failed to count course enrollments", zap.Error(err), zap.Int("courseID", courseID))
		return nil, classify(fmt.Errorf("failed to count course enrollments: %w", err))
	}
	if count >= capacity {
		return nil, apperrors.ErrCourseFull
	}

	enrollment := &models.Enrollment{
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: r.now(),
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO enrollments (user_id, course_id, created_at) VALUES (?, ?, ?)`,
		enrollment.UserID, enrollment.CourseID, enrollment.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, apperrors.ErrAlreadyEnrolled
		}
		if isMissingReference(err) {
			if violatesConstraint(err, "fk_enrollments_user") {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.ErrCourseUnavailable
		}
		r.logger.Error("failed to create enrollment", zap.Error(err))
		return nil, classify(fmt.Errorf("failed to create enrollment: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, classify(fmt.Errorf("failed to commit transaction: %w", err))
	}

	enrollment.ID = int(id)
	return enrollment, nil
}

// Delete removes the enrollment of a user in a course
func (r *enrollmentRepository) Delete(ctx context.Context, userID, courseID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE user_id = ? AND course_id = ?`, userID, courseID)
	if err != nil {
		r.logger.Error("failed to delete enrollment", zap.Error(err), zap.Int("userID", userID), zap.Int("courseID", courseID))
		return classify(fmt.Errorf("failed to delete enrollment: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// DeleteMany removes the enrollments of the given users in a course inside one transaction.
// Users without an enrollment are skipped. When nothing was removed the transaction is rolled back
// and ErrNoEnrollmentsForUsers is returned.
func (r *enrollmentRepository) DeleteMany(ctx context.Context, courseID int, userIDs []int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	removed := 0
	for _, userID := range userIDs {
		result, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE course_id = ? AND user_id = ?`, courseID, userID)
		if err != nil {
			r.logger.Error("failed to delete enrollment", zap.Error(err), zap.Int("userID", userID), zap.Int("courseID", courseID))
			return 0, classify(fmt.Errorf("failed to delete enrollment: %w", err))
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		removed += int(rowsAffected)
	}

	if removed == 0 {
		return 0, apperrors.ErrNoEnrollmentsForUsers
	}

	if err := tx.Commit(); err != nil {
		return 0, classify(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return removed, nil
}

// ListAll retrieves every enrollment ordered by id
func (r *enrollmentRepository) ListAll(ctx context.Context) ([]models.Enrollment, error) {
	return r.list(ctx, `SELECT `+enrollmentColumns+` FROM enrollments ORDER BY id`)
}

// ListByCourse retrieves the enrollments of a course ordered by id
func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID int) ([]models.Enrollment, error) {
	return r.list(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE course_id = ? ORDER BY id`, courseID)
}

// ListByUser retrieves the enrollments of a user ordered by id
func (r *enrollmentRepository) ListByUser(ctx context.Context, userID int) ([]models.Enrollment, error) {
	return r.list(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = ? ORDER BY id`, userID)
}

func (r *enrollmentRepository) list(ctx context.Context, query string, args ...any) ([]models.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list enrollments", zap.Error(err))
		return nil, classify(fmt.Errorf("failed to list enrollments: %w", err))
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		var enrollment models.Enrollment
		if err := rows.Scan(&enrollment.ID, &enrollment.UserID, &enrollment.CourseID, &enrollment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("failed to iterate enrollments: %w", err))
	}

	return enrollments, nil
}
