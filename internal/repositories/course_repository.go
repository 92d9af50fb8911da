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

const courseColumns = `id, title, code, capacity, is_active`

// courseRepository implements CourseRepository
type courseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB, logger *zap.Logger) *courseRepository {
	return &courseRepository{
		db:     db,
		logger: logger,
	}
}

// scanCourse scans a single course row
func scanCourse(row interface{ Scan(...any) error }) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Code,
		&course.Capacity,
		&course.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Create inserts a new active course. The code is checked and inserted inside one transaction.
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT * FROM courses WHERE code = ?)`, course.Code).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check course code existence", zap.Error(err), zap.String("code", course.Code))
		return classify(fmt.Errorf("failed to check course code existence: %w", err))
	}
	if exists {
		return apperrors.ErrCourseCodeTaken
	}

	query := `
		INSERT INTO courses (title, code, capacity, is_active)
		VALUES (?, ?, ?, TRUE)
	`
	result, err := tx.ExecContext(ctx, query, course.Title, course.Code, course.Capacity)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperrors.ErrCourseCodeTaken
		}
		r.logger.Error("failed to create course", zap.Error(err))
		return classify(fmt.Errorf("failed to create course: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isDuplicateEntry(err) {
			return apperrors.ErrCourseCodeTaken
		}
		return classify(fmt.Errorf("failed to commit transaction: %w", err))
	}

	course.ID = int(id)
	course.IsActive = true
	return nil
}

// GetByID retrieves a course by ID regardless of its active flag
func (r *courseRepository) GetByID(ctx context.Context, courseID int) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, courseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrCourseNotFound
	}
	if err != nil {
		r.logger.Error("failed to get course by id", zap.Error(err), zap.Int("courseID", courseID))
		return nil, classify(fmt.Errorf("failed to get course by id: %w", err))
	}

	return course, nil
}

// ListActive retrieves all active courses ordered by id
func (r *courseRepository) ListActive(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE is_active = TRUE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list courses", zap.Error(err))
		return nil, classify(fmt.Errorf("failed to list courses: %w", err))
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, *course)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("failed to iterate courses: %w", err))
	}

	return courses, nil
}

// Update applies the supplied fields of a partial update and returns the updated course
func (r *courseRepository) Update(ctx context.Context, courseID int, update *models.UpdateCourseRequest) (*models.Course, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ? FOR UPDATE`
	course, err := scanCourse(tx.QueryRowContext(ctx, query, courseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrCourseNotFound
	}
	if err != nil {
		r.logger.Error("failed to lock course", zap.Error(err), zap.Int("courseID", courseID))
		return nil, classify(fmt.Errorf("failed to lock course: %w", err))
	}

	if update.Title != nil {
		course.Title = *update.Title
	}
	if update.Capacity != nil {
		course.Capacity = *update.Capacity
	}
	if update.IsActive != nil {
		course.IsActive = *update.IsActive
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE courses SET title = ?, capacity = ?, is_active = ? WHERE id = ?`,
		course.Title, course.Capacity, course.IsActive, courseID,
	)
	if err != nil {
		r.logger.Error("failed to update course", zap.Error(err), zap.Int("courseID", courseID))
		return nil, classify(fmt.Errorf("failed to update course: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, classify(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return course, nil
}

// Delete removes a course that no enrollment references.
// The course row is locked so no enrollment can be inserted between the count and the delete.
func (r *courseRepository) Delete(ctx context.Context, courseID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRowContext(ctx, `SELECT id FROM courses WHERE id = ? FOR UPDATE`, courseID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrCourseNotFound
	}
	if err != nil {
		r.logger.Error("failed to lock course", zap.Error(err), zap.Int("courseID", courseID))
		return classify(fmt.Errorf("failed to lock course: %w", err))
	}

	var enrolled int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM enrollments WHERE course_id = ?`, courseID).Scan(&enrolled)
	if err != nil {
		r.logger.Error("failed to count course enrollments", zap.Error(err), zap.Int("courseID", courseID))
		return classify(fmt.Errorf("failed to count course enrollments: %w", err))
	}
	if enrolled > 0 {
		return apperrors.ErrCourseHasEnrollments
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, courseID); err != nil {
		if isRowReferenced(err) {
			return apperrors.ErrCourseHasEnrollments
		}
		r.logger.Error("failed to delete course", zap.Error(err), zap.Int("courseID", courseID))
		return classify(fmt.Errorf("failed to delete course: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

// ListStudents retrieves the users enrolled in a course ordered by enrollment time
func (r *courseRepository) ListStudents(ctx context.Context, courseID int) ([]models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.is_active
		FROM enrollments e
		JOIN users u ON u.id = e.user_id
		WHERE e.course_id = ?
		ORDER BY e.created_at, e.id
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		r.logger.Error("failed to list course students", zap.Error(err), zap.Int("courseID", courseID))
		return nil, classify(fmt.Errorf("failed to list course students: %w", err))
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
		return nil, classify(fmt.Errorf("failed to iterate course students: %w", err))
	}

	return users, nil
}
