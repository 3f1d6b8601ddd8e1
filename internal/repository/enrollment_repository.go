package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/therepeaters/course-platform-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ExistsActive checks if an active enrollment exists for (user, course).
func (r *EnrollmentRepository) ExistsActive(ctx context.Context, userID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2 AND status = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, userID, courseID, models.EnrollmentStatusActive); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check active enrollment: %w", err)
	}
	return true, nil
}

// FindActive returns the active enrollment for (user, course).
func (r *EnrollmentRepository) FindActive(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	const query = `SELECT id, user_id, course_id, status, batch, enrolled_at, expiry_date FROM enrollments WHERE user_id = $1 AND course_id = $2 AND status = $3 LIMIT 1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, userID, courseID, models.EnrollmentStatusActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find active enrollment: %w", err)
	}
	return &enrollment, nil
}

// Create persists a new enrollment record. A partial unique index on
// (user_id, course_id) WHERE status = 'active' backs the duplicate check.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusActive
	}
	const query = `INSERT INTO enrollments (id, user_id, course_id, status, batch, enrolled_at, expiry_date) VALUES (:id, :user_id, :course_id, :status, :batch, :enrolled_at, :expiry_date)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// ListActiveByUser returns active enrollments joined with course info.
func (r *EnrollmentRepository) ListActiveByUser(ctx context.Context, userID string) ([]models.EnrolledCourse, error) {
	const query = `SELECT e.course_id, c.name, c.code, c.category, e.batch, e.enrolled_at, e.expiry_date
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.user_id = $1 AND e.status = $2
        ORDER BY e.enrolled_at DESC`
	var courses []models.EnrolledCourse
	if err := r.db.SelectContext(ctx, &courses, query, userID, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list user enrollments: %w", err)
	}
	return courses, nil
}
