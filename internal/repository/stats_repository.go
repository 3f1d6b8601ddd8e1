package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/therepeaters/course-platform-api/internal/models"
)

// StatsRepository serves the read-only admin reporting queries.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs the repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// UserRoster returns every user with their enrollment count.
func (r *StatsRepository) UserRoster(ctx context.Context) ([]models.UserReport, error) {
	const query = `SELECT u.id, u.name, u.email, u.role, u.created_at, COUNT(e.id) AS enrollments
        FROM users u
        LEFT JOIN enrollments e ON e.user_id = u.id
        GROUP BY u.id, u.name, u.email, u.role, u.created_at
        ORDER BY u.created_at ASC`
	var roster []models.UserReport
	if err := r.db.SelectContext(ctx, &roster, query); err != nil {
		return nil, fmt.Errorf("user roster: %w", err)
	}
	return roster, nil
}

// PlatformStats returns the platform-wide totals in a single round trip.
func (r *StatsRepository) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM users) AS total_users,
        (SELECT COUNT(*) FROM courses) AS total_courses,
        (SELECT COUNT(*) FROM enrollments) AS total_enrollments,
        (SELECT COUNT(*) FROM payments WHERE status = 'completed') AS total_payments,
        (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'completed') AS total_revenue,
        (SELECT COUNT(DISTINCT user_id) FROM enrollments) AS active_users`
	var stats models.PlatformStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}
	return &stats, nil
}
