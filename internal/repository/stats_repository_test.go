package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therepeaters/course-platform-api/internal/models"
)

func TestUserRoster(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "created_at", "enrollments"}).
		AddRow("u1", "Asha", "asha@example.com", string(models.RoleStudent), now, 2).
		AddRow("u2", "Admin", "admin@example.com", string(models.RoleAdmin), now, 0)
	mock.ExpectQuery("SELECT u.id, u.name, u.email, u.role, u.created_at, COUNT").
		WillReturnRows(rows)

	roster, err := repo.UserRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, 2, roster[0].Enrollments)
	assert.Equal(t, models.RoleAdmin, roster[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlatformStats(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	rows := sqlmock.NewRows([]string{"total_users", "total_courses", "total_enrollments", "total_payments", "total_revenue", "active_users"}).
		AddRow(10, 3, 7, 5, 24995.0, 6)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	stats, err := repo.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalUsers)
	assert.Equal(t, 24995.0, stats.TotalRevenue)
	assert.Equal(t, 6, stats.ActiveUsers)
	assert.NoError(t, mock.ExpectationsWereMet())
}
