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

func TestMaterialListByCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaterialRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "course_id", "title", "description", "file_url", "drive_file_id", "file_type", "size", "uploaded_at"}).
		AddRow("m1", "c1", "Week 1 Notes", "Intro", "https://drive.google.com/file/d/x/view", "x", "application/pdf", "1.2 MB", now)
	mock.ExpectQuery("SELECT id, course_id, title, description, file_url").
		WithArgs("c1").
		WillReturnRows(rows)

	materials, err := repo.ListByCourse(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "Week 1 Notes", materials[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialCreateAssignsDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaterialRepository(db)

	mock.ExpectExec("INSERT INTO study_materials").WillReturnResult(sqlmock.NewResult(1, 1))

	material := &models.StudyMaterial{CourseID: "c1", Title: "Week 1 Notes", FileURL: "url", DriveFileID: "x"}
	err := repo.Create(context.Background(), material)
	require.NoError(t, err)
	assert.NotEmpty(t, material.ID)
	assert.False(t, material.UploadedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
