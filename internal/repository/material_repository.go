package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/therepeaters/course-platform-api/internal/models"
)

// MaterialRepository handles persistence of the study material index.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository constructs the repository.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// ListByCourse returns all materials indexed against a course.
func (r *MaterialRepository) ListByCourse(ctx context.Context, courseID string) ([]models.StudyMaterial, error) {
	const query = `SELECT id, course_id, title, description, file_url, drive_file_id, file_type, size, uploaded_at FROM study_materials WHERE course_id = $1 ORDER BY uploaded_at DESC`
	var materials []models.StudyMaterial
	if err := r.db.SelectContext(ctx, &materials, query, courseID); err != nil {
		return nil, fmt.Errorf("list course materials: %w", err)
	}
	return materials, nil
}

// Create records an uploaded file against its course.
func (r *MaterialRepository) Create(ctx context.Context, material *models.StudyMaterial) error {
	if material.ID == "" {
		material.ID = uuid.NewString()
	}
	if material.UploadedAt.IsZero() {
		material.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO study_materials (id, course_id, title, description, file_url, drive_file_id, file_type, size, uploaded_at) VALUES (:id, :course_id, :title, :description, :file_url, :drive_file_id, :file_type, :size, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return fmt.Errorf("create study material: %w", err)
	}
	return nil
}
