package models

import "time"

// StudyMaterial describes an uploaded file indexed against a course.
type StudyMaterial struct {
	ID          string    `db:"id" json:"id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	FileURL     string    `db:"file_url" json:"file_url"`
	DriveFileID string    `db:"drive_file_id" json:"drive_file_id"`
	FileType    string    `db:"file_type" json:"file_type"`
	Size        string    `db:"size" json:"size"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// UploadResult echoes the remote location of a stored file.
type UploadResult struct {
	MaterialID string `json:"material_id"`
	FileID     string `json:"file_id"`
	ViewLink   string `json:"view_link"`
}
