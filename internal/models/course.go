package models

import "time"

// Course represents a catalog entry stored in the courses table.
type Course struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Code          string    `db:"code" json:"code"`
	Description   string    `db:"description" json:"description"`
	Price         float64   `db:"price" json:"price"`
	Duration      string    `db:"duration" json:"duration"`
	Instructor    string    `db:"instructor" json:"instructor"`
	Category      string    `db:"category" json:"category"`
	DriveFolderID *string   `db:"drive_folder_id" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CourseFilter captures catalog listing criteria.
type CourseFilter struct {
	Category string
}

// CreateCourseRequest is the admin payload for adding catalog entries.
type CreateCourseRequest struct {
	Name        string  `json:"name" validate:"required"`
	Code        string  `json:"code" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Duration    string  `json:"duration"`
	Instructor  string  `json:"instructor"`
	Category    string  `json:"category"`
}
