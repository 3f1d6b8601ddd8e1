package models

import "time"

// EnrollmentStatus enumerates the lifecycle states of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusActive  EnrollmentStatus = "active"
	EnrollmentStatusExpired EnrollmentStatus = "expired"
)

// Enrollment links a user to a course for a bounded period.
type Enrollment struct {
	ID         string           `db:"id" json:"id"`
	UserID     string           `db:"user_id" json:"user_id"`
	CourseID   string           `db:"course_id" json:"course_id"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	Batch      string           `db:"batch" json:"batch"`
	EnrolledAt time.Time        `db:"enrolled_at" json:"enrolled_at"`
	ExpiryDate *time.Time       `db:"expiry_date" json:"expiry_date,omitempty"`
}

// EnrolledCourse is an enrollment joined with its course for listings.
type EnrolledCourse struct {
	CourseID   string     `db:"course_id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Code       string     `db:"code" json:"code"`
	Category   string     `db:"category" json:"category"`
	Batch      string     `db:"batch" json:"batch"`
	EnrolledAt time.Time  `db:"enrolled_at" json:"enrolled_at"`
	ExpiryDate *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
}

// EnrollRequest is the direct enrollment payload.
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Batch    string `json:"batch"`
}
