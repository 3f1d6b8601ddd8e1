package models

import "time"

// UserReport is a roster row with enrollment counts for admin reporting.
type UserReport struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Role        UserRole  `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Enrollments int       `db:"enrollments" json:"enrollments"`
}

// PlatformStats aggregates the platform-wide totals.
type PlatformStats struct {
	TotalUsers       int     `db:"total_users" json:"total_users"`
	TotalCourses     int     `db:"total_courses" json:"total_courses"`
	TotalEnrollments int     `db:"total_enrollments" json:"total_enrollments"`
	TotalPayments    int     `db:"total_payments" json:"total_payments"`
	TotalRevenue     float64 `db:"total_revenue" json:"total_revenue"`
	ActiveUsers      int     `db:"active_users" json:"active_users"`
}
