package models

import "time"

// PaymentStatus enumerates the payment lifecycle. Completed is terminal.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Payment records a payment attempt against a course.
type Payment struct {
	ID                string        `db:"id" json:"id"`
	UserID            string        `db:"user_id" json:"user_id"`
	CourseID          string        `db:"course_id" json:"course_id"`
	Amount            float64       `db:"amount" json:"amount"`
	Reference         string        `db:"reference" json:"payment_id"`
	Method            string        `db:"method" json:"method"`
	Status            PaymentStatus `db:"status" json:"status"`
	ProviderPaymentID *string       `db:"provider_payment_id" json:"-"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	CompletedAt       *time.Time    `db:"completed_at" json:"completed_at,omitempty"`
}

// CreatePaymentRequest opens a payment attempt for a course.
type CreatePaymentRequest struct {
	CourseID string  `json:"course_id" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Method   string  `json:"method"`
}

// CheckoutDescriptor is echoed to the caller for client-side checkout.
type CheckoutDescriptor struct {
	PaymentID   string          `json:"payment_id"`
	Amount      float64         `json:"amount"`
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Prefill     CheckoutPrefill `json:"prefill"`
}

// CheckoutPrefill pre-populates the provider checkout form.
type CheckoutPrefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// VerifyPaymentRequest confirms a checkout against a stored payment.
type VerifyPaymentRequest struct {
	PaymentID         string `json:"payment_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// VerifyPaymentResponse reports the enrollment created by verification.
type VerifyPaymentResponse struct {
	EnrollmentID string `json:"enrollment_id"`
}
