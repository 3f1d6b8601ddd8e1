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

// PaymentRepository handles persistence of the payment ledger.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create opens a payment attempt in pending state.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	const query = `INSERT INTO payments (id, user_id, course_id, amount, reference, method, status, provider_payment_id, created_at, completed_at) VALUES (:id, :user_id, :course_id, :amount, :reference, :method, :status, :provider_payment_id, :created_at, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// FindByReference returns a payment by its provider-facing reference.
func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	const query = `SELECT id, user_id, course_id, amount, reference, method, status, provider_payment_id, created_at, completed_at FROM payments WHERE reference = $1 LIMIT 1`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, reference); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find payment by reference: %w", err)
	}
	return &payment, nil
}

// CompleteIfPending transitions a payment to completed only when it is still
// pending. Returns false when another verification already won the update.
func (r *PaymentRepository) CompleteIfPending(ctx context.Context, id, providerPaymentID string, completedAt time.Time) (bool, error) {
	const query = `UPDATE payments SET status = $2, provider_payment_id = $3, completed_at = $4 WHERE id = $1 AND status = $5`
	result, err := r.db.ExecContext(ctx, query, id, models.PaymentStatusCompleted, providerPaymentID, completedAt, models.PaymentStatusPending)
	if err != nil {
		return false, fmt.Errorf("complete payment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete payment rows: %w", err)
	}
	return rows == 1, nil
}
