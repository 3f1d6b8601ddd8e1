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

// UserRepository provides database access for user records.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, phone, role, google_id, drive_grant, created_at, updated_at FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, phone, role, google_id, drive_grant, created_at, updated_at FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByGoogleID returns a user by linked external identity.
func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, phone, role, google_id, drive_grant, created_at, updated_at FROM users WHERE google_id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, googleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by google id: %w", err)
	}
	return &user, nil
}

// Create inserts a new user and returns the stored record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = models.RoleStudent
	}

	const query = `INSERT INTO users (id, name, email, password_hash, phone, role, google_id, drive_grant, created_at, updated_at) VALUES (:id, :name, :email, :password_hash, :phone, :role, :google_id, :drive_grant, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// LinkGoogleID attaches an external identity to an existing user.
func (r *UserRepository) LinkGoogleID(ctx context.Context, id, googleID string) error {
	const query = `UPDATE users SET google_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, googleID, time.Now().UTC()); err != nil {
		return fmt.Errorf("link google id: %w", err)
	}
	return nil
}

// UpdateDriveGrant stores the serialized storage grant for a user.
func (r *UserRepository) UpdateDriveGrant(ctx context.Context, id, grant string) error {
	const query = `UPDATE users SET drive_grant = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, grant, time.Now().UTC()); err != nil {
		return fmt.Errorf("update drive grant: %w", err)
	}
	return nil
}
