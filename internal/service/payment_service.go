package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/therepeaters/course-platform-api/internal/models"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByReference(ctx context.Context, reference string) (*models.Payment, error)
	CompleteIfPending(ctx context.Context, id, providerPaymentID string, completedAt time.Time) (bool, error)
}

type enrollmentLedger interface {
	FindActive(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
}

// PaymentConfig carries the checkout fields echoed to clients.
type PaymentConfig struct {
	CheckoutKeyID string
	MerchantName  string
}

// PaymentService orchestrates payment creation and verification. The
// provider signature fields are recorded but not verified against the
// gateway; verification trusts the reference lookup only.
type PaymentService struct {
	repo        paymentRepository
	enrollments enrollmentLedger
	courses     courseReader
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	config      PaymentConfig
	now         func() time.Time
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(repo paymentRepository, enrollments enrollmentLedger, courses courseReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger, config PaymentConfig) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		repo:        repo,
		enrollments: enrollments,
		courses:     courses,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		config:      config,
		now:         time.Now,
	}
}

// Create opens a pending payment and returns the checkout descriptor.
func (s *PaymentService) Create(ctx context.Context, user *models.User, req models.CreatePaymentRequest) (*models.CheckoutDescriptor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	method := req.Method
	if method == "" {
		method = "online"
	}
	reference, err := s.newReference()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate payment reference")
	}

	payment := &models.Payment{
		UserID:    user.ID,
		CourseID:  course.ID,
		Amount:    req.Amount,
		Reference: reference,
		Method:    method,
		Status:    models.PaymentStatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}

	return &models.CheckoutDescriptor{
		PaymentID:   reference,
		Amount:      req.Amount,
		Key:         s.config.CheckoutKeyID,
		Name:        s.config.MerchantName,
		Description: fmt.Sprintf("Payment for %s", course.Name),
		Prefill: models.CheckoutPrefill{
			Name:    user.Name,
			Email:   user.Email,
			Contact: user.Phone,
		},
	}, nil
}

// Verify completes a pending payment and activates the enrollment. The
// status transition is a conditional update, so repeated verification of
// the same reference yields a conflict instead of a duplicate enrollment.
func (s *PaymentService) Verify(ctx context.Context, req models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verification payload")
	}

	payment, err := s.repo.FindByReference(ctx, req.PaymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}

	completed, err := s.repo.CompleteIfPending(ctx, payment.ID, req.RazorpayPaymentID, s.now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete payment")
	}
	if !completed {
		return nil, appErrors.Clone(appErrors.ErrConflict, "payment already completed")
	}

	// A direct enrollment may already cover the course; reuse it instead
	// of inserting a second active row.
	existing, err := s.enrollments.FindActive(ctx, payment.UserID, payment.CourseID)
	if err == nil {
		s.cache.Invalidate(ctx, statsCacheKey)
		return &models.VerifyPaymentResponse{EnrollmentID: existing.ID}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	now := s.now().UTC()
	expiry := now.Add(enrollmentValidity)
	enrollment := &models.Enrollment{
		UserID:     payment.UserID,
		CourseID:   payment.CourseID,
		Status:     models.EnrollmentStatusActive,
		Batch:      "online",
		EnrolledAt: now,
		ExpiryDate: &expiry,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.cache.Invalidate(ctx, statsCacheKey)
	s.logger.Info("payment verified",
		zap.String("payment_id", payment.Reference),
		zap.String("enrollment_id", enrollment.ID),
	)
	return &models.VerifyPaymentResponse{EnrollmentID: enrollment.ID}, nil
}

// newReference allocates a provider-facing reference. The random suffix
// keeps identical-second requests from colliding.
func (s *PaymentService) newReference() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY_%s_%s", s.now().UTC().Format("20060102150405"), hex.EncodeToString(buf)), nil
}
