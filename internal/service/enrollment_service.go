package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/therepeaters/course-platform-api/internal/models"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
)

const enrollmentValidity = 365 * 24 * time.Hour

type enrollmentRepository interface {
	ExistsActive(ctx context.Context, userID, courseID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	ListActiveByUser(ctx context.Context, userID string) ([]models.EnrolledCourse, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentService orchestrates the direct (unpaid) enrollment path.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   courseReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// Enroll registers the user to a course with a one-year expiry.
func (s *EnrollmentService) Enroll(ctx context.Context, userID string, req models.EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	exists, err := s.repo.ExistsActive(ctx, userID, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
	}

	batch := req.Batch
	if batch == "" {
		batch = "morning"
	}
	now := s.now().UTC()
	expiry := now.Add(enrollmentValidity)
	enrollment := &models.Enrollment{
		UserID:     userID,
		CourseID:   req.CourseID,
		Status:     models.EnrollmentStatusActive,
		Batch:      batch,
		EnrolledAt: now,
		ExpiryDate: &expiry,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.cache.Invalidate(ctx, statsCacheKey)
	return enrollment, nil
}

// MyCourses returns the caller's active enrollments with course info.
func (s *EnrollmentService) MyCourses(ctx context.Context, userID string) ([]models.EnrolledCourse, error) {
	courses, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return courses, nil
}
