package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/therepeaters/course-platform-api/internal/models"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
}

// CourseService serves the course catalog.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns catalog entries, optionally filtered by category.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	courses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a catalog entry. Codes are unique across the catalog.
func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}

	course := &models.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Instructor:  req.Instructor,
		Category:    req.Category,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// SeedDefaults inserts the default catalog rows when missing, keyed by code.
func (s *CourseService) SeedDefaults(ctx context.Context) error {
	for _, course := range defaultCourses() {
		if _, err := s.repo.FindByCode(ctx, course.Code); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check seed course")
		}
		seed := course
		if err := s.repo.Create(ctx, &seed); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed course")
		}
		s.logger.Info("seeded course", zap.String("code", seed.Code))
	}
	return nil
}

func defaultCourses() []models.Course {
	return []models.Course{
		{
			Name:        "SSC CHSL Complete Course",
			Code:        "SSC-CHSL-2024",
			Description: "Complete preparation for SSC CHSL Tier I, II, and Typing Test",
			Price:       4999.00,
			Duration:    "6 Months",
			Instructor:  "Expert Faculty",
			Category:    "ssc-chsl",
		},
		{
			Name:        "SSC CGL Tier I & II",
			Code:        "SSC-CGL-2024",
			Description: "Comprehensive course for SSC CGL with advanced concepts",
			Price:       5999.00,
			Duration:    "8 Months",
			Instructor:  "Senior Mentor",
			Category:    "ssc-cgl",
		},
		{
			Name:        "Railway NTPC CBT 1 & 2",
			Code:        "RRB-NTPC-2024",
			Description: "Complete NTPC preparation with practice tests",
			Price:       3999.00,
			Duration:    "4 Months",
			Instructor:  "Railway Expert",
			Category:    "ntpc",
		},
	}
}
