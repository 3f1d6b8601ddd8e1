package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/therepeaters/course-platform-api/internal/models"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
	"github.com/therepeaters/course-platform-api/pkg/export"
)

// statsCacheKey caches the aggregated platform totals. Enrollment and
// payment writes invalidate it.
const statsCacheKey = "admin:stats"

type statsRepository interface {
	UserRoster(ctx context.Context) ([]models.UserReport, error)
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

// StatsService serves the admin reporting reads with a cache in front of
// the aggregate query.
type StatsService struct {
	repo   statsRepository
	cache  *CacheService
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewStatsService constructs StatsService.
func NewStatsService(repo statsRepository, cache *CacheService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		repo:   repo,
		cache:  cache,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// UserRoster returns every user with enrollment counts.
func (s *StatsService) UserRoster(ctx context.Context) ([]models.UserReport, error) {
	roster, err := s.repo.UserRoster(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user roster")
	}
	return roster, nil
}

// PlatformStats returns the platform totals, served from cache when warm.
func (s *StatsService) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	var cached models.PlatformStats
	if hit, err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	stats, err := s.repo.PlatformStats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load platform stats")
	}
	if err := s.cache.Set(ctx, statsCacheKey, stats, 0); err != nil {
		s.logger.Warn("failed to cache platform stats", zap.Error(err))
	}
	return stats, nil
}

// UserRosterCSV renders the roster as a CSV document.
func (s *StatsService) UserRosterCSV(ctx context.Context) ([]byte, error) {
	roster, err := s.UserRoster(ctx)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{
		Headers: []string{"ID", "Name", "Email", "Role", "Registered", "Enrollments"},
	}
	for _, row := range roster {
		data.Rows = append(data.Rows, []string{
			row.ID,
			row.Name,
			row.Email,
			string(row.Role),
			row.CreatedAt.Format("2006-01-02"),
			strconv.Itoa(row.Enrollments),
		})
	}
	raw, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
	}
	return raw, nil
}

// PlatformStatsPDF renders the platform totals as a PDF report.
func (s *StatsService) PlatformStatsPDF(ctx context.Context) ([]byte, error) {
	stats, err := s.PlatformStats(ctx)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total users", strconv.Itoa(stats.TotalUsers)},
			{"Total courses", strconv.Itoa(stats.TotalCourses)},
			{"Total enrollments", strconv.Itoa(stats.TotalEnrollments)},
			{"Completed payments", strconv.Itoa(stats.TotalPayments)},
			{"Total revenue", fmt.Sprintf("%.2f", stats.TotalRevenue)},
			{"Active users", strconv.Itoa(stats.ActiveUsers)},
		},
	}
	raw, err := s.pdf.Render(data, "Platform Statistics")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render stats pdf")
	}
	return raw, nil
}
