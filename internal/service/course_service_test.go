package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therepeaters/course-platform-api/internal/models"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
)

type fakeCourseRepo struct {
	byID    map[string]*models.Course
	byCode  map[string]*models.Course
	created []*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{byID: map[string]*models.Course{}, byCode: map[string]*models.Course{}}
}

func (f *fakeCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	var out []models.Course
	for _, c := range f.byID {
		if filter.Category == "" || c.Category == filter.Category {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseRepo) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	if c, ok := f.byCode[code]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = "c-" + course.Code
	}
	f.created = append(f.created, course)
	f.byID[course.ID] = course
	f.byCode[course.Code] = course
	return nil
}

func TestCourseCreateDuplicateCode(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.byCode["SSC-CHSL-2024"] = &models.Course{ID: "c1", Code: "SSC-CHSL-2024"}
	svc := NewCourseService(repo, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateCourseRequest{Name: "Duplicate", Code: "SSC-CHSL-2024"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCourseGetNotFound(t *testing.T) {
	svc := NewCourseService(newFakeCourseRepo(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSeedDefaultsInsertsCatalog(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := NewCourseService(repo, nil, nil)

	require.NoError(t, svc.SeedDefaults(context.Background()))
	assert.Len(t, repo.created, 3)

	chsl := repo.byCode["SSC-CHSL-2024"]
	require.NotNil(t, chsl)
	assert.Equal(t, 4999.00, chsl.Price)
	assert.NotNil(t, repo.byCode["SSC-CGL-2024"])
	assert.NotNil(t, repo.byCode["RRB-NTPC-2024"])
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := NewCourseService(repo, nil, nil)

	require.NoError(t, svc.SeedDefaults(context.Background()))
	require.NoError(t, svc.SeedDefaults(context.Background()))
	assert.Len(t, repo.created, 3)
}
