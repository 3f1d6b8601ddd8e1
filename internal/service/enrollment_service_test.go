package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therepeaters/course-platform-api/internal/models"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
)

type fakeEnrollmentRepo struct {
	active  map[string]*models.Enrollment
	created []*models.Enrollment
	listed  []models.EnrolledCourse
}

func enrollKey(userID, courseID string) string { return userID + "/" + courseID }

func (f *fakeEnrollmentRepo) ExistsActive(ctx context.Context, userID, courseID string) (bool, error) {
	_, ok := f.active[enrollKey(userID, courseID)]
	return ok, nil
}

func (f *fakeEnrollmentRepo) FindActive(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	if e, ok := f.active[enrollKey(userID, courseID)]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = "e-new"
	}
	f.created = append(f.created, enrollment)
	if f.active == nil {
		f.active = map[string]*models.Enrollment{}
	}
	f.active[enrollKey(enrollment.UserID, enrollment.CourseID)] = enrollment
	return nil
}

func (f *fakeEnrollmentRepo) ListActiveByUser(ctx context.Context, userID string) ([]models.EnrolledCourse, error) {
	return f.listed, nil
}

type fakeCourseReader struct {
	courses map[string]*models.Course
}

func (f *fakeCourseReader) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func TestEnrollSuccess(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	courses := &fakeCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1", Code: "SSC-CHSL-2024"}}}
	svc := NewEnrollmentService(repo, courses, nil, nil, nil)

	enrollment, err := svc.Enroll(context.Background(), "u1", models.EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.Equal(t, "morning", enrollment.Batch)
	require.NotNil(t, enrollment.ExpiryDate)
	assert.WithinDuration(t, time.Now().Add(enrollmentValidity), *enrollment.ExpiryDate, time.Minute)
}

func TestEnrollKeepsRequestedBatch(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	courses := &fakeCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1"}}}
	svc := NewEnrollmentService(repo, courses, nil, nil, nil)

	enrollment, err := svc.Enroll(context.Background(), "u1", models.EnrollRequest{CourseID: "c1", Batch: "evening"})
	require.NoError(t, err)
	assert.Equal(t, "evening", enrollment.Batch)
}

func TestEnrollUnknownCourse(t *testing.T) {
	svc := NewEnrollmentService(&fakeEnrollmentRepo{}, &fakeCourseReader{}, nil, nil, nil)

	_, err := svc.Enroll(context.Background(), "u1", models.EnrollRequest{CourseID: "missing"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEnrollDuplicateActive(t *testing.T) {
	repo := &fakeEnrollmentRepo{active: map[string]*models.Enrollment{
		enrollKey("u1", "c1"): {ID: "e1", UserID: "u1", CourseID: "c1"},
	}}
	courses := &fakeCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1"}}}
	svc := NewEnrollmentService(repo, courses, nil, nil, nil)

	_, err := svc.Enroll(context.Background(), "u1", models.EnrollRequest{CourseID: "c1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestMyCourses(t *testing.T) {
	repo := &fakeEnrollmentRepo{listed: []models.EnrolledCourse{{CourseID: "c1", Code: "SSC-CHSL-2024"}}}
	svc := NewEnrollmentService(repo, &fakeCourseReader{}, nil, nil, nil)

	courses, err := svc.MyCourses(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "SSC-CHSL-2024", courses[0].Code)
}
