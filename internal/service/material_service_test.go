package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therepeaters/course-platform-api/internal/drive"
	"github.com/therepeaters/course-platform-api/internal/models"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
)

type fakeMaterialRepo struct {
	materials []models.StudyMaterial
	created   []*models.StudyMaterial
}

func (f *fakeMaterialRepo) ListByCourse(ctx context.Context, courseID string) ([]models.StudyMaterial, error) {
	return f.materials, nil
}

func (f *fakeMaterialRepo) Create(ctx context.Context, material *models.StudyMaterial) error {
	material.ID = "m-new"
	f.created = append(f.created, material)
	return nil
}

type fakeCourseStore struct {
	fakeCourseReader
	folderUpdates map[string]string
}

func (f *fakeCourseStore) UpdateDriveFolder(ctx context.Context, id, folderID string) error {
	if f.folderUpdates == nil {
		f.folderUpdates = map[string]string{}
	}
	f.folderUpdates[id] = folderID
	return nil
}

type fakeStorage struct {
	folderID   string
	uploads    int
	folderCall int
}

func (f *fakeStorage) EnsureFolder(ctx context.Context, grant, name string) (string, error) {
	f.folderCall++
	return f.folderID, nil
}

func (f *fakeStorage) Upload(ctx context.Context, grant, folderID, name, mimeType string, content io.Reader) (*drive.UploadedFile, error) {
	f.uploads++
	return &drive.UploadedFile{ID: "file-1", ViewLink: "https://drive.google.com/file/d/file-1/view"}, nil
}

type fakeUserReader struct {
	users map[string]*models.User
}

func (f *fakeUserReader) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func grantPtr(s string) *string { return &s }

func TestListForCourseRequiresEnrollment(t *testing.T) {
	courses := &fakeCourseStore{fakeCourseReader: fakeCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1"}}}}
	svc := NewMaterialService(&fakeMaterialRepo{}, &fakeEnrollmentRepo{}, courses, &fakeUserReader{}, &fakeStorage{}, nil)

	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}
	_, err := svc.ListForCourse(context.Background(), claims, "c1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestListForCourseEnrolledStudent(t *testing.T) {
	courses := &fakeCourseStore{fakeCourseReader: fakeCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1"}}}}
	enrollments := &fakeEnrollmentRepo{active: map[string]*models.Enrollment{
		enrollKey("u1", "c1"): {ID: "e1"},
	}}
	repo := &fakeMaterialRepo{materials: []models.StudyMaterial{{ID: "m1", Title: "Week 1 Notes"}}}
	svc := NewMaterialService(repo, enrollments, courses, &fakeUserReader{}, &fakeStorage{}, nil)

	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}
	materials, err := svc.ListForCourse(context.Background(), claims, "c1")
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "Week 1 Notes", materials[0].Title)
}

func TestListForCourseAdminBypassesGate(t *testing.T) {
	courses := &fakeCourseStore{fakeCourseReader: fakeCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1"}}}}
	svc := NewMaterialService(&fakeMaterialRepo{}, &fakeEnrollmentRepo{}, courses, &fakeUserReader{}, &fakeStorage{}, nil)

	claims := &models.JWTClaims{UserID: "a1", Role: models.RoleAdmin}
	_, err := svc.ListForCourse(context.Background(), claims, "c1")
	require.NoError(t, err)
}

func TestUploadRequiresDriveGrant(t *testing.T) {
	courses := &fakeCourseStore{fakeCourseReader: fakeCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1", Code: "SSC-CHSL-2024"}}}}
	users := &fakeUserReader{users: map[string]*models.User{"a1": {ID: "a1", Role: models.RoleAdmin}}}
	svc := NewMaterialService(&fakeMaterialRepo{}, &fakeEnrollmentRepo{}, courses, users, &fakeStorage{}, nil)

	input := UploadInput{Title: "Notes", FileName: "notes.pdf", Content: strings.NewReader("x")}
	_, err := svc.Upload(context.Background(), "a1", "c1", input)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestUploadCreatesFolderOnFirstUse(t *testing.T) {
	course := &models.Course{ID: "c1", Code: "SSC-CHSL-2024"}
	courses := &fakeCourseStore{fakeCourseReader: fakeCourseReader{courses: map[string]*models.Course{"c1": course}}}
	users := &fakeUserReader{users: map[string]*models.User{
		"a1": {ID: "a1", Role: models.RoleAdmin, DriveGrant: grantPtr(`{"access_token":"x"}`)},
	}}
	storage := &fakeStorage{folderID: "folder-1"}
	repo := &fakeMaterialRepo{}
	svc := NewMaterialService(repo, &fakeEnrollmentRepo{}, courses, users, storage, nil)

	input := UploadInput{Title: "Notes", FileName: "notes.pdf", MimeType: "application/pdf", Size: 2048, Content: strings.NewReader("x")}
	result, err := svc.Upload(context.Background(), "a1", "c1", input)
	require.NoError(t, err)

	assert.Equal(t, "m-new", result.MaterialID)
	assert.Equal(t, "file-1", result.FileID)
	assert.Equal(t, 1, storage.folderCall)
	assert.Equal(t, "folder-1", courses.folderUpdates["c1"])
	require.Len(t, repo.created, 1)
	assert.Equal(t, "2.0 KB", repo.created[0].Size)

	// Second upload reuses the persisted folder.
	input.Content = strings.NewReader("y")
	_, err = svc.Upload(context.Background(), "a1", "c1", input)
	require.NoError(t, err)
	assert.Equal(t, 1, storage.folderCall)
	assert.Equal(t, 2, storage.uploads)
}

func TestUploadUnknownCourse(t *testing.T) {
	users := &fakeUserReader{users: map[string]*models.User{
		"a1": {ID: "a1", DriveGrant: grantPtr("{}")},
	}}
	svc := NewMaterialService(&fakeMaterialRepo{}, &fakeEnrollmentRepo{}, &fakeCourseStore{}, users, &fakeStorage{}, nil)

	input := UploadInput{Title: "Notes", FileName: "notes.pdf", Content: strings.NewReader("x")}
	_, err := svc.Upload(context.Background(), "a1", "missing", input)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
