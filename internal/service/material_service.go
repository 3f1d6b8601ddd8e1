package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/therepeaters/course-platform-api/internal/drive"
	"github.com/therepeaters/course-platform-api/internal/models"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
)

type materialRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.StudyMaterial, error)
	Create(ctx context.Context, material *models.StudyMaterial) error
}

type enrollmentChecker interface {
	ExistsActive(ctx context.Context, userID, courseID string) (bool, error)
}

type courseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	UpdateDriveFolder(ctx context.Context, id, folderID string) error
}

// MaterialStorage is the remote file store materials are pushed to.
type MaterialStorage interface {
	EnsureFolder(ctx context.Context, grant, name string) (string, error)
	Upload(ctx context.Context, grant, folderID, name, mimeType string, content io.Reader) (*drive.UploadedFile, error)
}

// UploadInput carries one multipart file plus its form metadata.
type UploadInput struct {
	Title       string
	Description string
	FileName    string
	MimeType    string
	Size        int64
	Content     io.Reader
}

// MaterialService gates material listings behind enrollment and pushes
// admin uploads to the remote store.
type MaterialService struct {
	repo        materialRepository
	enrollments enrollmentChecker
	courses     courseStore
	users       userReader
	storage     MaterialStorage
	logger      *zap.Logger
	now         func() time.Time
}

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// NewMaterialService constructs MaterialService.
func NewMaterialService(repo materialRepository, enrollments enrollmentChecker, courses courseStore, users userReader, storage MaterialStorage, logger *zap.Logger) *MaterialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{
		repo:        repo,
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		storage:     storage,
		logger:      logger,
		now:         time.Now,
	}
}

// ListForCourse returns the course materials. Students must hold an
// active enrollment; admins see every course.
func (s *MaterialService) ListForCourse(ctx context.Context, claims *models.JWTClaims, courseID string) ([]models.StudyMaterial, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if claims.Role != models.RoleAdmin {
		enrolled, err := s.enrollments.ExistsActive(ctx, claims.UserID, courseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
		}
		if !enrolled {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "enrollment required to access materials")
		}
	}

	materials, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	return materials, nil
}

// Upload stores the file in the uploader's remote drive under the course
// folder and records the material. The folder is created on first use.
func (s *MaterialService) Upload(ctx context.Context, uploaderID, courseID string, input UploadInput) (*models.UploadResult, error) {
	if input.Title == "" || input.FileName == "" || input.Content == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title and file are required")
	}
	if s.storage == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "drive storage not configured")
	}

	uploader, err := s.users.FindByID(ctx, uploaderID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load uploader")
	}
	if !uploader.HasDriveGrant() {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "drive account not connected")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	folderID, err := s.courseFolder(ctx, *uploader.DriveGrant, course)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.storage.Upload(ctx, *uploader.DriveGrant, folderID, input.FileName, input.MimeType, input.Content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upload file")
	}

	material := &models.StudyMaterial{
		CourseID:    course.ID,
		Title:       input.Title,
		Description: input.Description,
		FileURL:     uploaded.ViewLink,
		DriveFileID: uploaded.ID,
		FileType:    input.MimeType,
		Size:        formatSize(input.Size),
		UploadedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record material")
	}

	s.logger.Info("material uploaded",
		zap.String("course_id", course.ID),
		zap.String("file_id", uploaded.ID),
	)
	return &models.UploadResult{
		MaterialID: material.ID,
		FileID:     uploaded.ID,
		ViewLink:   uploaded.ViewLink,
	}, nil
}

// courseFolder returns the course's remote folder, creating and
// persisting it on first upload.
func (s *MaterialService) courseFolder(ctx context.Context, grant string, course *models.Course) (string, error) {
	if course.DriveFolderID != nil && *course.DriveFolderID != "" {
		return *course.DriveFolderID, nil
	}
	folderID, err := s.storage.EnsureFolder(ctx, grant, fmt.Sprintf("Course_%s", course.Code))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course folder")
	}
	if err := s.courses.UpdateDriveFolder(ctx, course.ID, folderID); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist course folder")
	}
	course.DriveFolderID = &folderID
	return folderID, nil
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}
