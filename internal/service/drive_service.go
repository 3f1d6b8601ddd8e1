package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/therepeaters/course-platform-api/internal/drive"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
)

// DriveAuthorizer runs the OAuth consent flow against the provider.
type DriveAuthorizer interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

type driveGrantStore interface {
	UpdateDriveGrant(ctx context.Context, id, grant string) error
}

// DriveService connects a user account to their Google Drive. The state
// token round-trips the user id through the consent redirect, so no
// server-side session is needed.
type DriveService struct {
	authorizer DriveAuthorizer
	signer     *drive.StateSigner
	users      driveGrantStore
	logger     *zap.Logger
}

// NewDriveService constructs DriveService.
func NewDriveService(authorizer DriveAuthorizer, signer *drive.StateSigner, users driveGrantStore, logger *zap.Logger) *DriveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DriveService{authorizer: authorizer, signer: signer, users: users, logger: logger}
}

// ConnectURL returns the provider consent URL for the user.
func (s *DriveService) ConnectURL(userID string) (string, error) {
	if s.authorizer == nil {
		return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "drive storage not configured")
	}
	state, err := s.signer.Generate(userID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign state token")
	}
	return s.authorizer.AuthURL(state), nil
}

// CompleteCallback validates the state token, exchanges the code and
// stores the resulting grant on the user record.
func (s *DriveService) CompleteCallback(ctx context.Context, state, code string) error {
	if s.authorizer == nil {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "drive storage not configured")
	}
	if state == "" || code == "" {
		return appErrors.Clone(appErrors.ErrValidation, "state and code are required")
	}
	userID, err := s.signer.Parse(state)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid state token")
	}
	grant, err := s.authorizer.Exchange(ctx, code)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to exchange authorization code")
	}
	if err := s.users.UpdateDriveGrant(ctx, userID, grant); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store drive grant")
	}
	s.logger.Info("drive account connected", zap.String("user_id", userID))
	return nil
}
