package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/therepeaters/course-platform-api/internal/models"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
)

type mockUserRepo struct {
	usersByEmail  map[string]*models.User
	usersByGoogle map[string]*models.User
	usersByID     map[string]*models.User
	created       []*models.User
	linkedGoogle  map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByEmail:  map[string]*models.User{},
		usersByGoogle: map[string]*models.User{},
		usersByID:     map[string]*models.User{},
		linkedGoogle:  map[string]string{},
	}
}

func (m *mockUserRepo) add(user *models.User) {
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	if user.GoogleID != nil {
		m.usersByGoogle[*user.GoogleID] = user
	}
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	if user, ok := m.usersByGoogle[googleID]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "generated-id"
	}
	m.created = append(m.created, user)
	m.add(user)
	return nil
}

func (m *mockUserRepo) LinkGoogleID(ctx context.Context, id, googleID string) error {
	m.linkedGoogle[id] = googleID
	return nil
}

func testAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: 30 * 24 * time.Hour,
		Issuer:     "course-platform-api",
	})
}

func TestRegisterIssuesToken(t *testing.T) {
	repo := newMockUserRepo()
	svc := testAuthService(repo)

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Phone:    "9999999999",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	require.Len(t, repo.created, 1)
	assert.NotEqual(t, "secret123", repo.created[0].PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(&models.User{ID: "u1", Email: "asha@example.com"})
	svc := testAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := newMockUserRepo()
	repo.add(&models.User{ID: "u1", Name: "Asha", Email: "asha@example.com", PasswordHash: string(hash), Role: models.RoleStudent})
	svc := testAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := newMockUserRepo()
	repo.add(&models.User{ID: "u1", Email: "asha@example.com", PasswordHash: string(hash)})
	svc := testAuthService(repo)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "asha@example.com", Password: "wrong"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginUnknownEmailSameCode(t *testing.T) {
	svc := testAuthService(newMockUserRepo())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestGoogleAuthLinksExistingEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(&models.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: models.RoleStudent})
	svc := testAuthService(repo)

	res, err := svc.GoogleAuth(context.Background(), models.GoogleAuthRequest{
		GoogleID: "g-123",
		Email:    "asha@example.com",
		Name:     "Asha",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, "g-123", repo.linkedGoogle["u1"])
}

func TestGoogleAuthCreatesNewStudent(t *testing.T) {
	repo := newMockUserRepo()
	svc := testAuthService(repo)

	res, err := svc.GoogleAuth(context.Background(), models.GoogleAuthRequest{
		GoogleID: "g-456",
		Email:    "new@example.com",
		Name:     "New User",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	require.Len(t, repo.created, 1)
	require.NotNil(t, repo.created[0].GoogleID)
	assert.Equal(t, "g-456", *repo.created[0].GoogleID)
	assert.NotEmpty(t, repo.created[0].PasswordHash)
}

func TestGoogleAuthExistingGoogleID(t *testing.T) {
	googleID := "g-789"
	repo := newMockUserRepo()
	repo.add(&models.User{ID: "u2", Email: "linked@example.com", GoogleID: &googleID, Role: models.RoleStudent})
	svc := testAuthService(repo)

	res, err := svc.GoogleAuth(context.Background(), models.GoogleAuthRequest{
		GoogleID: googleID,
		Email:    "linked@example.com",
		Name:     "Linked",
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", res.User.ID)
	assert.Empty(t, repo.created)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(&models.User{ID: "u1", Email: "asha@example.com"})
	stale := NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret", Expiration: -time.Hour})

	res, err := stale.buildAuthResponse(repo.usersByEmail["asha@example.com"])
	require.NoError(t, err)

	svc := testAuthService(newMockUserRepo())
	_, err = svc.ValidateToken(res.Token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := testAuthService(newMockUserRepo())
	other := NewAuthService(newMockUserRepo(), nil, nil, AuthConfig{Secret: "other-secret", Expiration: time.Hour})

	repo := newMockUserRepo()
	repo.add(&models.User{ID: "u1", Email: "asha@example.com"})
	res, err := other.buildAuthResponse(repo.usersByEmail["asha@example.com"])
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.Token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
