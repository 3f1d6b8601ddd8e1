package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therepeaters/course-platform-api/internal/models"
	"github.com/therepeaters/course-platform-api/internal/service"
)

type stubStatsRepo struct {
	roster []models.UserReport
	stats  models.PlatformStats
}

func (s *stubStatsRepo) UserRoster(ctx context.Context) ([]models.UserReport, error) {
	return s.roster, nil
}

func (s *stubStatsRepo) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	stats := s.stats
	return &stats, nil
}

func getRequest(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	return c, w
}

func TestAdminUsersJSON(t *testing.T) {
	repo := &stubStatsRepo{roster: []models.UserReport{
		{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: models.RoleStudent, CreatedAt: time.Now(), Enrollments: 2},
	}}
	handler := NewAdminHandler(service.NewStatsService(repo, nil, nil))

	c, w := getRequest(t, "/admin/users")
	handler.Users(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []models.UserReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, 2, envelope.Data[0].Enrollments)
}

func TestAdminUsersCSV(t *testing.T) {
	repo := &stubStatsRepo{roster: []models.UserReport{
		{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: models.RoleStudent, CreatedAt: time.Now()},
	}}
	handler := NewAdminHandler(service.NewStatsService(repo, nil, nil))

	c, w := getRequest(t, "/admin/users?format=csv")
	handler.Users(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "asha@example.com")
}

func TestAdminStatsJSON(t *testing.T) {
	repo := &stubStatsRepo{stats: models.PlatformStats{TotalUsers: 10, TotalRevenue: 24995}}
	handler := NewAdminHandler(service.NewStatsService(repo, nil, nil))

	c, w := getRequest(t, "/admin/stats")
	handler.Stats(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.PlatformStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 10, envelope.Data.TotalUsers)
	assert.Equal(t, 24995.0, envelope.Data.TotalRevenue)
}

func TestAdminStatsPDF(t *testing.T) {
	repo := &stubStatsRepo{stats: models.PlatformStats{TotalUsers: 10}}
	handler := NewAdminHandler(service.NewStatsService(repo, nil, nil))

	c, w := getRequest(t, "/admin/stats?format=pdf")
	handler.Stats(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, len(w.Body.Bytes()) > 4)
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}
