package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/therepeaters/course-platform-api/internal/service"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
	"github.com/therepeaters/course-platform-api/pkg/response"
)

// DriveHandler serves the Google Drive connect flow for admins.
type DriveHandler struct {
	service *service.DriveService
}

// NewDriveHandler creates a new handler.
func NewDriveHandler(svc *service.DriveService) *DriveHandler {
	return &DriveHandler{service: svc}
}

// Connect godoc
// @Summary Start Drive connection
// @Description Return the provider consent URL for the caller
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/drive/connect [get]
func (h *DriveHandler) Connect(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	url, err := h.service.ConnectURL(claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"auth_url": url})
}

// Callback godoc
// @Summary Complete Drive connection
// @Description Exchange the provider code and store the grant
// @Tags Admin
// @Produce json
// @Param state query string true "Signed state token"
// @Param code query string true "Authorization code"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/drive/callback [get]
func (h *DriveHandler) Callback(c *gin.Context) {
	err := h.service.CompleteCallback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"connected": true})
}
