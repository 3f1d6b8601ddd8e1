package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/therepeaters/course-platform-api/internal/service"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
	"github.com/therepeaters/course-platform-api/pkg/response"
)

// MaterialHandler serves course material listings and admin uploads.
type MaterialHandler struct {
	service *service.MaterialService
}

// NewMaterialHandler creates a new handler.
func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: svc}
}

// List godoc
// @Summary List course materials
// @Description List study materials for a course, gated by enrollment
// @Tags Materials
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	materials, err := h.service.ListForCourse(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, materials, map[string]interface{}{"count": len(materials)})
}

// Upload godoc
// @Summary Upload study material
// @Description Push a file to the connected drive and index it against the course
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course id"
// @Param file formData file true "File to upload"
// @Param title formData string true "Material title"
// @Param description formData string false "Material description"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /admin/courses/{id}/materials [post]
func (h *MaterialHandler) Upload(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read file"))
		return
	}
	defer file.Close()

	input := service.UploadInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		FileName:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     file,
	}

	result, err := h.service.Upload(c.Request.Context(), claims.UserID, c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
