package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/therepeaters/course-platform-api/internal/service"
	"github.com/therepeaters/course-platform-api/pkg/response"
)

// AdminHandler serves the reporting endpoints. Exports are rendered
// inline when format=csv or format=pdf is requested.
type AdminHandler struct {
	stats *service.StatsService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(stats *service.StatsService) *AdminHandler {
	return &AdminHandler{stats: stats}
}

// Users godoc
// @Summary User roster
// @Description List users with enrollment counts, as JSON or CSV
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param format query string false "Set to csv for a CSV download"
// @Success 200 {object} response.Envelope
// @Router /admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	if c.Query("format") == "csv" {
		raw, err := h.stats.UserRosterCSV(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		filename := "users_" + time.Now().UTC().Format("20060102") + ".csv"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/csv", raw)
		return
	}

	roster, err := h.stats.UserRoster(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, roster, map[string]interface{}{"count": len(roster)})
}

// Stats godoc
// @Summary Platform statistics
// @Description Aggregate platform totals, as JSON or PDF
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param format query string false "Set to pdf for a PDF report"
// @Success 200 {object} response.Envelope
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	if c.Query("format") == "pdf" {
		raw, err := h.stats.PlatformStatsPDF(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		filename := "stats_" + time.Now().UTC().Format("20060102") + ".pdf"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/pdf", raw)
		return
	}

	stats, err := h.stats.PlatformStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats)
}
