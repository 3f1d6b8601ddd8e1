package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/therepeaters/course-platform-api/internal/models"
	"github.com/therepeaters/course-platform-api/internal/service"
	appErrors "github.com/therepeaters/course-platform-api/pkg/errors"
	"github.com/therepeaters/course-platform-api/pkg/response"
)

// PaymentHandler serves checkout creation and verification.
type PaymentHandler struct {
	service *service.PaymentService
	auth    *service.AuthService
}

// NewPaymentHandler creates a new handler.
func NewPaymentHandler(svc *service.PaymentService, auth *service.AuthService) *PaymentHandler {
	return &PaymentHandler{service: svc, auth: auth}
}

// Create godoc
// @Summary Create payment
// @Description Open a pending payment and return the checkout descriptor
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payment/create [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	user, err := h.auth.ResolveUser(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	descriptor, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, descriptor)
}

// Verify godoc
// @Summary Verify payment
// @Description Complete a pending payment and activate the enrollment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.VerifyPaymentRequest true "Verification payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payment/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid verification payload"))
		return
	}

	result, err := h.service.Verify(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}
