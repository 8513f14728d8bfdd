package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/grandstay/hotelchain-backend/internal/middleware"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/grandstay/hotelchain-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// PaymentHandler handles pending-payment and card-payment endpoints
type PaymentHandler struct {
	reservationService *services.ReservationService
	paymentRepo        *database.PaymentRepository
	logger             *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(reservationService *services.ReservationService, paymentRepo *database.PaymentRepository, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		reservationService: reservationService,
		paymentRepo:        paymentRepo,
		logger:             logger,
	}
}

// ============================================================================
// STAGE - POST /api/v1/reservations/:reservation_id/pending-payment
// ============================================================================

// StagePendingPayment opens a pending payment for a reservation
// @Summary Stage a pending payment
// @Tags Payments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param reservation_id path string true "Reservation ID"
// @Success 201 {object} models.PendingPayment
// @Failure 404 {object} map[string]interface{} "Reservation not found"
// @Failure 409 {object} map[string]interface{} "Not pending"
// @Router /reservations/{reservation_id}/pending-payment [post]
func (h *PaymentHandler) StagePendingPayment(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	reservationID, err := uuid.Parse(c.Param("reservation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	pp, err := h.reservationService.StagePendingPayment(actorFrom(userCtx), reservationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		case errors.Is(err, services.ErrNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "reservation is no longer pending"})
		default:
			h.logger.WithError(err).Error("Failed to stage pending payment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage pending payment"})
		}
		return
	}

	c.JSON(http.StatusCreated, pp)
}

// ============================================================================
// COMPLETE - POST /api/v1/payments/:pending_payment_id/complete
// ============================================================================

// CompletePayment validates the submitted card and consumes the pending
// payment
// @Summary Complete a pending payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param pending_payment_id path string true "Pending payment ID"
// @Param request body models.CompletePaymentRequest true "Card details"
// @Success 200 {object} models.CompletePaymentResult
// @Failure 400 {object} map[string]interface{} "Card validation failed"
// @Failure 404 {object} map[string]interface{} "Pending payment not found or already consumed"
// @Router /payments/{pending_payment_id}/complete [post]
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	pendingPaymentID, err := uuid.Parse(c.Param("pending_payment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pending payment id"})
		return
	}

	var req models.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result, err := h.reservationService.CompletePayment(actorFrom(userCtx), pendingPaymentID, &req)
	if err != nil {
		var cardErr *services.CardValidationError
		switch {
		case errors.As(err, &cardErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "card_validation_failed",
				"violations": cardErr.Violations,
			})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "pending payment not found"})
		default:
			h.logger.WithError(err).Error("Failed to complete payment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete payment"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// ============================================================================
// HISTORY - GET /api/v1/payments
// ============================================================================

// List returns the caller's completed payments
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]interface{}
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	payments, err := h.paymentRepo.ListPaymentsByUser(userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list payments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}
