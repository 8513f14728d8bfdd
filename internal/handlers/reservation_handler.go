package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/middleware"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/grandstay/hotelchain-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ReservationHandler handles reservation lifecycle endpoints
type ReservationHandler struct {
	reservationService *services.ReservationService
	reservationRepo    reservationLister
	logger             *logrus.Logger
}

// reservationLister is the read surface the handler needs for listings.
type reservationLister interface {
	ListReservationsByBranch(branchID uuid.UUID, status models.ReservationStatus) ([]models.Reservation, error)
	ListReservationsByUser(userID uuid.UUID) ([]models.Reservation, error)
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService *services.ReservationService, reservationRepo reservationLister, logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		reservationRepo:    reservationRepo,
		logger:             logger,
	}
}

func actorFrom(userCtx middleware.UserContext) services.Actor {
	return services.Actor{
		UserID:   userCtx.UserID,
		Role:     userCtx.Role,
		BranchID: userCtx.BranchID,
	}
}

// ============================================================================
// CREATE - POST /api/v1/reservations
// ============================================================================

// Create records a new pending reservation
// @Summary Create reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.CreateReservationRequest true "Reservation request"
// @Success 201 {object} models.Reservation
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	res, err := h.reservationService.CreateReservation(actorFrom(userCtx), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "branch or room type not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ============================================================================
// LIST - GET /api/v1/reservations
// ============================================================================

// List returns the caller's reservations, or a branch worklist for staff
// @Summary List reservations
// @Tags Reservations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param status query string false "Filter branch worklist by status"
// @Success 200 {object} map[string]interface{}
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var (
		reservations []models.Reservation
		err          error
	)
	if userCtx.Role.IsStaff() && userCtx.BranchID != nil {
		status := models.ReservationStatus(c.DefaultQuery("status", string(models.ReservationPending)))
		reservations, err = h.reservationRepo.ListReservationsByBranch(*userCtx.BranchID, status)
	} else {
		reservations, err = h.reservationRepo.ListReservationsByUser(userCtx.UserID)
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to list reservations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": reservations,
		"count":        len(reservations),
	})
}

// ============================================================================
// APPROVE - POST /api/v1/reservations/:reservation_id/approve
// ============================================================================

// Approve converts a pending reservation into a confirmed booking
// @Summary Approve reservation
// @Tags Reservations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param reservation_id path string true "Reservation ID"
// @Success 200 {object} models.ApproveReservationResult
// @Failure 403 {object} map[string]interface{} "Not branch staff"
// @Failure 404 {object} map[string]interface{} "Reservation not found"
// @Failure 409 {object} map[string]interface{} "Not pending or no room available"
// @Router /reservations/{reservation_id}/approve [post]
func (h *ReservationHandler) Approve(c *gin.Context) {
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

	result, err := h.reservationService.Approve(actorFrom(userCtx), reservationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "you cannot approve reservations for this branch"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		case errors.Is(err, services.ErrNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "reservation is no longer pending"})
		case errors.Is(err, services.ErrNoRoomAvailable):
			c.JSON(http.StatusConflict, gin.H{"error": "no room of the requested type is available"})
		default:
			h.logger.WithError(err).Error("Failed to approve reservation")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve reservation"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// ============================================================================
// REJECT - POST /api/v1/reservations/:reservation_id/reject
// ============================================================================

// Reject cancels a pending reservation
// @Summary Reject reservation
// @Tags Reservations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param reservation_id path string true "Reservation ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{} "Not branch staff"
// @Failure 409 {object} map[string]interface{} "Not pending"
// @Router /reservations/{reservation_id}/reject [post]
func (h *ReservationHandler) Reject(c *gin.Context) {
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

	if err := h.reservationService.Reject(actorFrom(userCtx), reservationID); err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "you cannot reject reservations for this branch"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		case errors.Is(err, services.ErrNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "reservation is no longer pending"})
		default:
			h.logger.WithError(err).Error("Failed to reject reservation")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reject reservation"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reservation rejected"})
}
