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

// LedgerHandler handles billing and invoice endpoints
type LedgerHandler struct {
	ledgerService *services.LedgerService
	logger        *logrus.Logger
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *services.LedgerService, logger *logrus.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Summary returns the caller's outstanding position
// @Summary Ledger summary
// @Tags Ledger
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} models.LedgerSummary
// @Router /ledger/summary [get]
func (h *LedgerHandler) Summary(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	summary, err := h.ledgerService.UserSummary(userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build ledger summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build ledger summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Invoices returns a travel company's invoices and outstanding total
// @Summary Company invoices
// @Tags Ledger
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "No company profile"
// @Router /ledger/invoices [get]
func (h *LedgerHandler) Invoices(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	outstanding, invoices, err := h.ledgerService.CompanyOutstanding(userCtx.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no company profile for this account"})
			return
		}
		h.logger.WithError(err).Error("Failed to list invoices")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invoices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outstanding": outstanding,
		"invoices":    invoices,
		"count":       len(invoices),
	})
}

// ReservationBillings lists the billing rows for one reservation
// @Summary Reservation billings
// @Tags Ledger
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param reservation_id path string true "Reservation ID"
// @Success 200 {object} map[string]interface{}
// @Router /reservations/{reservation_id}/billings [get]
func (h *LedgerHandler) ReservationBillings(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("reservation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	billings, err := h.ledgerService.ReservationBillings(reservationID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list billings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list billings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"billings": billings,
		"count":    len(billings),
	})
}

// AddServiceCharge records an additional service fee against a reservation
// @Summary Add service charge
// @Tags Ledger
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param reservation_id path string true "Reservation ID"
// @Param request body models.ServiceChargeRequest true "Service charge"
// @Success 201 {object} models.Billing
// @Failure 403 {object} map[string]interface{} "Not branch staff"
// @Failure 404 {object} map[string]interface{} "Reservation not found"
// @Router /reservations/{reservation_id}/billings [post]
func (h *LedgerHandler) AddServiceCharge(c *gin.Context) {
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

	var req models.ServiceChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	billing, err := h.ledgerService.AddServiceCharge(actorFrom(userCtx), reservationID, req.ServiceType, req.AdditionalFee)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "reservation belongs to another branch"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		default:
			h.logger.WithError(err).Error("Failed to record service charge")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, billing)
}

// SettleInvoice marks a company invoice as paid
// @Summary Settle invoice
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/invoices/{invoice_id}/paid [post]
func (h *LedgerHandler) SettleInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("invoice_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	if err := h.ledgerService.SettleInvoice(invoiceID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invoice settled"})
}
