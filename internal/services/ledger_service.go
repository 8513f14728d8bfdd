package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// LedgerService aggregates what a guest or travel company currently owes
// across billings, reservation balances and invoices.
type LedgerService struct {
	reservationRepo *database.ReservationRepository
	billingRepo     *database.BillingRepository
	invoiceRepo     *database.InvoiceRepository
	userRepo        *database.UserRepository
	logger          *logrus.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	reservationRepo *database.ReservationRepository,
	billingRepo *database.BillingRepository,
	invoiceRepo *database.InvoiceRepository,
	userRepo *database.UserRepository,
	logger *logrus.Logger,
) *LedgerService {
	return &LedgerService{
		reservationRepo: reservationRepo,
		billingRepo:     billingRepo,
		invoiceRepo:     invoiceRepo,
		userRepo:        userRepo,
		logger:          logger,
	}
}

// UserSummary totals a guest's outstanding position: accumulated service
// fees plus the remaining balances of their confirmed reservations.
func (s *LedgerService) UserSummary(userID uuid.UUID) (*models.LedgerSummary, error) {
	fees, err := s.billingRepo.SumAdditionalFeesByUser(userID)
	if err != nil {
		return nil, err
	}
	balances, err := s.reservationRepo.SumRemainingBalancesByUser(userID)
	if err != nil {
		return nil, err
	}

	return &models.LedgerSummary{
		AdditionalFees:    fees,
		RemainingBalances: balances,
		GrandTotal:        fees + balances,
	}, nil
}

// CompanyOutstanding returns the sum of a travel company's unpaid
// invoices, pending and overdue alike.
func (s *LedgerService) CompanyOutstanding(userID uuid.UUID) (float64, []models.Invoice, error) {
	profile, err := s.userRepo.GetCompanyProfileByUserID(userID)
	if err != nil {
		return 0, nil, err
	}
	if profile == nil {
		return 0, nil, ErrNotFound
	}

	outstanding, err := s.invoiceRepo.SumOutstandingByCompany(profile.ID)
	if err != nil {
		return 0, nil, err
	}
	invoices, err := s.invoiceRepo.ListInvoicesByCompany(profile.ID)
	if err != nil {
		return 0, nil, err
	}
	return outstanding, invoices, nil
}

// ReservationBillings lists the billing rows attached to one reservation.
func (s *LedgerService) ReservationBillings(reservationID uuid.UUID) ([]models.Billing, error) {
	return s.billingRepo.ListBillingsByReservation(reservationID)
}

// AddServiceCharge appends an additional service fee to a reservation's
// billing ledger. Only staff scoped to the reservation's branch may
// record charges.
func (s *LedgerService) AddServiceCharge(actor Actor, reservationID uuid.UUID, serviceType string, fee float64) (*models.Billing, error) {
	if !actor.Role.IsStaff() || actor.BranchID == nil {
		return nil, ErrForbidden
	}
	if serviceType == "" || serviceType == models.ServiceTypeNone {
		return nil, fmt.Errorf("service type is required")
	}
	if fee <= 0 {
		return nil, fmt.Errorf("additional fee must be positive")
	}

	res, err := s.reservationRepo.GetReservationByID(reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}
	if res.BranchID != *actor.BranchID {
		return nil, ErrForbidden
	}

	billing := &models.Billing{
		ReservationID: res.ID,
		UserID:        res.UserID,
		ServiceType:   serviceType,
		AdditionalFee: fee,
		Status:        models.BillingOpen,
	}
	if err := s.billingRepo.CreateBilling(billing); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"service_type":   serviceType,
		"additional_fee": fee,
		"staff_id":       actor.UserID,
	}).Info("Service charge recorded")

	return billing, nil
}

// SettleInvoice marks a pending or overdue invoice as paid.
func (s *LedgerService) SettleInvoice(invoiceID uuid.UUID) error {
	return s.invoiceRepo.MarkInvoicePaid(invoiceID)
}
