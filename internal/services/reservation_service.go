package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/grandstay/hotelchain-backend/pkg/card"
	"github.com/sirupsen/logrus"
)

// Actor is the request-scoped identity every lifecycle operation runs as.
// It is built from the authenticated request and passed in explicitly;
// nothing here is read from ambient state.
type Actor struct {
	UserID   uuid.UUID
	Role     models.Role
	BranchID *uuid.UUID
}

// ReservationService orchestrates the reservation lifecycle: intake,
// clerk approval and rejection, pending payments and their completion.
type ReservationService struct {
	reservationRepo *database.ReservationRepository
	roomRepo        *database.RoomRepository
	branchRepo      *database.BranchRepository
	userRepo        *database.UserRepository
	paymentRepo     *database.PaymentRepository
	pricing         *PricingService
	cardValidator   *card.Validator
	maxDiscountPct  float64
	logger          *logrus.Logger
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	reservationRepo *database.ReservationRepository,
	roomRepo *database.RoomRepository,
	branchRepo *database.BranchRepository,
	userRepo *database.UserRepository,
	paymentRepo *database.PaymentRepository,
	pricing *PricingService,
	cardValidator *card.Validator,
	maxDiscountPct float64,
	logger *logrus.Logger,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		branchRepo:      branchRepo,
		userRepo:        userRepo,
		paymentRepo:     paymentRepo,
		pricing:         pricing,
		cardValidator:   cardValidator,
		maxDiscountPct:  maxDiscountPct,
		logger:          logger,
	}
}

// CreateReservation records a new pending reservation for a customer or
// travel-company actor.
func (s *ReservationService) CreateReservation(actor Actor, req *models.CreateReservationRequest) (*models.Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.DiscountPercentage > 0 {
		if actor.Role != models.RoleTravelCompany {
			return nil, fmt.Errorf("discounts are only available to travel-company accounts")
		}
		if req.DiscountPercentage > s.maxDiscountPct {
			return nil, fmt.Errorf("discount percentage cannot exceed %g", s.maxDiscountPct)
		}
	}

	branch, err := s.branchRepo.GetBranchByID(req.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrNotFound
	}

	roomType, err := s.branchRepo.GetRoomTypeByID(req.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType == nil {
		return nil, ErrNotFound
	}

	res := &models.Reservation{
		UserID:             actor.UserID,
		BranchID:           req.BranchID,
		RoomTypeID:         req.RoomTypeID,
		CheckInDate:        req.CheckInDate,
		CheckOutDate:       req.CheckOutDate,
		Occupants:          req.Occupants,
		NumberOfRooms:      req.NumberOfRooms,
		DiscountPercentage: req.DiscountPercentage,
	}
	if err := s.reservationRepo.CreateReservation(res); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"user_id":        actor.UserID,
		"branch_id":      req.BranchID,
	}).Info("Reservation created")

	return res, nil
}

// Approve converts a pending reservation into a confirmed booking with an
// open billing row, issuing a net-30 invoice when the reservation belongs
// to a travel company. All writes happen in one transaction; on any
// failure the reservation stays pending.
func (s *ReservationService) Approve(actor Actor, reservationID uuid.UUID) (*models.ApproveReservationResult, error) {
	// Policy check before anything is read or priced.
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden
	}
	if actor.BranchID == nil {
		return nil, ErrForbidden
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
	if !res.IsPending() {
		return nil, ErrNotPending
	}

	roomType, err := s.branchRepo.GetRoomTypeByID(res.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType == nil {
		return nil, fmt.Errorf("room type %s no longer exists", res.RoomTypeID)
	}

	quote, err := s.pricing.Quote(roomType.BasePrice, res.NumberOfRooms, res.Nights(), res.DiscountPercentage)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:              res.UserID,
		BranchID:            res.BranchID,
		OriginReservationID: &res.ID,
		CheckInDate:         res.CheckInDate,
		CheckOutDate:        res.CheckOutDate,
	}
	billing := &models.Billing{
		ReservationID:    res.ID,
		UserID:           res.UserID,
		ServiceType:      models.ServiceTypeNone,
		AdditionalFee:    0,
		RemainingBalance: quote.GrandTotal,
		Status:           models.BillingOpen,
	}

	invoice, err := s.buildCompanyInvoice(res, quote.GrandTotal)
	if err != nil {
		return nil, err
	}

	room, err := s.reservationRepo.ApproveReservation(res, s.roomRepo, booking, billing, invoice)
	if err != nil {
		if errors.Is(err, database.ErrNoRoomAvailable) {
			return nil, ErrNoRoomAvailable
		}
		if errors.Is(err, database.ErrNotPending) {
			return nil, ErrNotPending
		}
		s.logger.WithError(err).WithField("reservation_id", reservationID).Error("Reservation approval failed")
		return nil, err
	}

	result := &models.ApproveReservationResult{
		ReservationID: res.ID,
		BookingID:     booking.ID,
		RoomID:        room.ID,
		RoomNumber:    room.RoomNumber,
		TotalAmount:   quote.GrandTotal,
	}
	if invoice != nil {
		result.InvoiceID = &invoice.ID
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"booking_id":     booking.ID,
		"room_number":    room.RoomNumber,
		"total_amount":   quote.GrandTotal,
		"invoiced":       invoice != nil,
	}).Info("Reservation approved")

	return result, nil
}

// buildCompanyInvoice prepares the net-30 invoice for a travel-company
// reservation, or returns nil when the owner is an individual customer.
// A travel-company user without a company profile is logged and skipped
// rather than failing the approval.
func (s *ReservationService) buildCompanyInvoice(res *models.Reservation, total float64) (*models.Invoice, error) {
	owner, err := s.userRepo.GetUserByID(res.UserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("reservation owner %s not found", res.UserID)
	}
	if owner.Role != models.RoleTravelCompany {
		return nil, nil
	}

	profile, err := s.userRepo.GetCompanyProfileByUserID(owner.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		s.logger.WithField("user_id", owner.ID).Warn("Travel-company user has no company profile, skipping invoice")
		return nil, nil
	}

	now := time.Now()
	return &models.Invoice{
		CompanyID: profile.ID,
		Amount:    total,
		Status:    models.InvoicePending,
		IssuedAt:  now,
		DueDate:   now.AddDate(0, 0, models.InvoiceTermDays),
	}, nil
}

// Reject cancels a still-pending reservation. No room was ever allocated
// for a pending reservation, so there is nothing to release.
func (s *ReservationService) Reject(actor Actor, reservationID uuid.UUID) error {
	if !actor.Role.IsStaff() {
		return ErrForbidden
	}
	if actor.BranchID == nil {
		return ErrForbidden
	}

	res, err := s.reservationRepo.GetReservationByID(reservationID)
	if err != nil {
		return err
	}
	if res == nil {
		return ErrNotFound
	}
	if res.BranchID != *actor.BranchID {
		return ErrForbidden
	}

	if err := s.reservationRepo.CancelPendingReservation(reservationID); err != nil {
		if errors.Is(err, database.ErrNotPending) {
			return ErrNotPending
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"clerk_id":       actor.UserID,
	}).Info("Reservation rejected")

	return nil
}

// StagePendingPayment opens a pending payment for a reservation the
// customer chose to pay by card, pricing the stay at the current rate.
func (s *ReservationService) StagePendingPayment(actor Actor, reservationID uuid.UUID) (*models.PendingPayment, error) {
	res, err := s.reservationRepo.GetReservationByID(reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil || res.UserID != actor.UserID {
		return nil, ErrNotFound
	}
	if !res.IsPending() {
		return nil, ErrNotPending
	}

	roomType, err := s.branchRepo.GetRoomTypeByID(res.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType == nil {
		return nil, fmt.Errorf("room type %s no longer exists", res.RoomTypeID)
	}

	quote, err := s.pricing.Quote(roomType.BasePrice, res.NumberOfRooms, res.Nights(), res.DiscountPercentage)
	if err != nil {
		return nil, err
	}

	pp := &models.PendingPayment{
		UserID:        actor.UserID,
		ReservationID: res.ID,
		Amount:        quote.GrandTotal,
	}
	if err := s.paymentRepo.CreatePendingPayment(pp); err != nil {
		if errors.Is(err, database.ErrNotPending) {
			return nil, ErrNotPending
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"pending_payment_id": pp.ID,
		"reservation_id":     res.ID,
		"amount":             pp.Amount,
	}).Info("Pending payment staged")

	return pp, nil
}

// CompletePayment validates the submitted card and, on success, consumes
// the pending payment in one transaction: payment recorded, pending row
// cancelled, reservation confirmed. Any validation failure leaves every
// row untouched. A replay of an already consumed pending payment fails
// with ErrNotFound.
func (s *ReservationService) CompletePayment(actor Actor, pendingPaymentID uuid.UUID, req *models.CompletePaymentRequest) (*models.CompletePaymentResult, error) {
	info, violations := s.cardValidator.Validate(card.Details{
		HolderName: req.CardholderName,
		Number:     req.CardNumber,
		Expiry:     req.Expiry,
		CVC:        req.CVC,
	})
	if len(violations) > 0 {
		return nil, &CardValidationError{Violations: violations}
	}

	pp, err := s.paymentRepo.GetPendingPayment(pendingPaymentID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if pp == nil {
		return nil, ErrNotFound
	}

	payment := &models.Payment{
		UserID:         pp.UserID,
		ReservationID:  pp.ReservationID,
		GroupBookingID: pp.GroupBookingID,
		Amount:         pp.Amount,
		PaymentMethod:  string(info.Brand),
		CardLastFour:   info.LastFour,
		CardholderName: req.CardholderName,
	}

	if err := s.paymentRepo.CompletePayment(pp, payment); err != nil {
		if errors.Is(err, database.ErrNotPending) {
			// Lost to a replay or the expiry sweep between read and claim.
			return nil, ErrNotFound
		}
		s.logger.WithError(err).WithField("pending_payment_id", pendingPaymentID).Error("Payment completion failed")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id":     payment.ID,
		"reservation_id": payment.ReservationID,
		"amount":         payment.Amount,
		"card_brand":     info.Brand,
	}).Info("Payment completed")

	return &models.CompletePaymentResult{
		PaymentID:     payment.ID,
		ReservationID: payment.ReservationID,
		Amount:        payment.Amount,
		CardBrand:     string(info.Brand),
		CardLastFour:  info.LastFour,
	}, nil
}
