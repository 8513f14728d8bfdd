package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// BookingService handles desk operations on confirmed stays: walk-in
// bookings and cancellations.
type BookingService struct {
	bookingRepo *database.BookingRepository
	roomRepo    *database.RoomRepository
	branchRepo  *database.BranchRepository
	logger      *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	roomRepo *database.RoomRepository,
	branchRepo *database.BranchRepository,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		branchRepo:  branchRepo,
		logger:      logger,
	}
}

// WalkIn books a guest at the desk, claiming a room of the requested type
// in the clerk's branch.
func (s *BookingService) WalkIn(actor Actor, req *models.WalkInBookingRequest) (*models.Booking, *models.Room, error) {
	if !actor.Role.IsStaff() || actor.BranchID == nil {
		return nil, nil, ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	roomType, err := s.branchRepo.GetRoomTypeByID(req.RoomTypeID)
	if err != nil {
		return nil, nil, err
	}
	if roomType == nil {
		return nil, nil, ErrNotFound
	}

	booking := &models.Booking{
		UserID:       req.GuestID,
		BranchID:     *actor.BranchID,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
	}
	room, err := s.bookingRepo.CreateWalkInBooking(booking, req.RoomTypeID, s.roomRepo)
	if err != nil {
		if errors.Is(err, database.ErrNoRoomAvailable) {
			return nil, nil, ErrNoRoomAvailable
		}
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"room_number": room.RoomNumber,
		"clerk_id":    actor.UserID,
	}).Info("Walk-in booking created")

	return booking, room, nil
}

// Cancel ends an active booking and frees its room.
func (s *BookingService) Cancel(actor Actor, bookingID uuid.UUID) error {
	if !actor.Role.IsStaff() || actor.BranchID == nil {
		return ErrForbidden
	}

	booking, err := s.bookingRepo.GetBookingByID(bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrNotFound
	}
	if booking.BranchID != *actor.BranchID {
		return ErrForbidden
	}

	if err := s.bookingRepo.CancelBooking(bookingID, s.roomRepo); err != nil {
		if errors.Is(err, database.ErrNotPending) {
			return ErrNotPending
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"clerk_id":   actor.UserID,
	}).Info("Booking cancelled")

	return nil
}

// ListByBranch returns the bookings of the clerk's branch.
func (s *BookingService) ListByBranch(actor Actor) ([]models.Booking, error) {
	if !actor.Role.IsStaff() || actor.BranchID == nil {
		return nil, ErrForbidden
	}
	return s.bookingRepo.ListBookingsByBranch(*actor.BranchID)
}
