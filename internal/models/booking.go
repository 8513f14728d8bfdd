package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the state of a confirmed stay
// Matches PostgreSQL ENUM: booking_status
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed, room-assigned stay. Bookings created by
// reservation approval carry the originating reservation id; direct
// walk-in bookings leave it nil.
type Booking struct {
	ID                  uuid.UUID     `db:"id" json:"id"`
	UserID              uuid.UUID     `db:"user_id" json:"user_id"`
	RoomID              uuid.UUID     `db:"room_id" json:"room_id"`
	BranchID            uuid.UUID     `db:"branch_id" json:"branch_id"`
	OriginReservationID *uuid.UUID    `db:"origin_reservation_id" json:"origin_reservation_id,omitempty"`
	CheckInDate         time.Time     `db:"check_in_date" json:"check_in_date"`
	CheckOutDate        time.Time     `db:"check_out_date" json:"check_out_date"`
	Status              BookingStatus `db:"status" json:"status"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the booking still holds its room.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// WalkInBookingRequest is the clerk payload for booking a guest at the
// desk without a prior reservation.
type WalkInBookingRequest struct {
	GuestID      uuid.UUID `json:"guest_id" binding:"required"`
	RoomTypeID   uuid.UUID `json:"room_type_id" binding:"required"`
	CheckInDate  time.Time `json:"check_in_date" binding:"required"`
	CheckOutDate time.Time `json:"check_out_date" binding:"required"`
}

// Validate checks the walk-in payload
func (r *WalkInBookingRequest) Validate() error {
	if r.GuestID == uuid.Nil {
		return fmt.Errorf("guest is required")
	}
	if r.RoomTypeID == uuid.Nil {
		return fmt.Errorf("room type is required")
	}
	if !r.CheckOutDate.After(r.CheckInDate) {
		return fmt.Errorf("check-out date must be after check-in date")
	}
	return nil
}
