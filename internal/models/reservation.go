package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus represents the lifecycle state of a reservation
// Matches PostgreSQL ENUM: reservation_status
type ReservationStatus string

const (
	ReservationPending        ReservationStatus = "pending"
	ReservationPendingPayment ReservationStatus = "pending_payment"
	ReservationConfirmed      ReservationStatus = "confirmed"
	ReservationCancelled      ReservationStatus = "cancelled"
)

// Reservation is a pre-booking request awaiting clerk approval or payment.
// It is the root entity of the lifecycle: bookings, billings, invoices and
// payments all reference back to it.
type Reservation struct {
	ID                 uuid.UUID         `db:"id" json:"id"`
	UserID             uuid.UUID         `db:"user_id" json:"user_id"`
	BranchID           uuid.UUID         `db:"branch_id" json:"branch_id"`
	RoomTypeID         uuid.UUID         `db:"room_type_id" json:"room_type_id"`
	CheckInDate        time.Time         `db:"check_in_date" json:"check_in_date"`
	CheckOutDate       time.Time         `db:"check_out_date" json:"check_out_date"`
	Occupants          int               `db:"occupants" json:"occupants"`
	NumberOfRooms      int               `db:"number_of_rooms" json:"number_of_rooms"`
	DiscountPercentage float64           `db:"discount_percentage" json:"discount_percentage"`
	RemainingBalance   float64           `db:"remaining_balance" json:"remaining_balance"`
	Status             ReservationStatus `db:"status" json:"status"`
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updated_at"`
}

// IsPending reports whether the reservation can still be approved or
// rejected by a clerk.
func (r *Reservation) IsPending() bool {
	return r.Status == ReservationPending
}

// IsTerminal reports whether the reservation reached a final state.
func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationConfirmed || r.Status == ReservationCancelled
}

// Nights returns the stay length in whole days.
func (r *Reservation) Nights() int {
	return int(r.CheckOutDate.Sub(r.CheckInDate).Hours() / 24)
}

// CreateReservationRequest is the customer/travel-company payload for a new
// reservation.
type CreateReservationRequest struct {
	BranchID           uuid.UUID `json:"branch_id" binding:"required"`
	RoomTypeID         uuid.UUID `json:"room_type_id" binding:"required"`
	CheckInDate        time.Time `json:"check_in_date" binding:"required"`
	CheckOutDate       time.Time `json:"check_out_date" binding:"required"`
	Occupants          int       `json:"occupants" binding:"required"`
	NumberOfRooms      int       `json:"number_of_rooms" binding:"required"`
	DiscountPercentage float64   `json:"discount_percentage"`
}

// Validate checks the reservation payload. Discount bounds are enforced
// here so the pricing calculator never sees an out-of-range percentage.
func (r *CreateReservationRequest) Validate() error {
	if r.BranchID == uuid.Nil {
		return fmt.Errorf("branch is required")
	}
	if r.RoomTypeID == uuid.Nil {
		return fmt.Errorf("room type is required")
	}
	if !r.CheckOutDate.After(r.CheckInDate) {
		return fmt.Errorf("check-out date must be after check-in date")
	}
	if r.Occupants < 1 {
		return fmt.Errorf("at least one occupant is required")
	}
	if r.NumberOfRooms < 1 {
		return fmt.Errorf("at least one room is required")
	}
	if r.DiscountPercentage < 0 || r.DiscountPercentage > 100 {
		return fmt.Errorf("discount percentage must be between 0 and 100")
	}
	return nil
}

// ApproveReservationResult reports the entities created by a successful
// approval.
type ApproveReservationResult struct {
	ReservationID uuid.UUID  `json:"reservation_id"`
	BookingID     uuid.UUID  `json:"booking_id"`
	RoomID        uuid.UUID  `json:"room_id"`
	RoomNumber    string     `json:"room_number"`
	InvoiceID     *uuid.UUID `json:"invoice_id,omitempty"`
	TotalAmount   float64    `json:"total_amount"`
}
