package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the state of a payment or pending payment
// Matches PostgreSQL ENUM: payment_status
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PendingPayment is a staged payment awaiting card-detail submission.
// On submission it is consumed (marked cancelled) and a completed Payment
// row takes its place; left untouched long enough it is swept and its
// reservation cancelled.
type PendingPayment struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	UserID         uuid.UUID     `db:"user_id" json:"user_id"`
	ReservationID  uuid.UUID     `db:"reservation_id" json:"reservation_id"`
	GroupBookingID *uuid.UUID    `db:"group_booking_id" json:"group_booking_id,omitempty"`
	Amount         float64       `db:"amount" json:"amount"`
	Status         PaymentStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// IsClaimable reports whether the pending payment can still be completed.
func (p *PendingPayment) IsClaimable() bool {
	return p.Status == PaymentPending
}

// Payment records a completed card payment. Only the brand, holder name
// and last four digits are ever persisted.
type Payment struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	UserID         uuid.UUID     `db:"user_id" json:"user_id"`
	ReservationID  uuid.UUID     `db:"reservation_id" json:"reservation_id"`
	GroupBookingID *uuid.UUID    `db:"group_booking_id" json:"group_booking_id,omitempty"`
	Amount         float64       `db:"amount" json:"amount"`
	PaymentMethod  string        `db:"payment_method" json:"payment_method"`
	CardLastFour   string        `db:"card_last_four" json:"card_last_four"`
	CardholderName string        `db:"cardholder_name" json:"cardholder_name"`
	Status         PaymentStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// CompletePaymentRequest carries the card details submitted by a customer.
// The full number and CVC live only for the duration of the request.
type CompletePaymentRequest struct {
	CardholderName string `json:"cardholder_name" binding:"required"`
	CardNumber     string `json:"card_number" binding:"required"`
	Expiry         string `json:"expiry" binding:"required"`
	CVC            string `json:"cvc" binding:"required"`
}

// CompletePaymentResult reports the outcome of a successful payment.
type CompletePaymentResult struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	Amount        float64   `json:"amount"`
	CardBrand     string    `json:"card_brand"`
	CardLastFour  string    `json:"card_last_four"`
}
