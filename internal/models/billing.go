package models

import (
	"time"

	"github.com/google/uuid"
)

// BillingStatus represents the settlement state of a billing row
type BillingStatus string

const (
	BillingOpen    BillingStatus = "open"
	BillingSettled BillingStatus = "settled"
)

// ServiceTypeNone marks the base billing row opened at approval; later
// rows carry the additional service they bill for.
const ServiceTypeNone = "none"

// Billing is a ledger row tracking the amount owed for a reservation.
// The base row is created at approval with remaining_balance equal to the
// computed stay total; further rows add service fees.
type Billing struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	ReservationID    uuid.UUID     `db:"reservation_id" json:"reservation_id"`
	UserID           uuid.UUID     `db:"user_id" json:"user_id"`
	ServiceType      string        `db:"service_type" json:"service_type"`
	AdditionalFee    float64       `db:"additional_fee" json:"additional_fee"`
	RemainingBalance float64       `db:"remaining_balance" json:"remaining_balance"`
	Status           BillingStatus `db:"status" json:"status"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
}

// ServiceChargeRequest records an additional service fee against a
// reservation's billing ledger.
type ServiceChargeRequest struct {
	ServiceType   string  `json:"service_type" binding:"required"`
	AdditionalFee float64 `json:"additional_fee" binding:"required"`
}

// InvoiceStatus represents the settlement state of a company invoice
// Matches PostgreSQL ENUM: invoice_status
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoicePaid    InvoiceStatus = "paid"
)

// InvoiceTermDays is the net payment term applied to company invoices.
const InvoiceTermDays = 30

// Invoice is a net-30 bill issued to a travel-company account.
type Invoice struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	CompanyID uuid.UUID     `db:"company_id" json:"company_id"`
	Amount    float64       `db:"amount" json:"amount"`
	Status    InvoiceStatus `db:"status" json:"status"`
	IssuedAt  time.Time     `db:"issued_at" json:"issued_at"`
	DueDate   time.Time     `db:"due_date" json:"due_date"`
}

// IsOverdue reports whether a pending invoice is past its due date.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status == InvoicePending && now.After(i.DueDate)
}

// LedgerSummary aggregates what a user currently owes.
type LedgerSummary struct {
	AdditionalFees    float64 `json:"additional_fees"`
	RemainingBalances float64 `json:"remaining_balances"`
	GrandTotal        float64 `json:"grand_total"`
}
