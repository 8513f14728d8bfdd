package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// BillingRepository handles billing ledger database operations
type BillingRepository struct {
	db *sqlx.DB
}

// NewBillingRepository creates a new BillingRepository
func NewBillingRepository(db *sqlx.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// CreateBilling appends a billing row for an additional service fee.
func (r *BillingRepository) CreateBilling(billing *models.Billing) error {
	billing.ID = uuid.New()
	billing.CreatedAt = time.Now()
	if billing.Status == "" {
		billing.Status = models.BillingOpen
	}

	_, err := r.db.Exec(`
		INSERT INTO billings (id, reservation_id, user_id, service_type, additional_fee, remaining_balance, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		billing.ID, billing.ReservationID, billing.UserID, billing.ServiceType,
		billing.AdditionalFee, billing.RemainingBalance, billing.Status, billing.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create billing: %w", err)
	}
	return nil
}

// ListBillingsByReservation returns a reservation's billing rows in
// creation order.
func (r *BillingRepository) ListBillingsByReservation(reservationID uuid.UUID) ([]models.Billing, error) {
	var billings []models.Billing
	err := r.db.Select(&billings, `
		SELECT id, reservation_id, user_id, service_type, additional_fee, remaining_balance, status, created_at
		FROM billings WHERE reservation_id = $1 ORDER BY created_at`, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list billings: %w", err)
	}
	return billings, nil
}

// SumAdditionalFeesByUser returns the total additional service fees across
// a user's billing rows. Absent rows count as zero.
func (r *BillingRepository) SumAdditionalFeesByUser(userID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.Get(&total, `
		SELECT COALESCE(SUM(additional_fee), 0)
		FROM billings WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum additional fees: %w", err)
	}
	return total, nil
}
