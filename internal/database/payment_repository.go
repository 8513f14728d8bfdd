package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// PaymentRepository handles payment and pending-payment database
// operations.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreatePendingPayment stages a payment awaiting card submission and
// moves the reservation to pending_payment.
func (r *PaymentRepository) CreatePendingPayment(pp *models.PendingPayment) error {
	pp.ID = uuid.New()
	pp.Status = models.PaymentPending
	pp.CreatedAt = time.Now()

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO pending_payments (id, user_id, reservation_id, group_booking_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		pp.ID, pp.UserID, pp.ReservationID, pp.GroupBookingID, pp.Amount, pp.Status, pp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pending payment: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE reservations SET status = 'pending_payment', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`, pp.ReservationID)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotPending
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetPendingPayment retrieves a still-pending payment owned by the given
// user. Returns (nil, nil) when no such row exists, which also covers an
// already consumed or swept pending payment.
func (r *PaymentRepository) GetPendingPayment(id, userID uuid.UUID) (*models.PendingPayment, error) {
	var pp models.PendingPayment
	err := r.db.Get(&pp, `
		SELECT id, user_id, reservation_id, group_booking_id, amount, status, created_at
		FROM pending_payments
		WHERE id = $1 AND user_id = $2 AND status = 'pending'`, id, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending payment: %w", err)
	}
	return &pp, nil
}

// CompletePayment consumes a pending payment in one transaction: the
// pending row is claimed conditionally (a replay or a concurrent sweep
// loses here), the completed payment is recorded, and the reservation is
// confirmed.
func (r *PaymentRepository) CompletePayment(pp *models.PendingPayment, payment *models.Payment) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE pending_payments SET status = 'cancelled'
		WHERE id = $1 AND user_id = $2 AND status = 'pending'`,
		pp.ID, pp.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to consume pending payment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotPending
	}

	payment.ID = uuid.New()
	payment.Status = models.PaymentCompleted
	payment.CreatedAt = time.Now()

	_, err = tx.Exec(`
		INSERT INTO payments (id, user_id, reservation_id, group_booking_id, amount,
			payment_method, card_last_four, cardholder_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		payment.ID, payment.UserID, payment.ReservationID, payment.GroupBookingID, payment.Amount,
		payment.PaymentMethod, payment.CardLastFour, payment.CardholderName, payment.Status, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE reservations SET status = 'confirmed', updated_at = NOW()
		WHERE id = $1`, payment.ReservationID)
	if err != nil {
		return fmt.Errorf("failed to confirm reservation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SweepExpiredPendingPayments cancels every pending payment created at or
// before the cutoff, cascading to its reservation and any linked booking,
// and freeing rooms held by cancelled bookings. The whole sweep is one
// transaction: a partial failure rolls back the entire batch.
func (r *PaymentRepository) SweepExpiredPendingPayments(cutoff time.Time) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var reservationIDs []uuid.UUID
	err = tx.Select(&reservationIDs, `
		UPDATE pending_payments SET status = 'cancelled'
		WHERE status = 'pending' AND created_at <= $1
		RETURNING reservation_id`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel pending payments: %w", err)
	}
	if len(reservationIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`
		UPDATE reservations SET status = 'cancelled', updated_at = NOW()
		WHERE id IN (?)`, reservationIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to build reservation sweep query: %w", err)
	}
	if _, err = tx.Exec(tx.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to cancel reservations: %w", err)
	}

	// Cancel any bookings linked to the swept reservations and collect
	// the rooms they were holding.
	query, args, err = sqlx.In(`
		UPDATE bookings SET status = 'cancelled', updated_at = NOW()
		WHERE origin_reservation_id IN (?) AND status IN ('pending', 'confirmed')
		RETURNING room_id`, reservationIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to build booking sweep query: %w", err)
	}
	var roomIDs []uuid.UUID
	if err = tx.Select(&roomIDs, tx.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to cancel bookings: %w", err)
	}

	if len(roomIDs) > 0 {
		query, args, err = sqlx.In(`
			UPDATE rooms SET status = 'available', updated_at = NOW()
			WHERE id IN (?) AND status = 'occupied'`, roomIDs)
		if err != nil {
			return 0, fmt.Errorf("failed to build room release query: %w", err)
		}
		if _, err = tx.Exec(tx.Rebind(query), args...); err != nil {
			return 0, fmt.Errorf("failed to release rooms: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(reservationIDs), nil
}

// ListPaymentsByUser returns a user's completed payments, newest first.
func (r *PaymentRepository) ListPaymentsByUser(userID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Select(&payments, `
		SELECT id, user_id, reservation_id, group_booking_id, amount,
			payment_method, card_last_four, cardholder_name, status, created_at
		FROM payments WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
