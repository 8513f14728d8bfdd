package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// ReservationRepository handles reservation database operations, including
// the multi-table approval transaction.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, user_id, branch_id, room_type_id, check_in_date, check_out_date,
		occupants, number_of_rooms, discount_percentage, remaining_balance, status, created_at, updated_at`

// CreateReservation inserts a new pending reservation.
func (r *ReservationRepository) CreateReservation(res *models.Reservation) error {
	res.ID = uuid.New()
	res.Status = models.ReservationPending
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt

	_, err := r.db.Exec(`
		INSERT INTO reservations (id, user_id, branch_id, room_type_id, check_in_date, check_out_date,
			occupants, number_of_rooms, discount_percentage, remaining_balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		res.ID, res.UserID, res.BranchID, res.RoomTypeID, res.CheckInDate, res.CheckOutDate,
		res.Occupants, res.NumberOfRooms, res.DiscountPercentage, res.RemainingBalance,
		res.Status, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

// GetReservationByID retrieves a reservation. Returns (nil, nil) when not
// found.
func (r *ReservationRepository) GetReservationByID(id uuid.UUID) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.Get(&res, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &res, nil
}

// ListReservationsByBranch returns a branch's reservations filtered by
// status, newest first.
func (r *ReservationRepository) ListReservationsByBranch(branchID uuid.UUID, status models.ReservationStatus) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.Select(&reservations, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE branch_id = $1 AND status = $2
		ORDER BY created_at DESC`, branchID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// ListReservationsByUser returns a user's reservations, newest first.
func (r *ReservationRepository) ListReservationsByUser(userID uuid.UUID) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.Select(&reservations, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// CancelPendingReservation moves a still-pending reservation to cancelled.
// Returns ErrNotPending when the reservation already left the pending
// state; no room was ever allocated for a pending reservation, so there is
// nothing to release.
func (r *ReservationRepository) CancelPendingReservation(id uuid.UUID) error {
	result, err := r.db.Exec(`
		UPDATE reservations SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotPending
	}
	return nil
}

// ApproveReservation performs the approval write sequence in one
// transaction: claim a room, create the confirmed booking, open the base
// billing row, optionally issue the company invoice, and confirm the
// reservation. Any failure rolls the whole thing back and the reservation
// stays pending.
func (r *ReservationRepository) ApproveReservation(
	res *models.Reservation,
	roomRepo *RoomRepository,
	booking *models.Booking,
	billing *models.Billing,
	invoice *models.Invoice,
) (*models.Room, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Claim a room. The conditional update doubles as the availability
	// check, so a lost race surfaces as ErrNoRoomAvailable here.
	room, err := roomRepo.AllocateRoomTx(tx, res.BranchID, res.RoomTypeID)
	if err != nil {
		return nil, err
	}

	// 2. Create the confirmed booking against the claimed room.
	booking.ID = uuid.New()
	booking.RoomID = room.ID
	booking.Status = models.BookingConfirmed
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	_, err = tx.Exec(`
		INSERT INTO bookings (id, user_id, room_id, branch_id, origin_reservation_id,
			check_in_date, check_out_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		booking.ID, booking.UserID, booking.RoomID, booking.BranchID, booking.OriginReservationID,
		booking.CheckInDate, booking.CheckOutDate, booking.Status, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	// 3. Open the base billing row for the stay total.
	billing.ID = uuid.New()
	billing.CreatedAt = time.Now()

	_, err = tx.Exec(`
		INSERT INTO billings (id, reservation_id, user_id, service_type, additional_fee, remaining_balance, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		billing.ID, billing.ReservationID, billing.UserID, billing.ServiceType,
		billing.AdditionalFee, billing.RemainingBalance, billing.Status, billing.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create billing: %w", err)
	}

	// 4. Issue the net-30 invoice for travel-company reservations.
	if invoice != nil {
		invoice.ID = uuid.New()
		_, err = tx.Exec(`
			INSERT INTO invoices (id, company_id, amount, status, issued_at, due_date)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			invoice.ID, invoice.CompanyID, invoice.Amount, invoice.Status, invoice.IssuedAt, invoice.DueDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create invoice: %w", err)
		}
	}

	// 5. Confirm the reservation. The status predicate guards against a
	// concurrent transition on the same reservation.
	result, err := tx.Exec(`
		UPDATE reservations SET status = 'confirmed', remaining_balance = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`,
		res.ID, billing.RemainingBalance,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm reservation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrNotPending
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return room, nil
}

// SumRemainingBalancesByUser returns the total outstanding balance across
// a user's reservations. Absent rows count as zero.
func (r *ReservationRepository) SumRemainingBalancesByUser(userID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.Get(&total, `
		SELECT COALESCE(SUM(remaining_balance), 0)
		FROM reservations WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum remaining balances: %w", err)
	}
	return total, nil
}
