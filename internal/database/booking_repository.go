package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// BookingRepository handles booking database operations
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, room_id, branch_id, origin_reservation_id,
		check_in_date, check_out_date, status, created_at, updated_at`

// CreateBooking inserts a direct walk-in booking against an already
// claimed room. Reservation-approved bookings are written by the approval
// transaction instead.
func (b *BookingRepository) CreateBooking(booking *models.Booking) error {
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	if booking.Status == "" {
		booking.Status = models.BookingConfirmed
	}

	_, err := b.db.Exec(`
		INSERT INTO bookings (id, user_id, room_id, branch_id, origin_reservation_id,
			check_in_date, check_out_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		booking.ID, booking.UserID, booking.RoomID, booking.BranchID, booking.OriginReservationID,
		booking.CheckInDate, booking.CheckOutDate, booking.Status, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// CreateWalkInBooking claims a room of the requested type and creates the
// booking in one transaction. Walk-in guests settle at the desk, so no
// billing row is opened here.
func (b *BookingRepository) CreateWalkInBooking(booking *models.Booking, roomTypeID uuid.UUID, roomRepo *RoomRepository) (*models.Room, error) {
	tx, err := b.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	room, err := roomRepo.AllocateRoomTx(tx, booking.BranchID, roomTypeID)
	if err != nil {
		return nil, err
	}

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

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return room, nil
}

// GetBookingByID retrieves a booking. Returns (nil, nil) when not found.
func (b *BookingRepository) GetBookingByID(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := b.db.Get(&booking, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// GetBookingByReservationID retrieves the booking created by a
// reservation's approval. Returns (nil, nil) when none exists.
func (b *BookingRepository) GetBookingByReservationID(reservationID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := b.db.Get(&booking, `
		SELECT `+bookingColumns+` FROM bookings WHERE origin_reservation_id = $1`, reservationID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// ListBookingsByBranch returns a branch's bookings, newest first.
func (b *BookingRepository) ListBookingsByBranch(branchID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := b.db.Select(&bookings, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE branch_id = $1 ORDER BY created_at DESC`, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// CancelBooking cancels an active booking and frees its room in one
// transaction.
func (b *BookingRepository) CancelBooking(id uuid.UUID, roomRepo *RoomRepository) error {
	tx, err := b.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var roomID uuid.UUID
	err = tx.Get(&roomID, `
		UPDATE bookings SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
		RETURNING room_id`, id)
	if err == sql.ErrNoRows {
		return ErrNotPending
	}
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if err := roomRepo.ReleaseRoomTx(tx, roomID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
