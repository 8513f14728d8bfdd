package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// RoomRepository handles room database operations
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// CreateRoom inserts a new room. Room numbers are unique within a branch.
func (r *RoomRepository) CreateRoom(room *models.Room) error {
	room.ID = uuid.New()
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}

	_, err := r.db.Exec(`
		INSERT INTO rooms (id, branch_id, room_number, room_type_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		room.ID, room.BranchID, room.RoomNumber, room.RoomTypeID, room.Status, room.CreatedAt, room.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateRoom
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetRoomByID retrieves a room. Returns (nil, nil) when not found.
func (r *RoomRepository) GetRoomByID(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.Get(&room, `
		SELECT id, branch_id, room_number, room_type_id, status, created_at, updated_at
		FROM rooms WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// ListRoomsByBranch returns all rooms of a branch ordered by room number.
func (r *RoomRepository) ListRoomsByBranch(branchID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Select(&rooms, `
		SELECT id, branch_id, room_number, room_type_id, status, created_at, updated_at
		FROM rooms WHERE branch_id = $1 ORDER BY room_number`, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// allocateRoomQuery claims one available room in a single statement.
// The inner select picks the lowest room number; SKIP LOCKED plus the
// status predicate on the update make the claim atomic, so two concurrent
// approvals can never take the same room.
const allocateRoomQuery = `
	UPDATE rooms SET status = 'occupied', updated_at = NOW()
	WHERE id = (
		SELECT id FROM rooms
		WHERE branch_id = $1 AND room_type_id = $2 AND status = 'available'
		ORDER BY room_number
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	)
	AND status = 'available'
	RETURNING id, branch_id, room_number, room_type_id, status, created_at, updated_at`

// AllocateRoomTx claims one available room of the given type within the
// branch as part of a larger transaction. Returns ErrNoRoomAvailable when
// nothing matched.
func (r *RoomRepository) AllocateRoomTx(tx *sqlx.Tx, branchID, roomTypeID uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := tx.Get(&room, allocateRoomQuery, branchID, roomTypeID)
	if err == sql.ErrNoRows {
		return nil, ErrNoRoomAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to allocate room: %w", err)
	}
	return &room, nil
}

// AllocateRoom claims one available room outside any caller transaction.
func (r *RoomRepository) AllocateRoom(branchID, roomTypeID uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.Get(&room, allocateRoomQuery, branchID, roomTypeID)
	if err == sql.ErrNoRows {
		return nil, ErrNoRoomAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to allocate room: %w", err)
	}
	return &room, nil
}

// ReleaseRoomTx frees an occupied room inside a transaction, used when a
// booking is cancelled. Freeing a room under maintenance is not allowed.
func (r *RoomRepository) ReleaseRoomTx(tx *sqlx.Tx, roomID uuid.UUID) error {
	result, err := tx.Exec(`
		UPDATE rooms SET status = 'available', updated_at = NOW()
		WHERE id = $1 AND status = 'occupied'`, roomID)
	if err != nil {
		return fmt.Errorf("failed to release room: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("room %s is not occupied", roomID)
	}
	return nil
}

// SetRoomStatus moves a room between available and maintenance. Occupied
// rooms are owned by their booking and cannot be toggled here.
func (r *RoomRepository) SetRoomStatus(roomID uuid.UUID, status models.RoomStatus) error {
	if status == models.RoomOccupied {
		return fmt.Errorf("occupied status is managed by bookings")
	}

	result, err := r.db.Exec(`
		UPDATE rooms SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status != 'occupied'`, roomID, status)
	if err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("room not found or currently occupied")
	}
	return nil
}
