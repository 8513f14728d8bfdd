package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Branch is a physical hotel location within the chain.
type Branch struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomType defines a category of rooms and its nightly rate.
type RoomType struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	BasePrice float64   `db:"base_price" json:"base_price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RoomStatus represents the occupancy state of a room
// Matches PostgreSQL ENUM: room_status
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

// Room is a physical room inside a branch. room_number is unique within
// its branch.
type Room struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	BranchID   uuid.UUID  `db:"branch_id" json:"branch_id"`
	RoomNumber string     `db:"room_number" json:"room_number"`
	RoomTypeID uuid.UUID  `db:"room_type_id" json:"room_type_id"`
	Status     RoomStatus `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateBranchRequest is the admin payload for creating a branch.
type CreateBranchRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// Validate checks the branch payload
func (r *CreateBranchRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("branch name is required")
	}
	if strings.TrimSpace(r.Location) == "" {
		return fmt.Errorf("branch location is required")
	}
	return nil
}

// CreateRoomRequest is the admin payload for adding a room to a branch.
type CreateRoomRequest struct {
	RoomNumber string    `json:"room_number" binding:"required"`
	RoomTypeID uuid.UUID `json:"room_type_id" binding:"required"`
}

// Validate checks the room payload
func (r *CreateRoomRequest) Validate() error {
	if strings.TrimSpace(r.RoomNumber) == "" {
		return fmt.Errorf("room number is required")
	}
	if r.RoomTypeID == uuid.Nil {
		return fmt.Errorf("room type is required")
	}
	return nil
}

// CreateRoomTypeRequest is the admin payload for defining a room type.
type CreateRoomTypeRequest struct {
	Name      string  `json:"name" binding:"required"`
	BasePrice float64 `json:"base_price" binding:"required"`
}

// Validate checks the room type payload
func (r *CreateRoomTypeRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("room type name is required")
	}
	if r.BasePrice < 0 {
		return fmt.Errorf("base price cannot be negative")
	}
	return nil
}
