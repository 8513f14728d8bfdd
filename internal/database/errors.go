package database

import "errors"

var (
	// ErrNoRoomAvailable indicates no available room matched the requested
	// branch and room type.
	ErrNoRoomAvailable = errors.New("no available rooms of the requested type")

	// ErrNotPending indicates a conditional status transition found the row
	// in a different state than expected.
	ErrNotPending = errors.New("record is not in pending state")

	// ErrDuplicateRoom indicates a room number already exists in the branch.
	ErrDuplicateRoom = errors.New("room number already exists in this branch")
)
