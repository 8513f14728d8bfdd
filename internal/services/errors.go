package services

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the acting user may not perform the operation,
	// such as a clerk working a reservation outside their branch.
	ErrForbidden = errors.New("operation not permitted for this user")

	// ErrNotPending indicates the reservation already left the pending
	// state and cannot be approved or rejected.
	ErrNotPending = errors.New("invalid or non-pending reservation")

	// ErrNoRoomAvailable indicates no room of the requested type is free;
	// the reservation stays pending.
	ErrNoRoomAvailable = errors.New("no available rooms of the requested type")
)

// CardValidationError carries the full list of card violations so callers
// can show every problem at once.
type CardValidationError struct {
	Violations []string
}

func (e *CardValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "invalid card details"
	}
	return e.Violations[0]
}
