package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrEntryNotFound is returned when an operation names an entry absent from the roster.
	ErrEntryNotFound = errors.New("registration not found in roster")

	// ErrCapacityExceeded is the sentinel wrapped by CapacityError.
	ErrCapacityExceeded = errors.New("active list is full")
)

// CapacityError carries the numbers behind a rejected move into the active list.
type CapacityError struct {
	MaxPlayers int
	Active     int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("active list is full (%d/%d)", e.Active, e.MaxPlayers)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
