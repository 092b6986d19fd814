// internal/registration/errors.go
package registration

import (
	"errors"
	"fmt"
	"time"

	"github.com/smashclub/volley/internal/roster"
)

// Terminal outcomes of lifecycle operations. Match them with errors.Is.
var (
	ErrGameNotFound             = errors.New("game not found")
	ErrRegistrationNotFound     = errors.New("registration not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrReadonlyGame             = errors.New("game is readonly")
	ErrUserBlocked              = errors.New("user is blocked")
	ErrRegistrationNotYetOpen   = errors.New("registration is not open yet")
	ErrAlreadyRegistered        = errors.New("already registered")
	ErrNotRegistered            = errors.New("not registered")
	ErrUnregisterDeadlinePassed = errors.New("unregister deadline has passed")
	ErrDuplicateGuestName       = errors.New("guest with this name is already registered")
	ErrInvalidGuestName         = errors.New("guest name must not be empty")
	ErrInvalidGame              = errors.New("invalid game")
	ErrNotAdmin                 = errors.New("admin rights required")
	ErrRosterLocked             = errors.New("roster is locked")
	ErrAssignmentNotFound       = errors.New("priority assignment not found")
	ErrInvalidAssignment        = errors.New("invalid priority assignment")
	ErrInvalidLock              = errors.New("invalid roster lock")
	ErrNotConfigured            = errors.New("not configured on this server")
	ErrCapacityExceeded         = roster.ErrCapacityExceeded
)

// CapacityError reports the active count and limit behind ErrCapacityExceeded.
type CapacityError = roster.CapacityError

// NotYetOpenError tells the caller when registration opens.
type NotYetOpenError struct {
	OpensAt time.Time
}

func (e *NotYetOpenError) Error() string {
	return fmt.Sprintf("registration opens at %s", e.OpensAt.Format(time.RFC3339))
}

func (e *NotYetOpenError) Unwrap() error {
	return ErrRegistrationNotYetOpen
}

// DeadlinePassedError carries the unregister deadline that was missed.
type DeadlinePassedError struct {
	Deadline time.Time
}

func (e *DeadlinePassedError) Error() string {
	return fmt.Sprintf("unregister deadline passed at %s", e.Deadline.Format(time.RFC3339))
}

func (e *DeadlinePassedError) Unwrap() error {
	return ErrUnregisterDeadlinePassed
}
