// internal/models/registration.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration is one roster entry. For guest rows UserID is the inviter and GuestName is set.
type Registration struct {
	ID              uuid.UUID `json:"id"`
	GameID          uuid.UUID `json:"game_id"`
	UserID          uuid.UUID `json:"user_id"`
	GuestName       *string   `json:"guest_name,omitempty"`
	IsWaitlist      bool      `json:"is_waitlist"`
	Paid            bool      `json:"paid"`
	BringingTheBall bool      `json:"bringing_the_ball"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsGuest reports whether the entry represents an invited guest rather than the user.
func (r Registration) IsGuest() bool {
	return r.GuestName != nil
}

// Matches reports whether r is the entry identified by (userID, guestName).
// A nil guestName identifies the user's own registration.
func (r Registration) Matches(userID uuid.UUID, guestName *string) bool {
	if r.UserID != userID {
		return false
	}
	if guestName == nil || r.GuestName == nil {
		return guestName == nil && r.GuestName == nil
	}
	return *guestName == *r.GuestName
}
