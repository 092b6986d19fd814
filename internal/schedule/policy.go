// internal/schedule/policy.go
package schedule

import (
	"time"

	"github.com/smashclub/volley/internal/models"
)

// Policy holds the registration windows, measured back from a game's start time.
type Policy struct {
	// DefaultWindow applies to everyone in ordinary games and to priority players.
	DefaultWindow time.Duration

	// RegularWindow applies to players without a matching assignment in priority games.
	RegularWindow time.Duration

	// GuestWindow applies to guest invitations regardless of priority status.
	GuestWindow time.Duration
}

// DefaultPolicy opens registration ten days ahead, three for regulars and guests.
func DefaultPolicy() Policy {
	return Policy{
		DefaultWindow: 10 * 24 * time.Hour,
		RegularWindow: 3 * 24 * time.Hour,
		GuestWindow:   3 * 24 * time.Hour,
	}
}

// IsUpcoming reports whether the game has not started yet.
func IsUpcoming(g models.Game, now time.Time) bool {
	return !IsPast(g, now)
}

// IsPast reports whether the game start time has been reached.
func IsPast(g models.Game, now time.Time) bool {
	return !now.Before(g.DateTime)
}

func (p Policy) defaultWindow(g models.Game) time.Duration {
	if g.RegistrationWindowHours > 0 {
		return time.Duration(g.RegistrationWindowHours) * time.Hour
	}
	return p.DefaultWindow
}

// RegistrationOpensAt returns when a player may first join g.
func (p Policy) RegistrationOpensAt(g models.Game, isPriority bool) time.Time {
	if g.WithPriorityPlayers && !isPriority {
		return g.DateTime.Add(-p.RegularWindow)
	}
	return g.DateTime.Add(-p.defaultWindow(g))
}

func (p Policy) CanJoin(g models.Game, now time.Time, isPriority bool) bool {
	return !now.Before(p.RegistrationOpensAt(g, isPriority))
}

// GuestRegistrationOpensAt returns when guests may first be invited to g.
func (p Policy) GuestRegistrationOpensAt(g models.Game) time.Time {
	return g.DateTime.Add(-p.GuestWindow)
}

func (p Policy) CanRegisterGuest(g models.Game, now time.Time) bool {
	return !now.Before(p.GuestRegistrationOpensAt(g))
}

// UnregisterDeadline is the last instant an active player may leave g.
func UnregisterDeadline(g models.Game) time.Time {
	return g.DateTime.Add(-time.Duration(g.UnregisterDeadlineHours) * time.Hour)
}

// CanLeave reports whether reg may be withdrawn at now. Waitlisted entries may always leave.
func CanLeave(g models.Game, reg models.Registration, now time.Time) bool {
	if reg.IsWaitlist {
		return true
	}
	return !now.After(UnregisterDeadline(g))
}
