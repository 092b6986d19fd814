// internal/models/game.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// PricingMode says how PaymentAmount is split between participants.
type PricingMode string

const (
	PricingPerPlayer PricingMode = "per_player"
	PricingTotal     PricingMode = "total"
)

// Game represents a row in the games table.
type Game struct {
	ID       uuid.UUID `json:"id"`
	DateTime time.Time `json:"date_time"`
	Location string    `json:"location,omitempty"`

	// MaxPlayers is the capacity of the active list. Lowering it never evicts anyone.
	MaxPlayers int `json:"max_players"`

	// UnregisterDeadlineHours is how long before DateTime active players may still leave.
	UnregisterDeadlineHours int `json:"unregister_deadline_hours"`

	// RegistrationWindowHours overrides the default registration window (0 => policy default).
	RegistrationWindowHours int `json:"registration_window_hours,omitempty"`

	// Readonly freezes registration and deregistration for non-admins.
	Readonly bool `json:"readonly"`

	WithPositions       bool       `json:"with_positions"`
	WithPriorityPlayers bool       `json:"with_priority_players"`
	AdministratorID     *uuid.UUID `json:"administrator_id,omitempty"`

	PaymentAmount int         `json:"payment_amount"`
	PricingMode   PricingMode `json:"pricing_mode"`

	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
