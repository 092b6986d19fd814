package models

import (
	"time"

	"github.com/google/uuid"
)

// PromotionEvent is queued whenever a waitlisted entry takes an active slot.
type PromotionEvent struct {
	GameID         uuid.UUID `json:"game_id"`
	RegistrationID uuid.UUID `json:"registration_id"`
	UserID         uuid.UUID `json:"user_id"`
	GuestName      *string   `json:"guest_name,omitempty"`
	GameDateTime   time.Time `json:"game_date_time"`
	PromotedAt     time.Time `json:"promoted_at"`
}
