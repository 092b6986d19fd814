package models

import (
	"time"

	"github.com/google/uuid"
)

// PriorityAssignment pins a user to a recurring slot run by one administrator.
type PriorityAssignment struct {
	ID              uuid.UUID    `json:"id"`
	UserID          uuid.UUID    `json:"user_id"`
	AdministratorID uuid.UUID    `json:"administrator_id"`
	DayOfWeek       time.Weekday `json:"day_of_week"`
	WithPositions   bool         `json:"with_positions"`
}

// Matches reports whether the assignment applies to g, with the weekday taken in loc.
func (p PriorityAssignment) Matches(g Game, loc *time.Location) bool {
	if !g.WithPriorityPlayers || g.AdministratorID == nil {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	return *g.AdministratorID == p.AdministratorID &&
		g.WithPositions == p.WithPositions &&
		g.DateTime.In(loc).Weekday() == p.DayOfWeek
}
