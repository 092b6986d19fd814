package roster

import (
	"time"

	"github.com/google/uuid"
	"github.com/smashclub/volley/internal/models"
)

// Tier orders admission: priority entries ahead of regular ones, FIFO within a tier.
type Tier int

const (
	Priority Tier = iota
	Regular
)

// TierFunc classifies an entry. It is evaluated on every snapshot and never stored.
type TierFunc func(models.Registration) Tier

// FIFO puts every entry in the regular tier.
func FIFO(models.Registration) Tier {
	return Regular
}

// PriorityTiers returns a TierFunc that ranks the own registrations of the given users first.
// Guests are always regular.
func PriorityTiers(users map[uuid.UUID]bool) TierFunc {
	if len(users) == 0 {
		return FIFO
	}
	return func(r models.Registration) Tier {
		if !r.IsGuest() && users[r.UserID] {
			return Priority
		}
		return Regular
	}
}

// PriorityUsers collects the users whose assignments match g. It returns nil when the game
// does not run in priority mode.
func PriorityUsers(g models.Game, assignments []models.PriorityAssignment, loc *time.Location) map[uuid.UUID]bool {
	if !g.WithPriorityPlayers {
		return nil
	}
	users := make(map[uuid.UUID]bool)
	for _, a := range assignments {
		if a.Matches(g, loc) {
			users[a.UserID] = true
		}
	}
	return users
}
