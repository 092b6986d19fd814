package roster

import (
	"github.com/google/uuid"
	"github.com/smashclub/volley/internal/models"
)

// Entry is a registration with its 1-based list position.
type Entry struct {
	models.Registration
	Position int  `json:"position"`
	Priority bool `json:"priority"`
}

// View is the rendered roster: both lists with stable positions.
type View struct {
	GameID     uuid.UUID `json:"game_id"`
	MaxPlayers int       `json:"max_players"`
	Active     []Entry   `json:"active"`
	Waitlist   []Entry   `json:"waitlist"`
}

// View renders the roster for gameID.
func (r *Roster) View(gameID uuid.UUID) View {
	return View{
		GameID:     gameID,
		MaxPlayers: r.MaxPlayers,
		Active:     r.positions(r.Active()),
		Waitlist:   r.positions(r.Waitlist()),
	}
}

func (r *Roster) positions(regs []models.Registration) []Entry {
	out := make([]Entry, len(regs))
	for i, reg := range regs {
		out[i] = Entry{Registration: reg, Position: i + 1, Priority: r.tier(reg) == Priority}
	}
	return out
}

// Position returns the 1-based position of the entry in its list, or 0 if absent.
func (v View) Position(id uuid.UUID) (pos int, waitlist bool) {
	for _, e := range v.Active {
		if e.ID == id {
			return e.Position, false
		}
	}
	for _, e := range v.Waitlist {
		if e.ID == id {
			return e.Position, true
		}
	}
	return 0, false
}
