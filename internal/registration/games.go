// internal/registration/games.go
package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/roster"
	"github.com/smashclub/volley/internal/schedule"
)

// GamePatch holds the editable fields of a game. Nil fields are left unchanged.
type GamePatch struct {
	DateTime                *time.Time          `json:"date_time,omitempty"`
	Location                *string             `json:"location,omitempty"`
	MaxPlayers              *int                `json:"max_players,omitempty"`
	UnregisterDeadlineHours *int                `json:"unregister_deadline_hours,omitempty"`
	RegistrationWindowHours *int                `json:"registration_window_hours,omitempty"`
	Readonly                *bool               `json:"readonly,omitempty"`
	WithPositions           *bool               `json:"with_positions,omitempty"`
	WithPriorityPlayers     *bool               `json:"with_priority_players,omitempty"`
	PaymentAmount           *int                `json:"payment_amount,omitempty"`
	PricingMode             *models.PricingMode `json:"pricing_mode,omitempty"`
}

func (p GamePatch) apply(g models.Game) models.Game {
	if p.DateTime != nil {
		g.DateTime = *p.DateTime
	}
	if p.Location != nil {
		g.Location = *p.Location
	}
	if p.MaxPlayers != nil {
		g.MaxPlayers = *p.MaxPlayers
	}
	if p.UnregisterDeadlineHours != nil {
		g.UnregisterDeadlineHours = *p.UnregisterDeadlineHours
	}
	if p.RegistrationWindowHours != nil {
		g.RegistrationWindowHours = *p.RegistrationWindowHours
	}
	if p.Readonly != nil {
		g.Readonly = *p.Readonly
	}
	if p.WithPositions != nil {
		g.WithPositions = *p.WithPositions
	}
	if p.WithPriorityPlayers != nil {
		g.WithPriorityPlayers = *p.WithPriorityPlayers
	}
	if p.PaymentAmount != nil {
		g.PaymentAmount = *p.PaymentAmount
	}
	if p.PricingMode != nil {
		g.PricingMode = *p.PricingMode
	}
	return g
}

// ValidateGame checks the invariants of a game definition.
func ValidateGame(g models.Game) error {
	switch {
	case g.MaxPlayers < 1:
		return fmt.Errorf("%w: max_players must be at least 1", ErrInvalidGame)
	case g.UnregisterDeadlineHours < 0:
		return fmt.Errorf("%w: unregister_deadline_hours must not be negative", ErrInvalidGame)
	case g.RegistrationWindowHours < 0:
		return fmt.Errorf("%w: registration_window_hours must not be negative", ErrInvalidGame)
	case g.DateTime.IsZero():
		return fmt.Errorf("%w: date_time is required", ErrInvalidGame)
	case g.PaymentAmount < 0:
		return fmt.Errorf("%w: payment_amount must not be negative", ErrInvalidGame)
	}
	switch g.PricingMode {
	case "", models.PricingPerPlayer, models.PricingTotal:
	default:
		return fmt.Errorf("%w: unknown pricing_mode %q", ErrInvalidGame, g.PricingMode)
	}
	return nil
}

// CreateGame stores a new game on behalf of an admin.
func (s *Service) CreateGame(ctx context.Context, adminID uuid.UUID, g models.Game) (*models.Game, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if g.PricingMode == "" {
		g.PricingMode = models.PricingPerPlayer
	}
	if err := ValidateGame(g); err != nil {
		return nil, err
	}
	g.ID = uuid.New()
	g.CreatedBy = adminID
	g.CreatedAt = s.Now()
	if g.WithPriorityPlayers && g.AdministratorID == nil {
		g.AdministratorID = &adminID
	}
	if err := s.Store.CreateGame(ctx, &g); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	s.Logger.WithField("game", g.ID).Info("game created")
	return &g, nil
}

func (s *Service) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	return s.Store.GetGame(ctx, id)
}

// ListGames returns games starting at or after from, soonest first.
func (s *Service) ListGames(ctx context.Context, from time.Time) ([]models.Game, error) {
	return s.Store.ListGames(ctx, from)
}

// UpcomingGames lists games that have not started yet.
func (s *Service) UpcomingGames(ctx context.Context) ([]models.Game, error) {
	now := s.Now()
	games, err := s.Store.ListGames(ctx, now)
	if err != nil {
		return nil, err
	}
	upcoming := games[:0]
	for _, g := range games {
		if schedule.IsUpcoming(g, now) {
			upcoming = append(upcoming, g)
		}
	}
	return upcoming, nil
}

// EditGame applies patch. Raising the capacity promotes waitlisted entries into the new
// slots; lowering it leaves current active entries in place.
func (s *Service) EditGame(ctx context.Context, gameID, adminID uuid.UUID, patch GamePatch) (*models.Game, *Result, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, nil, err
	}
	var updated models.Game
	res, err := s.mutate(ctx, gameID, func(snap *Snapshot, _ *roster.Roster, _ time.Time) (*outcome, error) {
		if err := s.checkGuard(ctx, snap.Game); err != nil {
			return nil, err
		}
		updated = patch.apply(snap.Game)
		if err := ValidateGame(updated); err != nil {
			return nil, err
		}
		r := s.rosterFor(&Snapshot{Game: updated, Registrations: snap.Registrations, Assignments: snap.Assignments})
		promoted, delta := r.Fill()
		return &outcome{game: &updated, promoted: promoted, delta: delta, roster: r}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &updated, res, nil
}

// DeleteGame removes the game and, with it, every registration.
func (s *Service) DeleteGame(ctx context.Context, gameID, adminID uuid.UUID) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	g, err := s.Store.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if err := s.checkGuard(ctx, *g); err != nil {
		return err
	}
	if err := s.Store.DeleteGame(ctx, gameID); err != nil {
		return err
	}
	s.Logger.WithField("game", gameID).Info("game deleted")
	return nil
}
