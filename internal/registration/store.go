// internal/registration/store.go
package registration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/roster"
)

// Snapshot is everything the lifecycle needs to decide one operation on a game.
type Snapshot struct {
	Game          models.Game
	Registrations []models.Registration

	// Assignments are the priority assignments of the game's administrator.
	Assignments []models.PriorityAssignment
}

// Change is what an operation asks the store to persist.
type Change struct {
	// Game, when set, replaces the game row.
	Game   *models.Game
	Roster roster.Delta
}

// Store persists games and rosters. WithRoster must serialize callers per game (row lock
// or equivalent), hand fn a fresh snapshot and write the returned Change in the same
// transaction. Nothing is written when fn fails. Missing games yield ErrGameNotFound.
type Store interface {
	CreateGame(ctx context.Context, g *models.Game) error
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	ListGames(ctx context.Context, from time.Time) ([]models.Game, error)
	DeleteGame(ctx context.Context, id uuid.UUID) error

	Snapshot(ctx context.Context, gameID uuid.UUID) (*Snapshot, error)
	WithRoster(ctx context.Context, gameID uuid.UUID, fn func(snap *Snapshot) (*Change, error)) error
}

// Directory resolves users. Unknown ids yield ErrUserNotFound.
type Directory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Notifier is told about promotions after the transaction commits. Failures are logged only.
type Notifier interface {
	NotifyPromoted(ctx context.Context, ev models.PromotionEvent) error
}

// Guard decides whether admin roster operations are allowed right now, e.g. while a
// payment request for the game is pending.
type Guard interface {
	CanMutateRoster(ctx context.Context, g models.Game) (bool, error)
}

// AssignmentStore manages the priority assignments of administrators. Adding an existing
// (user, administrator, weekday, positions) slot keeps the stored row and reports its id.
// Removing an unknown id yields ErrAssignmentNotFound.
type AssignmentStore interface {
	AddAssignment(ctx context.Context, a *models.PriorityAssignment) error
	ListAssignments(ctx context.Context, adminID uuid.UUID) ([]models.PriorityAssignment, error)
	RemoveAssignment(ctx context.Context, id uuid.UUID) error
}

// Accounts changes account flags. Unknown ids yield ErrUserNotFound.
type Accounts interface {
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
}

// Locker sets and clears the roster lock a Guard reads. A zero ttl holds until Unlock.
type Locker interface {
	Lock(ctx context.Context, gameID uuid.UUID, ttl time.Duration) error
	Unlock(ctx context.Context, gameID uuid.UUID) error
}

type allowAll struct{}

func (allowAll) CanMutateRoster(context.Context, models.Game) (bool, error) { return true, nil }

type discardNotifier struct{}

func (discardNotifier) NotifyPromoted(context.Context, models.PromotionEvent) error { return nil }
