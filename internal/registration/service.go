// internal/registration/service.go
package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/roster"
	"github.com/smashclub/volley/internal/schedule"
)

const maxGuestNameLen = 64

// Service runs the registration lifecycle. Every mutation is decided on a fresh snapshot
// inside Store.WithRoster, so retrying after a conflict is always safe.
type Service struct {
	Store    Store
	Users    Directory
	Notifier Notifier
	Guard    Guard
	Policy   schedule.Policy
	Logger   *logrus.Logger

	// Assignments, Accounts and Locks back the admin maintenance operations. Each one
	// left nil makes its operations fail with ErrNotConfigured.
	Assignments AssignmentStore
	Accounts    Accounts
	Locks       Locker

	// Location is where a game's weekday is evaluated for priority assignments.
	Location *time.Location

	// Now is the clock. Tests replace it.
	Now func() time.Time

	// OnChange, if set, receives the roster after every committed mutation that changed it.
	OnChange func(view roster.View)
}

// NewService wires a Service with the default policy, no-op notifier and permissive guard.
func NewService(store Store, users Directory, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Store:    store,
		Users:    users,
		Notifier: discardNotifier{},
		Guard:    allowAll{},
		Policy:   schedule.DefaultPolicy(),
		Logger:   logger,
		Location: time.UTC,
		Now:      time.Now,
	}
}

// Result is returned by every mutating operation.
type Result struct {
	// Registration is the entry that was created, changed or removed.
	Registration models.Registration `json:"registration"`

	// Promoted lists waitlisted entries that took an active slot as a consequence.
	Promoted []models.Registration `json:"promoted,omitempty"`

	Roster roster.View `json:"roster"`
}

// outcome is what an operation body decides on a snapshot.
type outcome struct {
	reg      models.Registration
	promoted []models.Registration
	delta    roster.Delta
	game     *models.Game

	// roster replaces the snapshot roster for rendering when the game itself changed.
	roster *roster.Roster
}

type opFunc func(snap *Snapshot, r *roster.Roster, now time.Time) (*outcome, error)

func (s *Service) rosterFor(snap *Snapshot) *roster.Roster {
	users := roster.PriorityUsers(snap.Game, snap.Assignments, s.Location)
	return roster.New(snap.Game.MaxPlayers, snap.Registrations, roster.PriorityTiers(users))
}

// mutate runs op inside the store transaction, then fans out notifications.
func (s *Service) mutate(ctx context.Context, gameID uuid.UUID, op opFunc) (*Result, error) {
	var (
		res     Result
		game    models.Game
		changed bool
	)
	err := s.Store.WithRoster(ctx, gameID, func(snap *Snapshot) (*Change, error) {
		r := s.rosterFor(snap)
		out, err := op(snap, r, s.Now())
		if err != nil {
			return nil, err
		}
		game = snap.Game
		if out.game != nil {
			game = *out.game
		}
		if out.roster != nil {
			r = out.roster
		}
		res = Result{
			Registration: out.reg,
			Promoted:     out.promoted,
			Roster:       r.View(gameID),
		}
		if out.game == nil && out.delta.Empty() {
			return nil, nil
		}
		changed = true
		return &Change{Game: out.game, Roster: out.delta}, nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.afterCommit(ctx, game, &res)
	}
	return &res, nil
}

func (s *Service) afterCommit(ctx context.Context, g models.Game, res *Result) {
	now := s.Now()
	for _, p := range res.Promoted {
		ev := models.PromotionEvent{
			GameID:         g.ID,
			RegistrationID: p.ID,
			UserID:         p.UserID,
			GuestName:      p.GuestName,
			GameDateTime:   g.DateTime,
			PromotedAt:     now,
		}
		s.Logger.WithFields(logrus.Fields{
			"game":         g.ID,
			"registration": p.ID,
			"user":         p.UserID,
		}).Info("promoted from waitlist")
		if err := s.Notifier.NotifyPromoted(ctx, ev); err != nil {
			s.Logger.WithError(err).WithField("registration", p.ID).Warn("failed to queue promotion notice")
		}
	}
	if s.OnChange != nil {
		s.OnChange(res.Roster)
	}
}

func (s *Service) newRegistration(gameID, userID uuid.UUID, guestName *string, now time.Time) models.Registration {
	return models.Registration{
		ID:        uuid.New(),
		GameID:    gameID,
		UserID:    userID,
		GuestName: guestName,
		CreatedAt: now,
	}
}

func (s *Service) user(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.Users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup user %s: %w", id, err)
	}
	return u, nil
}

func (s *Service) requireAdmin(ctx context.Context, id uuid.UUID) error {
	u, err := s.user(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsAdmin {
		return ErrNotAdmin
	}
	return nil
}

func (s *Service) checkGuard(ctx context.Context, g models.Game) error {
	ok, err := s.Guard.CanMutateRoster(ctx, g)
	if err != nil {
		return fmt.Errorf("roster guard: %w", err)
	}
	if !ok {
		return ErrRosterLocked
	}
	return nil
}

// NormalizeGuestName trims the name and validates it.
func NormalizeGuestName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxGuestNameLen {
		return "", ErrInvalidGuestName
	}
	return name, nil
}

func normalizeOptionalGuest(name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	n, err := NormalizeGuestName(*name)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// View returns the current roster of a game.
func (s *Service) View(ctx context.Context, gameID uuid.UUID) (roster.View, error) {
	snap, err := s.Store.Snapshot(ctx, gameID)
	if err != nil {
		return roster.View{}, err
	}
	return s.rosterFor(snap).View(gameID), nil
}

// Join registers the user for the game, active when a slot is free, else waitlisted.
func (s *Service) Join(ctx context.Context, gameID, userID uuid.UUID) (*Result, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(snap *Snapshot, r *roster.Roster, now time.Time) (*outcome, error) {
		g := snap.Game
		if g.Readonly {
			return nil, ErrReadonlyGame
		}
		if u.Blocked {
			return nil, ErrUserBlocked
		}
		isPriority := r.TierOf(models.Registration{UserID: userID}) == roster.Priority
		if !s.Policy.CanJoin(g, now, isPriority) {
			return nil, &NotYetOpenError{OpensAt: s.Policy.RegistrationOpensAt(g, isPriority)}
		}
		if _, ok := r.Find(userID, nil); ok {
			return nil, ErrAlreadyRegistered
		}
		reg, delta := r.Admit(s.newRegistration(g.ID, userID, nil, now))
		return &outcome{reg: reg, delta: delta}, nil
	})
}

// Leave withdraws the user's own registration.
func (s *Service) Leave(ctx context.Context, gameID, userID uuid.UUID) (*Result, error) {
	return s.mutate(ctx, gameID, s.leaveOp(userID, nil))
}

// JoinGuest registers a guest invited by userID.
func (s *Service) JoinGuest(ctx context.Context, gameID, userID uuid.UUID, guestName string) (*Result, error) {
	name, err := NormalizeGuestName(guestName)
	if err != nil {
		return nil, err
	}
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(snap *Snapshot, r *roster.Roster, now time.Time) (*outcome, error) {
		g := snap.Game
		if g.Readonly {
			return nil, ErrReadonlyGame
		}
		if u.Blocked {
			return nil, ErrUserBlocked
		}
		if !s.Policy.CanRegisterGuest(g, now) {
			return nil, &NotYetOpenError{OpensAt: s.Policy.GuestRegistrationOpensAt(g)}
		}
		if _, ok := r.Find(userID, &name); ok {
			return nil, ErrDuplicateGuestName
		}
		reg, delta := r.Admit(s.newRegistration(g.ID, userID, &name, now))
		return &outcome{reg: reg, delta: delta}, nil
	})
}

// LeaveGuest withdraws a guest invited by userID.
func (s *Service) LeaveGuest(ctx context.Context, gameID, userID uuid.UUID, guestName string) (*Result, error) {
	name, err := NormalizeGuestName(guestName)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, s.leaveOp(userID, &name))
}

func (s *Service) leaveOp(userID uuid.UUID, guestName *string) opFunc {
	return func(snap *Snapshot, r *roster.Roster, now time.Time) (*outcome, error) {
		g := snap.Game
		if g.Readonly {
			return nil, ErrReadonlyGame
		}
		existing, ok := r.Find(userID, guestName)
		if !ok {
			return nil, ErrNotRegistered
		}
		if !schedule.CanLeave(g, existing, now) {
			return nil, &DeadlinePassedError{Deadline: schedule.UnregisterDeadline(g)}
		}
		return release(r, existing)
	}
}

func release(r *roster.Roster, existing models.Registration) (*outcome, error) {
	delta, promoted, err := r.Release(existing.ID)
	if err != nil {
		return nil, err
	}
	out := &outcome{reg: existing, delta: delta}
	if promoted != nil {
		out.promoted = []models.Registration{*promoted}
	}
	return out, nil
}

// SetBringingBall flips the informational ball flag on the user's own registration.
func (s *Service) SetBringingBall(ctx context.Context, gameID, userID uuid.UUID, bringing bool) (*Result, error) {
	return s.mutate(ctx, gameID, func(snap *Snapshot, r *roster.Roster, _ time.Time) (*outcome, error) {
		if snap.Game.Readonly {
			return nil, ErrReadonlyGame
		}
		existing, ok := r.Find(userID, nil)
		if !ok {
			return nil, ErrNotRegistered
		}
		existing.BringingTheBall = bringing
		reg, delta, err := r.Update(existing)
		if err != nil {
			return nil, err
		}
		return &outcome{reg: reg, delta: delta}, nil
	})
}
