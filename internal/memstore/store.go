// internal/memstore/store.go
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/registration"
)

// Store keeps games, registrations, users and priority assignments in memory.
// A single mutex serializes roster transactions, which is the in-process analogue of
// the row lock the Postgres store takes.
type Store struct {
	mu            sync.Mutex
	games         map[uuid.UUID]models.Game
	registrations map[uuid.UUID][]models.Registration
	users         map[uuid.UUID]models.User
	assignments   []models.PriorityAssignment
}

func New() *Store {
	return &Store{
		games:         make(map[uuid.UUID]models.Game),
		registrations: make(map[uuid.UUID][]models.Registration),
		users:         make(map[uuid.UUID]models.User),
	}
}

func (s *Store) CreateGame(_ context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	s.games[g.ID] = *g
	return nil
}

func (s *Store) GetGame(_ context.Context, id uuid.UUID) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, registration.ErrGameNotFound
	}
	return &g, nil
}

func (s *Store) ListGames(_ context.Context, from time.Time) ([]models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Game
	for _, g := range s.games {
		if !g.DateTime.Before(from) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

// DeleteGame removes the game together with its registrations.
func (s *Store) DeleteGame(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return registration.ErrGameNotFound
	}
	delete(s.games, id)
	delete(s.registrations, id)
	return nil
}

func (s *Store) snapshotLocked(gameID uuid.UUID) (*registration.Snapshot, error) {
	g, ok := s.games[gameID]
	if !ok {
		return nil, registration.ErrGameNotFound
	}
	regs := make([]models.Registration, len(s.registrations[gameID]))
	copy(regs, s.registrations[gameID])

	var assignments []models.PriorityAssignment
	if g.AdministratorID != nil {
		for _, a := range s.assignments {
			if a.AdministratorID == *g.AdministratorID {
				assignments = append(assignments, a)
			}
		}
	}
	return &registration.Snapshot{Game: g, Registrations: regs, Assignments: assignments}, nil
}

func (s *Store) Snapshot(_ context.Context, gameID uuid.UUID) (*registration.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(gameID)
}

// WithRoster runs fn under the store lock and applies its change only if fn succeeds.
func (s *Store) WithRoster(ctx context.Context, gameID uuid.UUID, fn func(*registration.Snapshot) (*registration.Change, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshotLocked(gameID)
	if err != nil {
		return err
	}
	change, err := fn(snap)
	if err != nil {
		return err
	}
	if change == nil || (change.Game == nil && change.Roster.Empty()) {
		return nil
	}
	if change.Game != nil {
		s.games[gameID] = *change.Game
	}

	regs := s.registrations[gameID]
	for _, id := range change.Roster.Deleted {
		for i := range regs {
			if regs[i].ID == id {
				regs = append(regs[:i], regs[i+1:]...)
				break
			}
		}
	}
	for _, u := range change.Roster.Updated {
		for i := range regs {
			if regs[i].ID == u.ID {
				regs[i] = u
			}
		}
	}
	regs = append(regs, change.Roster.Inserted...)
	s.registrations[gameID] = regs
	return nil
}

// PutUser creates or replaces a user.
func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// UpsertUser matches the Postgres store's directory write.
func (s *Store) UpsertUser(_ context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.PutUser(*u)
	return nil
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, registration.ErrUserNotFound
	}
	return &u, nil
}

// SetBlocked toggles the blocked flag.
func (s *Store) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return registration.ErrUserNotFound
	}
	u.Blocked = blocked
	s.users[id] = u
	return nil
}

// AddAssignment records a priority assignment. Re-adding the same slot keeps the stored
// one and copies its id into a.
func (s *Store) AddAssignment(_ context.Context, a *models.PriorityAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.assignments {
		if cur.UserID == a.UserID && cur.AdministratorID == a.AdministratorID &&
			cur.DayOfWeek == a.DayOfWeek && cur.WithPositions == a.WithPositions {
			a.ID = cur.ID
			return nil
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.assignments = append(s.assignments, *a)
	return nil
}

// ListAssignments returns every priority assignment run by adminID.
func (s *Store) ListAssignments(_ context.Context, adminID uuid.UUID) ([]models.PriorityAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PriorityAssignment
	for _, a := range s.assignments {
		if a.AdministratorID == adminID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) RemoveAssignment(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.assignments {
		if a.ID == id {
			s.assignments = append(s.assignments[:i], s.assignments[i+1:]...)
			return nil
		}
	}
	return registration.ErrAssignmentNotFound
}

// Registrations returns a copy of a game's stored rows.
func (s *Store) Registrations(gameID uuid.UUID) []models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Registration, len(s.registrations[gameID]))
	copy(out, s.registrations[gameID])
	return out
}
