package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smashclub/volley/internal/models"
)

// RosterLock is the in-process counterpart of cache.RosterLock, used when no Redis is
// configured. Expired locks are dropped lazily.
type RosterLock struct {
	mu    sync.Mutex
	until map[uuid.UUID]time.Time

	// Now is the clock. Tests replace it.
	Now func() time.Time
}

func NewRosterLock() *RosterLock {
	return &RosterLock{until: make(map[uuid.UUID]time.Time), Now: time.Now}
}

// CanMutateRoster reports whether no live lock is held for g.
func (l *RosterLock) CanMutateRoster(_ context.Context, g models.Game) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	until, ok := l.until[g.ID]
	if !ok {
		return true, nil
	}
	if !until.IsZero() && !l.Now().Before(until) {
		delete(l.until, g.ID)
		return true, nil
	}
	return false, nil
}

// Lock holds the roster lock for ttl. A zero ttl holds it until Unlock.
func (l *RosterLock) Lock(_ context.Context, gameID uuid.UUID, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var until time.Time
	if ttl > 0 {
		until = l.Now().Add(ttl)
	}
	l.until[gameID] = until
	return nil
}

func (l *RosterLock) Unlock(_ context.Context, gameID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.until, gameID)
	return nil
}
