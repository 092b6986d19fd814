// internal/feed/hub.go
package feed

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smashclub/volley/internal/roster"
)

// DefaultBuffer is the per-subscriber channel size.
const DefaultBuffer = 8

// Subscriber is one live listener on a game's roster.
type Subscriber struct {
	ID      uuid.UUID
	GameID  uuid.UUID
	OutChan chan roster.View
}

// Hub fans roster views out to the subscribers of each game.
type Hub struct {
	mu     sync.Mutex
	games  map[uuid.UUID]map[uuid.UUID]*Subscriber
	buffer int
	logger *logrus.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		games:  make(map[uuid.UUID]map[uuid.UUID]*Subscriber),
		buffer: DefaultBuffer,
		logger: logger,
	}
}

// Subscribe registers a listener on gameID.
func (h *Hub) Subscribe(gameID uuid.UUID) *Subscriber {
	sub := &Subscriber{
		ID:      uuid.New(),
		GameID:  gameID,
		OutChan: make(chan roster.View, h.buffer),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.games[gameID]
	if !ok {
		subs = make(map[uuid.UUID]*Subscriber)
		h.games[gameID] = subs
	}
	subs[sub.ID] = sub
	return sub
}

// Unsubscribe removes sub and closes its channel. Calling it twice is harmless.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.games[sub.GameID]
	if !ok {
		return
	}
	if _, ok := subs[sub.ID]; !ok {
		return
	}
	delete(subs, sub.ID)
	close(sub.OutChan)
	if len(subs) == 0 {
		delete(h.games, sub.GameID)
	}
}

// Count returns the number of listeners on gameID.
func (h *Hub) Count(gameID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.games[gameID])
}

// Publish delivers view to every subscriber of its game. A subscriber whose buffer is
// full misses the update; the next one carries the whole roster anyway.
func (h *Hub) Publish(view roster.View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.games[view.GameID] {
		select {
		case sub.OutChan <- view:
		default:
			h.logger.WithFields(logrus.Fields{
				"game":       view.GameID,
				"subscriber": sub.ID,
			}).Warn("roster feed buffer full, dropped update")
		}
	}
}
