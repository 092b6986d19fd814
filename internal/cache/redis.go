// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/smashclub/volley/internal/models"
)

// DefaultQueueName is the Redis list promotion notices are pushed to.
const DefaultQueueName = "volley_promotions"

const rosterLockPrefix = "roster_lock:"

// Connect opens a Redis client and pings it.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Queue is a FIFO of promotion events backed by a Redis list.
type Queue struct {
	rdb  *redis.Client
	name string
}

// NewQueue returns a queue on the named list, or DefaultQueueName when name is empty.
func NewQueue(rdb *redis.Client, name string) *Queue {
	if name == "" {
		name = DefaultQueueName
	}
	return &Queue{rdb: rdb, name: name}
}

// Name is the Redis key of the list.
func (q *Queue) Name() string { return q.name }

// NotifyPromoted serializes ev and pushes it to the tail of the queue.
func (q *Queue) NotifyPromoted(ctx context.Context, ev models.PromotionEvent) error {
	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	if err := q.rdb.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", q.name, err)
	}
	return nil
}

// Pop blocks up to timeout for the next event. It returns (nil, nil) when the wait times out.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*models.PromotionEvent, error) {
	res, err := q.rdb.BLPop(ctx, timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// res[0] is the list name, res[1] the payload.
	if len(res) < 2 {
		return nil, nil
	}
	return DecodeEvent([]byte(res[1]))
}

// EncodeEvent is the wire form of a promotion event on the queue.
func EncodeEvent(ev models.PromotionEvent) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PromotionEvent: %w", err)
	}
	return data, nil
}

// DecodeEvent parses a queue payload.
func DecodeEvent(data []byte) (*models.PromotionEvent, error) {
	var ev models.PromotionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("invalid promotion event: %w", err)
	}
	if ev.GameID == uuid.Nil || ev.RegistrationID == uuid.Nil {
		return nil, fmt.Errorf("invalid promotion event: missing ids")
	}
	return &ev, nil
}

// RosterLock freezes a game's roster against admin edits while a key
// roster_lock:{gameID} exists, e.g. during payment reconciliation.
type RosterLock struct {
	rdb *redis.Client
}

func NewRosterLock(rdb *redis.Client) *RosterLock {
	return &RosterLock{rdb: rdb}
}

func rosterLockKey(gameID uuid.UUID) string {
	return rosterLockPrefix + gameID.String()
}

// CanMutateRoster reports whether no lock is held for g.
func (l *RosterLock) CanMutateRoster(ctx context.Context, g models.Game) (bool, error) {
	n, err := l.rdb.Exists(ctx, rosterLockKey(g.ID)).Result()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Lock holds the roster lock for ttl. A zero ttl holds it until Unlock.
func (l *RosterLock) Lock(ctx context.Context, gameID uuid.UUID, ttl time.Duration) error {
	return l.rdb.Set(ctx, rosterLockKey(gameID), time.Now().Unix(), ttl).Err()
}

// Unlock releases the roster lock.
func (l *RosterLock) Unlock(ctx context.Context, gameID uuid.UUID) error {
	return l.rdb.Del(ctx, rosterLockKey(gameID)).Err()
}
