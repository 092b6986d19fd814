package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smashclub/volley/internal/models"
)

func TestEventRoundTrip(t *testing.T) {
	name := "Pat"
	ev := models.PromotionEvent{
		GameID:         uuid.New(),
		RegistrationID: uuid.New(),
		UserID:         uuid.New(),
		GuestName:      &name,
		GameDateTime:   time.Date(2026, 6, 6, 18, 0, 0, 0, time.UTC),
		PromotedAt:     time.Date(2026, 6, 5, 9, 30, 0, 0, time.UTC),
	}
	data, err := EncodeEvent(ev)
	require.NoError(t, err)
	got, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, ev.RegistrationID, got.RegistrationID)
	require.NotNil(t, got.GuestName)
	assert.Equal(t, "Pat", *got.GuestName)
	assert.True(t, ev.PromotedAt.Equal(got.PromotedAt))
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	_, err := DecodeEvent([]byte("not json"))
	assert.Error(t, err)
	_, err = DecodeEvent([]byte(`{"user_id":"` + uuid.NewString() + `"}`))
	assert.Error(t, err)
}

// The following need a live Redis at REDIS_ADDR (default localhost:6379).
func connectOrSkip(t *testing.T) *Queue {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb, err := Connect(context.Background(), addr, 0)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	q := NewQueue(rdb, "volley_test_"+uuid.NewString())
	t.Cleanup(func() { rdb.Del(context.Background(), q.Name()) })
	return q
}

func TestQueuePushPop(t *testing.T) {
	q := connectOrSkip(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := models.PromotionEvent{GameID: uuid.New(), RegistrationID: uuid.New()}
	second := models.PromotionEvent{GameID: first.GameID, RegistrationID: uuid.New()}
	require.NoError(t, q.NotifyPromoted(ctx, first))
	require.NoError(t, q.NotifyPromoted(ctx, second))

	got, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, first.RegistrationID, got.RegistrationID)
	got, err = q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, second.RegistrationID, got.RegistrationID)

	got, err = q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRosterLock(t *testing.T) {
	q := connectOrSkip(t)
	ctx := context.Background()
	lock := NewRosterLock(q.rdb)
	g := models.Game{ID: uuid.New()}

	ok, err := lock.CanMutateRoster(ctx, g)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, lock.Lock(ctx, g.ID, time.Minute))
	ok, err = lock.CanMutateRoster(ctx, g)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock.Unlock(ctx, g.ID))
	ok, err = lock.CanMutateRoster(ctx, g)
	require.NoError(t, err)
	assert.True(t, ok)
}
