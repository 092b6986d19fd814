package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smashclub/volley/internal/models"
)

// chanSource serves events from a channel and cancels once drained.
type chanSource struct {
	events chan models.PromotionEvent
	errs   chan error
	done   func()
}

func (s *chanSource) Pop(ctx context.Context, timeout time.Duration) (*models.PromotionEvent, error) {
	select {
	case err := <-s.errs:
		return nil, err
	default:
	}
	select {
	case ev := <-s.events:
		return &ev, nil
	default:
		s.done()
		return nil, nil
	}
}

type recordingDispatcher struct {
	mu   sync.Mutex
	seen []uuid.UUID
	fail bool
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev models.PromotionEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = append(d.seen, ev.RegistrationID)
	if d.fail {
		return errors.New("chat unavailable")
	}
	return nil
}

func TestWorkerDispatchesEverything(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &chanSource{events: make(chan models.PromotionEvent, 10), errs: make(chan error, 1), done: cancel}
	var want []uuid.UUID
	for i := 0; i < 10; i++ {
		id := uuid.New()
		want = append(want, id)
		src.events <- models.PromotionEvent{GameID: uuid.New(), RegistrationID: id}
	}
	d := &recordingDispatcher{}
	w := &Worker{Source: src, Dispatcher: d, Logger: logger, Workers: 3, Poll: time.Millisecond}

	require.NoError(t, w.Run(ctx))
	assert.ElementsMatch(t, want, d.seen)
}

func TestWorkerLogsFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &chanSource{events: make(chan models.PromotionEvent, 1), errs: make(chan error, 1), done: cancel}
	src.events <- models.PromotionEvent{GameID: uuid.New(), RegistrationID: uuid.New()}
	w := &Worker{Source: src, Dispatcher: &recordingDispatcher{fail: true}, Logger: logger, Poll: time.Millisecond}

	require.NoError(t, w.Run(ctx))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "failed to deliver promotion notice", hook.LastEntry().Message)
}

func TestWorkerStopsOnCancelDuringBackoff(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())

	src := &chanSource{events: make(chan models.PromotionEvent), errs: make(chan error, 1), done: func() {}}
	src.errs <- errors.New("connection refused")
	w := &Worker{Source: src, Dispatcher: &recordingDispatcher{}, Logger: logger, Poll: time.Millisecond}

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	require.NoError(t, w.Run(ctx))
	assert.Equal(t, "failed to pop promotion event", hook.Entries[0].Message)
}

func TestLogDispatcher(t *testing.T) {
	logger, hook := test.NewNullLogger()
	name := "Pat"
	ev := models.PromotionEvent{GameID: uuid.New(), RegistrationID: uuid.New(), GuestName: &name}
	require.NoError(t, LogDispatcher{Logger: logger}.Dispatch(context.Background(), ev))
	assert.Equal(t, "Pat", hook.LastEntry().Data["guest"])
}
