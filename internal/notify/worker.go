// internal/notify/worker.go
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/smashclub/volley/internal/models"
)

// Source yields queued promotion events. Pop returns (nil, nil) when nothing arrived
// within timeout.
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (*models.PromotionEvent, error)
}

// Dispatcher delivers one promotion notice to the promoted player.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev models.PromotionEvent) error
}

// LogDispatcher writes notices to the log. Chat delivery plugs in behind Dispatcher.
type LogDispatcher struct {
	Logger *logrus.Logger
}

func (d LogDispatcher) Dispatch(_ context.Context, ev models.PromotionEvent) error {
	fields := logrus.Fields{
		"game":         ev.GameID,
		"game_time":    ev.GameDateTime,
		"registration": ev.RegistrationID,
		"user":         ev.UserID,
		"promoted_at":  ev.PromotedAt,
	}
	if ev.GuestName != nil {
		fields["guest"] = *ev.GuestName
	}
	d.Logger.WithFields(fields).Info("you are in: promoted from the waitlist")
	return nil
}

// Worker drains a Source into a Dispatcher with bounded concurrency.
type Worker struct {
	Source     Source
	Dispatcher Dispatcher
	Logger     *logrus.Logger

	// Workers bounds concurrent dispatches.
	Workers int
	// Poll is the blocking pop timeout; it bounds how long shutdown waits on an idle queue.
	Poll time.Duration
}

// Run pops and dispatches until ctx is cancelled, then waits for in-flight dispatches.
func (w *Worker) Run(ctx context.Context) error {
	workers := w.Workers
	if workers < 1 {
		workers = 1
	}
	p := pool.New().WithMaxGoroutines(workers)
	defer p.Wait()

	for {
		if ctx.Err() != nil {
			return nil
		}
		ev, err := w.Source.Pop(ctx, w.Poll)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			w.Logger.WithError(err).Error("failed to pop promotion event")
			// back off so a dead Redis does not spin
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		if ev == nil {
			continue
		}
		event := *ev
		p.Go(func() {
			if err := w.Dispatcher.Dispatch(context.WithoutCancel(ctx), event); err != nil {
				w.Logger.WithError(err).WithField("registration", event.RegistrationID).Warn("failed to deliver promotion notice")
			}
		})
	}
}
