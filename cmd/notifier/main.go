// cmd/notifier is an asynchronous worker that pops promotion events from a Redis queue
// and tells promoted players they are in.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/smashclub/volley/internal/cache"
	"github.com/smashclub/volley/internal/config"
	"github.com/smashclub/volley/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.Logger()
	if cfg.RedisAddr == "" {
		logger.Fatal("REDIS_ADDR is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal(err)
	}
	defer rdb.Close()

	queue := cache.NewQueue(rdb, cfg.NotifyQueue)
	w := &notify.Worker{
		Source:     queue,
		Dispatcher: notify.LogDispatcher{Logger: logger},
		Logger:     logger,
		Workers:    cfg.NotifierWorkers,
		Poll:       cfg.NotifierPoll,
	}

	logger.WithFields(logrus.Fields{"queue": queue.Name(), "workers": cfg.NotifierWorkers}).Info("volley-notifier started")
	if err := w.Run(ctx); err != nil {
		logger.Fatal(err)
	}
	logger.Info("volley-notifier shutdown complete")
}
