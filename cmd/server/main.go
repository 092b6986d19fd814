// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/smashclub/volley/internal/auth"
	"github.com/smashclub/volley/internal/cache"
	"github.com/smashclub/volley/internal/config"
	"github.com/smashclub/volley/internal/database"
	"github.com/smashclub/volley/internal/feed"
	"github.com/smashclub/volley/internal/handlers"
	"github.com/smashclub/volley/internal/memstore"
	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/registration"
)

// devAdminID is stable so restarts against Postgres reuse the same row.
var devAdminID = uuid.MustParse("00000000-0000-4000-8000-000000000001")

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := cfg.Sessions()
	if err != nil {
		logger.Fatal(err)
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal(err)
	}

	svc, err := newService(ctx, cfg, logger, sessions)
	if err != nil {
		logger.Fatal(err)
	}
	svc.Policy = cfg.Policy()
	svc.Location = loc

	// without redis the roster lock lives in this process only
	locks := memstore.NewRosterLock()
	svc.Locks = locks
	svc.Guard = locks

	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatal(err)
		}
		defer rdb.Close()
		svc.Notifier = cache.NewQueue(rdb, cfg.NotifyQueue)
		rl := cache.NewRosterLock(rdb)
		svc.Locks = rl
		svc.Guard = rl
		logger.WithField("queue", cfg.NotifyQueue).Info("promotion notices go to redis")
	}

	hub := feed.NewHub(logger)
	svc.OnChange = hub.Publish

	api := handlers.NewAPI(svc, sessions, hub, logger)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("server shutdown")
		}
	}()

	logger.Infof("Running on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
}

// userStore is the backing store as the server sees it.
type userStore interface {
	registration.Store
	registration.Directory
	registration.AssignmentStore
	registration.Accounts
	UpsertUser(ctx context.Context, u *models.User) error
}

// newService picks Postgres when DATABASE_URL is set, else an in-memory store. Outside
// production a dev admin is upserted and its token logged.
func newService(ctx context.Context, cfg *config.Config, logger *logrus.Logger, sessions *auth.Sessions) (*registration.Service, error) {
	var store userStore
	if cfg.DatabaseURL != "" {
		pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store = database.NewStore(pool)
	} else {
		if cfg.IsProduction() {
			return nil, errors.New("DATABASE_URL is required in production")
		}
		logger.Warn("no DATABASE_URL, using the in-memory store")
		store = memstore.New()
	}

	if !cfg.IsProduction() {
		admin := &models.User{ID: devAdminID, DisplayName: "dev admin", IsAdmin: true}
		if err := store.UpsertUser(ctx, admin); err != nil {
			return nil, err
		}
		token, err := sessions.Create(admin.ID)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{"user": admin.ID, "token": token}).Info("dev admin ready")
	}
	svc := registration.NewService(store, store, logger)
	svc.Assignments = store
	svc.Accounts = store
	return svc, nil
}
