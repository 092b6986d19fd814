// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/smashclub/volley/internal/auth"
	"github.com/smashclub/volley/internal/schedule"
)

// Config is read from the environment; mains load .env first via godotenv/autoload.
type Config struct {
	// Env is one of dev/development, prod/production.
	Env      string `env:"APP_ENV" envDefault:"dev"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DatabaseURL selects Postgres; empty runs on the in-memory store.
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://db/migrations"`

	// RedisAddr enables the promotion queue and roster locks when set.
	RedisAddr   string `env:"REDIS_ADDR"`
	RedisDB     int    `env:"REDIS_DB" envDefault:"0"`
	NotifyQueue string `env:"NOTIFY_QUEUE" envDefault:"volley_promotions"`

	NotifierWorkers int           `env:"NOTIFIER_WORKERS" envDefault:"4"`
	NotifierPoll    time.Duration `env:"NOTIFIER_POLL" envDefault:"3s"`

	DefaultWindow time.Duration `env:"REGISTRATION_WINDOW" envDefault:"240h"`
	RegularWindow time.Duration `env:"REGULAR_WINDOW" envDefault:"72h"`
	GuestWindow   time.Duration `env:"GUEST_WINDOW" envDefault:"72h"`

	// Timezone is where a game's weekday is taken for priority assignments.
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`

	TokenExpireTime string `env:"TOKEN_EXPIRE_TIME" envDefault:"72h"`
	PrivateKeyPath  string `env:"JWT_PRIVATE_KEY_PATH"`
	PublicKeyPath   string `env:"JWT_PUBLIC_KEY_PATH"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the process configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if _, err := auth.ParseTTL(cfg.TokenExpireTime); err != nil {
		return nil, err
	}
	if (cfg.PrivateKeyPath == "") != (cfg.PublicKeyPath == "") {
		return nil, fmt.Errorf("JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set together")
	}
	if cfg.NotifierWorkers < 1 {
		return nil, fmt.Errorf("NOTIFIER_WORKERS must be at least 1, got %d", cfg.NotifierWorkers)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Policy is the registration time policy.
func (c *Config) Policy() schedule.Policy {
	return schedule.Policy{
		DefaultWindow: c.DefaultWindow,
		RegularWindow: c.RegularWindow,
		GuestWindow:   c.GuestWindow,
	}
}

// Sessions builds the session signer, from key files when configured.
func (c *Config) Sessions() (*auth.Sessions, error) {
	ttl, err := auth.ParseTTL(c.TokenExpireTime)
	if err != nil {
		return nil, err
	}
	if c.PrivateKeyPath != "" {
		return auth.LoadSessions(c.PrivateKeyPath, c.PublicKeyPath, ttl)
	}
	return auth.NewSessions(ttl)
}

// Logger builds the process logger. Production logs JSON.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if c.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
