// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// HeartbeatInterval is the period between keepalive frames to every
	// subscriber connection.
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL" default:"30s"`

	// ReaperInterval is the period of the stale-connection sweep,
	// scheduled independently of the heartbeat.
	ReaperInterval time.Duration `env:"REAPER_INTERVAL" default:"5m"`

	// StaleThreshold is the maximum liveness age before a connection is
	// forcibly evicted. Invariant: must be at least HeartbeatInterval,
	// otherwise live connections would be reaped before their next
	// heartbeat refreshes them.
	StaleThreshold time.Duration `env:"STALE_THRESHOLD" default:"5m"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if cfg.HeartbeatInterval <= 0 {
		return errors.New("HEARTBEAT_INTERVAL must be positive")
	}
	if cfg.ReaperInterval <= 0 {
		return errors.New("REAPER_INTERVAL must be positive")
	}
	if cfg.StaleThreshold < cfg.HeartbeatInterval {
		return fmt.Errorf("STALE_THRESHOLD (%s) must be at least HEARTBEAT_INTERVAL (%s): live connections would be reaped before their next heartbeat",
			cfg.StaleThreshold, cfg.HeartbeatInterval)
	}
	return nil
}
