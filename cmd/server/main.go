package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/Ravishyamsingh/Drone-Service/internal/config"
	"github.com/Ravishyamsingh/Drone-Service/internal/database"
	"github.com/Ravishyamsingh/Drone-Service/internal/logging"
	"github.com/Ravishyamsingh/Drone-Service/internal/metrics"
	"github.com/Ravishyamsingh/Drone-Service/internal/server"
	"github.com/Ravishyamsingh/Drone-Service/internal/sse"
	"github.com/Ravishyamsingh/Drone-Service/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func runGracefulShutdown(srv *server.Server, registry *sse.Registry, stopTasks context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		stopTasks()
		registry.Close()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	info := version.Get()
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.BuildTime, runtime.Version()).Set(1)

	pool := setupDB(cfg)
	defer pool.Close()

	registry := sse.NewRegistry(clock)
	dispatcher := sse.NewDispatcher(registry, clock)
	heartbeat := sse.NewHeartbeat(registry, clock, cfg.HeartbeatInterval)
	reaper := sse.NewReaper(registry, clock, cfg.ReaperInterval, cfg.StaleThreshold)

	taskCtx, stopTasks := context.WithCancel(context.Background())
	defer stopTasks()
	go heartbeat.Run(taskCtx)
	go reaper.Run(taskCtx)

	requestRepo := database.NewRequestRepo(pool)

	srv := server.NewServer(cfg, requestRepo, registry, dispatcher, pool)

	done := runGracefulShutdown(srv, registry, stopTasks)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
