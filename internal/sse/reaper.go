package sse

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Ravishyamsingh/Drone-Service/internal/metrics"
)

// Reaper is the backstop behind heartbeat failure detection: it evicts
// connections whose liveness timestamp has not been refreshed within the
// staleness threshold, covering close events that never reached the
// process. The threshold must be at least the heartbeat interval or live
// connections get reaped between heartbeats; config.Load enforces that
// invariant.
type Reaper struct {
	registry  *Registry
	clock     clockwork.Clock
	interval  time.Duration
	threshold time.Duration
}

func NewReaper(registry *Registry, clock clockwork.Clock, interval, threshold time.Duration) *Reaper {
	return &Reaper{registry: registry, clock: clock, interval: interval, threshold: threshold}
}

// Run sweeps the registry on the configured period until ctx is
// cancelled. The schedule is independent of the heartbeat's.
func (r *Reaper) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("Stale-connection reaper started", "interval", r.interval, "threshold", r.threshold)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stale-connection reaper stopped")
			return
		case <-ticker.Chan():
			r.sweep()
		}
	}
}

// sweep evicts every connection older than the staleness threshold.
// Panic-guarded for the same reason as Heartbeat.pass.
func (r *Reaper) sweep() {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Reaper sweep panic recovered", "panic", rec)
			metrics.SSETaskPanicsTotal.WithLabelValues("reaper").Inc()
		}
	}()

	now := r.clock.Now()
	for _, m := range r.registry.Snapshot() {
		idle := now.Sub(m.LastSeen)
		if idle <= r.threshold {
			continue
		}
		slog.Info("Reaping stale subscriber",
			"connection_id", m.ID.String(),
			"idle", idle,
			"threshold", r.threshold,
		)
		metrics.SSEConnectionsReapedTotal.Inc()
		r.registry.Remove(m.ID)
	}
}
