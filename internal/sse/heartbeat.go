package sse

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Ravishyamsingh/Drone-Service/internal/domain"
	"github.com/Ravishyamsingh/Drone-Service/internal/metrics"
)

// Heartbeat periodically writes a keepalive frame to every registered
// connection so intermediary proxies do not close idle streams. It is
// the primary detector for ungracefully closed connections: a failed
// heartbeat write removes the connection immediately rather than waiting
// for the reaper.
type Heartbeat struct {
	registry *Registry
	clock    clockwork.Clock
	interval time.Duration
}

func NewHeartbeat(registry *Registry, clock clockwork.Clock, interval time.Duration) *Heartbeat {
	return &Heartbeat{registry: registry, clock: clock, interval: interval}
}

// Run sends heartbeats on the configured period until ctx is cancelled.
func (h *Heartbeat) Run(ctx context.Context) {
	ticker := h.clock.NewTicker(h.interval)
	defer ticker.Stop()

	slog.Info("Heartbeat scheduler started", "interval", h.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Heartbeat scheduler stopped")
			return
		case <-ticker.Chan():
			h.pass()
		}
	}
}

// pass writes one heartbeat frame to every snapshot member. A panic in
// the pass body must never kill the schedule; a silently stopped
// heartbeat would leak connections.
func (h *Heartbeat) pass() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Heartbeat pass panic recovered", "panic", r)
			metrics.SSETaskPanicsTotal.WithLabelValues("heartbeat").Inc()
		}
	}()

	now := h.clock.Now()
	payload := domain.HeartbeatPayload{Timestamp: now.UTC().Format(time.RFC3339)}
	frame, err := encodeEventFrame(domain.EventHeartbeat, payload, now)
	if err != nil {
		slog.Error("Failed to encode heartbeat frame", "error", err)
		return
	}

	for _, m := range h.registry.Snapshot() {
		h.beat(m, frame)
	}
}

// beat writes one heartbeat to one member. A failing or panicking sink
// removes only that connection; the rest of the pass continues.
func (h *Heartbeat) beat(m Member, frame []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Heartbeat write panicked, removing subscriber",
				"connection_id", m.ID.String(),
				"panic", r,
			)
			metrics.SSETaskPanicsTotal.WithLabelValues("heartbeat").Inc()
			h.registry.Remove(m.ID)
		}
	}()

	if err := m.Sink.Write(frame); err != nil {
		slog.Debug("Heartbeat write failed, removing subscriber",
			"connection_id", m.ID.String(),
			"error", err,
		)
		metrics.SSEHeartbeatFailuresTotal.Inc()
		h.registry.Remove(m.ID)
		return
	}
	h.registry.Touch(m.ID)
	metrics.SSEHeartbeatsSentTotal.Inc()
}
