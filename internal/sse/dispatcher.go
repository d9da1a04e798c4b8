package sse

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Ravishyamsingh/Drone-Service/internal/domain"
	"github.com/Ravishyamsingh/Drone-Service/internal/metrics"
)

// Dispatcher delivers events to registered subscribers, best-effort.
// Write failures are isolated per connection: the failing connection is
// removed from the registry and delivery to the rest continues. Errors
// never propagate to the caller, so a dying subscriber can never fail
// the mutation request that triggered the broadcast.
type Dispatcher struct {
	registry *Registry
	clock    clockwork.Clock
}

var _ domain.EventSink = (*Dispatcher)(nil)

func NewDispatcher(registry *Registry, clock clockwork.Clock) *Dispatcher {
	return &Dispatcher{registry: registry, clock: clock}
}

// Emit satisfies domain.EventSink; the mutation API fires exactly one
// Emit per committed create/update/delete.
func (d *Dispatcher) Emit(eventType domain.EventType, payload any) {
	d.Broadcast(eventType, payload)
}

// Broadcast writes one event to every connection registered at call
// time. With zero subscribers the event is silently discarded.
func (d *Dispatcher) Broadcast(eventType domain.EventType, payload any) {
	frame, err := encodeEventFrame(eventType, payload, d.clock.Now())
	if err != nil {
		slog.Error("Failed to encode broadcast frame", "event_type", eventType, "error", err)
		return
	}

	start := d.clock.Now()
	members := d.registry.Snapshot()
	for _, m := range members {
		d.write(m, eventType, frame)
	}

	metrics.SSEBroadcastEventsTotal.WithLabelValues(string(eventType)).Inc()
	metrics.SSEBroadcastDuration.Observe(d.clock.Since(start).Seconds())
	slog.Debug("Event broadcast", "event_type", eventType, "subscribers", len(members))
}

// SendTo delivers one event to a single connection; no-op if the id is
// not currently registered.
func (d *Dispatcher) SendTo(id uuid.UUID, eventType domain.EventType, payload any) {
	frame, err := encodeEventFrame(eventType, payload, d.clock.Now())
	if err != nil {
		slog.Error("Failed to encode frame", "event_type", eventType, "error", err)
		return
	}

	for _, m := range d.registry.Snapshot() {
		if m.ID == id {
			d.write(m, eventType, frame)
			return
		}
	}
}

// SendConnected acknowledges channel establishment to a freshly admitted
// subscriber. This one frame uses plain data: framing.
func (d *Dispatcher) SendConnected(id uuid.UUID) {
	payload := domain.ConnectedPayload{Message: "Connected to drone service live updates"}
	frame, err := encodeDataFrame(domain.EventConnected, payload, d.clock.Now())
	if err != nil {
		slog.Error("Failed to encode connected frame", "error", err)
		return
	}

	for _, m := range d.registry.Snapshot() {
		if m.ID == id {
			d.write(m, domain.EventConnected, frame)
			return
		}
	}
}

// write delivers one frame to one member. Failures, including panics
// from a broken sink, are isolated: the connection is removed and
// delivery to the remaining members continues.
func (d *Dispatcher) write(m Member, eventType domain.EventType, frame []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Broadcast write panicked, removing subscriber",
				"connection_id", m.ID.String(),
				"event_type", eventType,
				"panic", r,
			)
			d.registry.Remove(m.ID)
		}
	}()

	if err := m.Sink.Write(frame); err != nil {
		slog.Warn("Dropping subscriber after failed write",
			"connection_id", m.ID.String(),
			"event_type", eventType,
			"error", err,
		)
		metrics.SSEWriteFailuresTotal.Inc()
		d.registry.Remove(m.ID)
	}
}
