package sse

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Ravishyamsingh/Drone-Service/internal/metrics"
)

// Registry is the authoritative set of admitted subscriber connections.
// Admission, removal, touch, and snapshot are all safe to call
// concurrently from the HTTP accept path, the heartbeat, the reaper, and
// the dispatcher. No capacity limit is enforced; backpressure on
// subscriber count is an explicit non-goal.
type Registry struct {
	clock clockwork.Clock

	mu    sync.Mutex
	conns map[uuid.UUID]*entry
}

type entry struct {
	sink     Sink
	lastSeen time.Time
}

// Member is a point-in-time view of one registered connection, safe to
// use outside the registry lock.
type Member struct {
	ID       uuid.UUID
	Sink     Sink
	LastSeen time.Time
}

// Stats is the introspection surface computed from the registry at call
// time. A connection counts as stale once its liveness age exceeds the
// threshold passed to Stats.
type Stats struct {
	Total  int `json:"total_connections"`
	Active int `json:"active_connections"`
	Stale  int `json:"stale_connections"`
}

func NewRegistry(clock clockwork.Clock) *Registry {
	return &Registry{
		clock: clock,
		conns: make(map[uuid.UUID]*entry),
	}
}

// Admit registers sink under a fresh unique id with liveness set to now.
// Admission always succeeds once the transport handshake is done.
func (r *Registry) Admit(sink Sink) Member {
	id := uuid.New()
	now := r.clock.Now()

	r.mu.Lock()
	r.conns[id] = &entry{sink: sink, lastSeen: now}
	total := len(r.conns)
	r.mu.Unlock()

	metrics.SSEConnectionsAdmittedTotal.Inc()
	metrics.SSEConnectionsCurrent.Set(float64(total))
	slog.Debug("Subscriber admitted", "connection_id", id.String(), "total_connections", total)

	return Member{ID: id, Sink: sink, LastSeen: now}
}

// Remove evicts id and closes its sink, best-effort. Removing an absent
// id is a no-op; calling Remove twice has the same effect as once.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	e, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
	}
	total := len(r.conns)
	r.mu.Unlock()

	if !ok {
		return
	}

	closeSink(id, e.sink)
	metrics.SSEConnectionsCurrent.Set(float64(total))
	slog.Debug("Subscriber removed", "connection_id", id.String(), "total_connections", total)
}

// Touch refreshes the liveness timestamp for id; no-op if absent.
func (r *Registry) Touch(id uuid.UUID) {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.conns[id]; ok {
		e.lastSeen = now
	}
}

// Snapshot copies the current membership out under the lock so callers
// can iterate and write without blocking admission.
func (r *Registry) Snapshot() []Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := make([]Member, 0, len(r.conns))
	for id, e := range r.conns {
		members = append(members, Member{ID: id, Sink: e.sink, LastSeen: e.lastSeen})
	}
	return members
}

// Len returns the number of currently registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Stats computes the introspection counters, classifying connections
// older than staleAfter as stale.
func (r *Registry) Stats(staleAfter time.Duration) Stats {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{Total: len(r.conns)}
	for _, e := range r.conns {
		if now.Sub(e.lastSeen) > staleAfter {
			stats.Stale++
		} else {
			stats.Active++
		}
	}
	return stats
}

// Close evicts every connection. Used at process shutdown.
func (r *Registry) Close() {
	for _, m := range r.Snapshot() {
		r.Remove(m.ID)
	}
}

// closeSink closes best-effort; a panicking sink must not take down the
// caller (heartbeat, reaper, or dispatcher).
func closeSink(id uuid.UUID, sink Sink) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Debug("Sink close panicked", "connection_id", id.String(), "panic", rec)
		}
	}()
	_ = sink.Close()
}
