// Package metrics defines the Prometheus collectors shared across the
// application. All collectors are registered at init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SSE connection lifecycle metrics
var (
	// SSEConnectionsCurrent tracks the number of registered subscriber connections
	SSEConnectionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_current",
			Help: "Current number of registered SSE subscriber connections",
		},
	)

	// SSEConnectionsAdmittedTotal tracks total admitted subscriber connections
	SSEConnectionsAdmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_connections_admitted_total",
			Help: "Total SSE subscriber connections admitted",
		},
	)

	// SSEConnectionsReapedTotal tracks connections evicted by the stale reaper
	SSEConnectionsReapedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_connections_reaped_total",
			Help: "Total SSE connections evicted for exceeding the staleness threshold",
		},
	)
)

// Heartbeat and dispatch metrics
var (
	// SSEHeartbeatsSentTotal tracks successful heartbeat frames written
	SSEHeartbeatsSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_heartbeats_sent_total",
			Help: "Total heartbeat frames written successfully",
		},
	)

	// SSEHeartbeatFailuresTotal tracks heartbeat writes that failed (dead sink)
	SSEHeartbeatFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_heartbeat_failures_total",
			Help: "Total heartbeat writes that failed and removed the connection",
		},
	)

	// SSEBroadcastEventsTotal tracks broadcast events by event type
	SSEBroadcastEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sse_broadcast_events_total",
			Help: "Total events broadcast by event type",
		},
		[]string{"event_type"},
	)

	// SSEBroadcastDuration tracks time spent fanning one event out
	SSEBroadcastDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sse_broadcast_duration_seconds",
			Help:    "Duration of one broadcast fan-out in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25},
		},
	)

	// SSEWriteFailuresTotal tracks broadcast writes that failed mid-dispatch
	SSEWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_write_failures_total",
			Help: "Total broadcast writes that failed and removed the connection",
		},
	)

	// SSETaskPanicsTotal tracks panics recovered inside periodic task passes
	SSETaskPanicsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sse_task_panics_total",
			Help: "Total panics recovered in periodic tasks by task name",
		},
		[]string{"task"},
	)
)

// Database metrics
var (
	// DBQueryDuration tracks database query duration by query name
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBErrorsTotal tracks database errors by query name
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total database errors by query",
		},
		[]string{"query"},
	)
)

// Build Information Metrics
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, build_time, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "build_time", "go_version"},
	)
)
