package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ravishyamsingh/Drone-Service/internal/sse"
)

func TestEventStream_AdmitsAndAcknowledges(t *testing.T) {
	srv, _, registry := newTestServer(&fakeRepo{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.echo.ServeHTTP(rec, req)
	}()

	require.Eventually(t, func() bool {
		return registry.Len() == 1
	}, time.Second, 5*time.Millisecond, "subscriber should be admitted")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after client disconnect")
	}

	assert.Equal(t, 0, registry.Len(), "disconnect must evict the subscriber")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	body := rec.Body.String()
	assert.Contains(t, body, "data: ")
	assert.Contains(t, body, `"type":"connected"`)
	assert.Contains(t, body, "Connected to drone service live updates")
}

func TestEventStream_RemovalClosesStream(t *testing.T) {
	srv, _, registry := newTestServer(&fakeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.echo.ServeHTTP(rec, req)
	}()

	require.Eventually(t, func() bool {
		return registry.Len() == 1
	}, time.Second, 5*time.Millisecond)

	// Removing through the registry, as the heartbeat or reaper would,
	// must unblock the handler.
	for _, m := range registry.Snapshot() {
		registry.Remove(m.ID)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after registry removal")
	}
	assert.Equal(t, 0, registry.Len())
}

func TestEventStats(t *testing.T) {
	srv, _, registry := newTestServer(&fakeRepo{})

	sink, err := sse.NewStreamSink(httptest.NewRecorder(), func() {})
	require.NoError(t, err)
	registry.Admit(sink)

	rec := doRequest(srv, http.MethodGet, "/api/events/stats", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Total  int `json:"total_connections"`
		Active int `json:"active_connections"`
		Stale  int `json:"stale_connections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 0, stats.Stale)
}
