package sse

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestReaper_SweepEvictsStaleConnections(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := NewRegistry(clock)
	reaper := NewReaper(r, clock, time.Minute, 300*time.Second)

	sink := &fakeSink{}
	r.Admit(sink)

	clock.Advance(301 * time.Second)
	reaper.sweep()

	assert.Equal(t, 0, r.Len(), "subscriber idle past the threshold must be evicted")
	assert.True(t, sink.Closed())
}

func TestReaper_SweepSparesFreshConnections(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := NewRegistry(clock)
	reaper := NewReaper(r, clock, time.Minute, 300*time.Second)

	stale := &fakeSink{}
	r.Admit(stale)

	clock.Advance(299 * time.Second)
	fresh := &fakeSink{}
	r.Admit(fresh)

	reaper.sweep()

	assert.Equal(t, 2, r.Len(), "idle time at or below the threshold is not stale")
	assert.False(t, stale.Closed())

	clock.Advance(2 * time.Second)
	reaper.sweep()

	assert.Equal(t, 1, r.Len())
	assert.True(t, stale.Closed())
	assert.False(t, fresh.Closed())
}

func TestReaper_TouchedConnectionSurvivesSweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := NewRegistry(clock)
	reaper := NewReaper(r, clock, time.Minute, 300*time.Second)

	m := r.Admit(&fakeSink{})

	clock.Advance(200 * time.Second)
	r.Touch(m.ID)
	clock.Advance(200 * time.Second)
	reaper.sweep()

	assert.Equal(t, 1, r.Len(), "liveness refresh resets the staleness window")
}

func TestReaper_RunSweepsOnSchedule(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := NewRegistry(clock)
	reaper := NewReaper(r, clock, time.Minute, 30*time.Second)

	sink := &fakeSink{}
	r.Admit(sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		reaper.Run(ctx)
	}()

	clock.BlockUntil(1)
	clock.Advance(time.Minute)

	assert.Eventually(t, func() bool {
		return r.Len() == 0
	}, time.Second, 5*time.Millisecond, "stale subscriber should be reaped on the first tick")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop on context cancellation")
	}
}
