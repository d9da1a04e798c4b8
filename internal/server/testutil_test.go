package server

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Ravishyamsingh/Drone-Service/internal/config"
	"github.com/Ravishyamsingh/Drone-Service/internal/domain"
	"github.com/Ravishyamsingh/Drone-Service/internal/sse"
)

// fakeRepo implements domain.RequestRepository with pluggable behavior.
type fakeRepo struct {
	createFn func(ctx context.Context, params domain.CreateRequestParams) (*domain.ServiceRequest, error)
	listFn   func(ctx context.Context, status domain.RequestStatus) ([]domain.ServiceRequest, error)
	getFn    func(ctx context.Context, code string) (*domain.ServiceRequest, error)
	updateFn func(ctx context.Context, code string, status domain.RequestStatus, notes string) (*domain.ServiceRequest, error)
	deleteFn func(ctx context.Context, code string) error
}

func (f *fakeRepo) Create(ctx context.Context, params domain.CreateRequestParams) (*domain.ServiceRequest, error) {
	return f.createFn(ctx, params)
}

func (f *fakeRepo) List(ctx context.Context, status domain.RequestStatus) ([]domain.ServiceRequest, error) {
	return f.listFn(ctx, status)
}

func (f *fakeRepo) GetByCode(ctx context.Context, code string) (*domain.ServiceRequest, error) {
	return f.getFn(ctx, code)
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, code string, status domain.RequestStatus, notes string) (*domain.ServiceRequest, error) {
	return f.updateFn(ctx, code, status, notes)
}

func (f *fakeRepo) Delete(ctx context.Context, code string) error {
	return f.deleteFn(ctx, code)
}

// recordingSink captures emitted events so tests can assert on the
// exactly-once contract between mutations and broadcasts.
type recordingSink struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	eventType domain.EventType
	payload   any
}

func (r *recordingSink) Emit(eventType domain.EventType, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{eventType: eventType, payload: payload})
}

func (r *recordingSink) Events() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]recordedEvent, len(r.events))
	copy(events, r.events)
	return events
}

type fakeDB struct {
	pingErr error
}

func (f *fakeDB) Ping(ctx context.Context) error { return f.pingErr }

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		HeartbeatInterval: 30 * time.Second,
		ReaperInterval:    5 * time.Minute,
		StaleThreshold:    5 * time.Minute,
	}
}

// newTestServer wires a Server around fakes. The returned recordingSink
// replaces the dispatcher as the mutation event sink.
func newTestServer(repo *fakeRepo) (*Server, *recordingSink, *sse.Registry) {
	clock := clockwork.NewFakeClock()
	registry := sse.NewRegistry(clock)
	dispatcher := sse.NewDispatcher(registry, clock)

	srv := NewServer(testConfig(), repo, registry, dispatcher, &fakeDB{})
	events := &recordingSink{}
	srv.events = events
	return srv, events, registry
}

func sampleRequest() *domain.ServiceRequest {
	return &domain.ServiceRequest{
		Code:        "DR-2024-000001",
		ClientName:  "Ava Fields",
		ClientEmail: "ava@example.com",
		ServiceType: domain.ServiceSurvey,
		Location:    "Field 12, North Farm",
		ScheduledAt: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
		Status:      domain.StatusPending,
	}
}
