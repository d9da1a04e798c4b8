package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusConfirmed  RequestStatus = "confirmed"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Service types offered by the drone fleet.
const (
	ServiceDelivery    = "delivery"
	ServiceSurvey      = "survey"
	ServicePhotography = "photography"
	ServiceInspection  = "inspection"
	ServiceSpraying    = "spraying"
)

// ServiceRequest is a drone service request as stored in the database.
// Code is the human-readable identifier (e.g. "DR-2024-000001") that
// clients use to track their request.
type ServiceRequest struct {
	ID          uuid.UUID     `json:"id"`
	Code        string        `json:"request_id"`
	ClientName  string        `json:"client_name"`
	ClientEmail string        `json:"client_email"`
	ClientPhone string        `json:"client_phone,omitempty"`
	ServiceType string        `json:"service_type"`
	Location    string        `json:"location"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Notes       string        `json:"notes,omitempty"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CreateRequestParams carries the validated fields for a new request.
type CreateRequestParams struct {
	ClientName  string
	ClientEmail string
	ClientPhone string
	ServiceType string
	Location    string
	ScheduledAt time.Time
	Notes       string
}

// RequestRepository is the persistence boundary for service requests.
type RequestRepository interface {
	Create(ctx context.Context, params CreateRequestParams) (*ServiceRequest, error)
	List(ctx context.Context, status RequestStatus) ([]ServiceRequest, error)
	GetByCode(ctx context.Context, code string) (*ServiceRequest, error)
	UpdateStatus(ctx context.Context, code string, status RequestStatus, notes string) (*ServiceRequest, error)
	Delete(ctx context.Context, code string) error
}
