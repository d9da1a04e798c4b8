package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ravishyamsingh/Drone-Service/internal/domain"
	apperrors "github.com/Ravishyamsingh/Drone-Service/internal/errors"
)

type createRequestInput struct {
	ClientName  string    `json:"client_name" validate:"required,max=120"`
	ClientEmail string    `json:"client_email" validate:"required,email"`
	ClientPhone string    `json:"client_phone" validate:"omitempty,max=32"`
	ServiceType string    `json:"service_type" validate:"required,oneof=delivery survey photography inspection spraying"`
	Location    string    `json:"location" validate:"required,max=255"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

type updateRequestInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed in_progress completed cancelled"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// handleCreateRequest persists a new service request and, only after the
// insert committed, broadcasts a request-created event.
func (s *Server) handleCreateRequest(c echo.Context) error {
	var input createRequestInput
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	req, err := s.requests.Create(c.Request().Context(), domain.CreateRequestParams{
		ClientName:  input.ClientName,
		ClientEmail: input.ClientEmail,
		ClientPhone: input.ClientPhone,
		ServiceType: input.ServiceType,
		Location:    input.Location,
		ScheduledAt: input.ScheduledAt,
		Notes:       input.Notes,
	})
	if err != nil {
		return apperrors.InternalError("failed to create service request", err)
	}

	s.events.Emit(domain.EventRequestCreated, domain.RequestEventPayload{
		Request: req,
		Message: fmt.Sprintf("New service request %s received", req.Code),
	})

	return c.JSON(201, req)
}

func (s *Server) handleListRequests(c echo.Context) error {
	status := domain.RequestStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return apperrors.ValidationError("unknown status filter").WithContext("status", string(status))
	}

	requests, err := s.requests.List(c.Request().Context(), status)
	if err != nil {
		return apperrors.InternalError("failed to list service requests", err)
	}
	return c.JSON(200, requests)
}

func (s *Server) handleGetRequest(c echo.Context) error {
	code := c.Param("code")

	req, err := s.requests.GetByCode(c.Request().Context(), code)
	if errors.Is(err, domain.ErrRequestNotFound) {
		return apperrors.NotFoundError("service request not found").WithContext("request_id", code)
	}
	if err != nil {
		return apperrors.InternalError("failed to load service request", err)
	}
	return c.JSON(200, req)
}

// handleUpdateRequest updates the status of a request and broadcasts a
// request-updated event carrying the new status. A failed update emits
// nothing.
func (s *Server) handleUpdateRequest(c echo.Context) error {
	code := c.Param("code")

	var input updateRequestInput
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	req, err := s.requests.UpdateStatus(c.Request().Context(), code, domain.RequestStatus(input.Status), input.Notes)
	if errors.Is(err, domain.ErrRequestNotFound) {
		return apperrors.NotFoundError("service request not found").WithContext("request_id", code)
	}
	if err != nil {
		return apperrors.InternalError("failed to update service request", err)
	}

	s.events.Emit(domain.EventRequestUpdated, domain.RequestEventPayload{
		Request: req,
		Message: fmt.Sprintf("Request %s is now %s", req.Code, req.Status),
	})

	return c.JSON(200, req)
}

// handleDeleteRequest removes a request and broadcasts a request-deleted
// event carrying only the identifier.
func (s *Server) handleDeleteRequest(c echo.Context) error {
	code := c.Param("code")

	err := s.requests.Delete(c.Request().Context(), code)
	if errors.Is(err, domain.ErrRequestNotFound) {
		return apperrors.NotFoundError("service request not found").WithContext("request_id", code)
	}
	if err != nil {
		return apperrors.InternalError("failed to delete service request", err)
	}

	s.events.Emit(domain.EventRequestDeleted, domain.RequestDeletedPayload{
		RequestID: code,
		Message:   fmt.Sprintf("Request %s was removed", code),
	})

	return c.JSON(200, map[string]string{"status": "deleted", "request_id": code})
}
