package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Ravishyamsingh/Drone-Service/internal/config"
	"github.com/Ravishyamsingh/Drone-Service/internal/domain"
	apperrors "github.com/Ravishyamsingh/Drone-Service/internal/errors"
	"github.com/Ravishyamsingh/Drone-Service/internal/sse"
)

// postgresHealthChecker is the minimal interface for readiness checks.
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo       *echo.Echo
	config     *config.Config
	requests   domain.RequestRepository
	events     domain.EventSink
	registry   *sse.Registry
	dispatcher *sse.Dispatcher
	db         postgresHealthChecker
	startTime  time.Time
}

func NewServer(cfg *config.Config, requests domain.RequestRepository, registry *sse.Registry, dispatcher *sse.Dispatcher, db postgresHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())
	e.Validator = newRequestValidator()

	srv := &Server{
		echo:       e,
		config:     cfg,
		requests:   requests,
		events:     dispatcher,
		registry:   registry,
		dispatcher: dispatcher,
		db:         db,
		startTime:  time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
