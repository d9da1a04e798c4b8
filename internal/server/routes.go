package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Mutation API
	s.echo.POST("/api/requests", s.handleCreateRequest)
	s.echo.GET("/api/requests", s.handleListRequests)
	s.echo.GET("/api/requests/:code", s.handleGetRequest)
	s.echo.PUT("/api/requests/:code", s.handleUpdateRequest)
	s.echo.DELETE("/api/requests/:code", s.handleDeleteRequest)

	// Live update channel
	s.echo.GET("/api/events", s.handleEventStream)
	s.echo.GET("/api/events/stats", s.handleEventStats)
}
