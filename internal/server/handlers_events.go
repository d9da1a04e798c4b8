package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/Ravishyamsingh/Drone-Service/internal/errors"
	"github.com/Ravishyamsingh/Drone-Service/internal/sse"
)

// handleEventStream is the SSE subscription endpoint. It admits the
// connection, acknowledges with a connected frame, then blocks until the
// client disconnects or the sink is closed by the heartbeat, reaper, or
// dispatcher. All subscribers receive all events; per-subscriber
// filtering is a scalability non-goal.
func (s *Server) handleEventStream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	sink, err := sse.NewStreamSink(res, cancel)
	if err != nil {
		return apperrors.InternalError("streaming unsupported", err)
	}

	member := s.registry.Admit(sink)
	// Client disconnect cancels the request context; this deferred
	// Remove is the canonical cancellation path.
	defer s.registry.Remove(member.ID)

	s.dispatcher.SendConnected(member.ID)

	<-ctx.Done()
	return nil
}

// handleEventStats exposes registry counters computed at call time.
func (s *Server) handleEventStats(c echo.Context) error {
	return c.JSON(200, s.registry.Stats(s.config.StaleThreshold))
}
