package sse

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// ErrSinkClosed is returned by Write after the sink has been closed.
var ErrSinkClosed = errors.New("sink closed")

// Sink is a writable stream handle to one subscriber. Ownership belongs
// to the registry entry; nothing else holds a long-lived reference.
type Sink interface {
	Write(p []byte) error
	Close() error
}

// streamSink adapts an http.ResponseWriter into a Sink. Writes from the
// heartbeat and dispatcher goroutines are serialized by the mutex, and
// Close prevents any later write from touching the ResponseWriter before
// cancelling the handler's context.
type streamSink struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	cancel  context.CancelFunc
	closed  bool
}

// NewStreamSink wraps w for SSE streaming. cancel unblocks the
// subscription handler when the sink is closed by the heartbeat, reaper,
// or dispatcher. Returns an error if w does not support flushing.
func NewStreamSink(w http.ResponseWriter, cancel context.CancelFunc) (Sink, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support streaming")
	}
	return &streamSink{w: w, flusher: flusher, cancel: cancel}, nil
}

func (s *streamSink) Write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	if _, err := s.w.Write(p); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *streamSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	return nil
}
