package sse

import (
	"errors"
	"sync"
)

// fakeSink records every frame written to it and can be configured to
// fail or panic on write.
type fakeSink struct {
	mu           sync.Mutex
	frames       [][]byte
	writeErr     error
	panicOnWrite bool
	closed       bool
}

func (f *fakeSink) Write(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.panicOnWrite {
		panic("sink write exploded")
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.closed {
		return ErrSinkClosed
	}
	frame := make([]byte, len(p))
	copy(frame, p)
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSink) Frames() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	frames := make([][]byte, len(f.frames))
	copy(frames, f.frames)
	return frames
}

func (f *fakeSink) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSink) failWrites() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = errors.New("broken pipe")
}
