package flume

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleSink writes rendered events to an io.Writer, one line per event.
//
// It is the simplest delivery target: no buffering, no rotation, writes
// serialized by a mutex so interleaved goroutines can't shear lines. The
// default configuration writes plain-text lines to stderr, which suits
// development terminals and container output streams alike.
//
// Example usage:
//
//	// Plain lines to stderr
//	console := flume.NewConsoleSink(nil, nil)
//
//	// JSON lines to stdout for log collectors
//	jsonConsole := flume.NewConsoleSink(os.Stdout, flume.JSONRenderer{})
type ConsoleSink struct {
	mu       sync.Mutex
	out      io.Writer
	renderer Renderer
}

// NewConsoleSink creates a console sink.
//
// A nil writer defaults to os.Stderr. A nil renderer defaults to
// PlainRenderer with timestamps enabled.
func NewConsoleSink(w io.Writer, r Renderer) *ConsoleSink {
	if w == nil {
		w = os.Stderr
	}
	if r == nil {
		r = PlainRenderer{ShowTimestamp: true}
	}
	return &ConsoleSink{out: w, renderer: r}
}

// Name implements Sink.
func (s *ConsoleSink) Name() string { return "console" }

// Write renders the event and writes it as a single line.
func (s *ConsoleSink) Write(_ context.Context, event Event) error {
	line := s.renderer.Render(event)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		return fmt.Errorf("console write failed: %w", err)
	}
	return nil
}
