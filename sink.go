package flume

import (
	"context"

	"github.com/zoobzio/pipz"
)

// Sink is a delivery target for log events.
//
// Sinks are the extensibility point of flume - they determine what happens
// to events after they pass the level filter. Common sink patterns include:
//
//   - Writing to files or stdout/stderr
//   - Sending to external services (log collectors, webhooks)
//   - Aggregating metrics
//   - Triggering alerts
//
// Write is the synchronous contract: it returns only once the event has
// been handed to the underlying destination, and it may fail. In sync
// dispatch mode a Write error surfaces at the logging call site; in async
// mode it is reported to the error handler instead.
type Sink interface {
	// Name identifies the sink in error messages and debugging output.
	Name() string

	// Write delivers one event. The renderer choice belongs to the sink;
	// the dispatcher passes the raw event.
	Write(ctx context.Context, event Event) error
}

// AsyncWriter is the optional asynchronous capability of a sink.
//
// WriteAsync is fire-and-forget relative to the caller: it returns
// immediately and any failure is reported through the error handler rather
// than returned. Sinks that buffer internally (like FileSink with batching)
// implement it natively; for sinks that don't, the dispatcher falls back to
// running Write on a background goroutine.
type AsyncWriter interface {
	WriteAsync(ctx context.Context, event Event)
}

// Chain is a Sink with composable capabilities.
//
// Chain wraps a pipz processor, which provides a fluent builder API for
// adding capabilities like retry, backoff, timeout, filtering, and async
// processing. Each capability wraps the underlying processor with pipz
// primitives.
//
// Example with capabilities:
//
//	sink := flume.NewSink("api", handler).
//	    WithRetry(3).
//	    WithTimeout(30 * time.Second)
type Chain struct {
	processor pipz.Chainable[Event]
}

// Process delegates to the underlying processor, exposing the chain for
// direct pipz composition.
func (c *Chain) Process(ctx context.Context, event Event) (Event, error) {
	return c.processor.Process(ctx, event)
}

// Name returns the name of the underlying processor.
func (c *Chain) Name() string {
	return string(c.processor.Name())
}

// Write implements Sink by running the event through the chain.
func (c *Chain) Write(ctx context.Context, event Event) error {
	_, err := c.processor.Process(ctx, event)
	return err
}

// NewSink creates a custom sink that processes events.
//
// The name parameter identifies the sink in error messages and debugging
// output. The handler function is called for each event routed to this sink.
//
// Example sink that writes rendered lines to a writer:
//
//	r := flume.PlainRenderer{ShowTimestamp: true}
//	fileSink := flume.NewSink("file-writer", func(ctx context.Context, event flume.Event) error {
//	    _, err := fmt.Fprintln(w, r.Render(event))
//	    return err
//	})
//
// Sinks should handle errors gracefully - in async dispatch mode a returned
// error doesn't affect other sinks or the application.
//
// The returned Chain can be enhanced with capabilities using the fluent API:
//
//	sink := flume.NewSink("example", handler).WithRetry(3)
func NewSink(name string, handler func(context.Context, Event) error) *Chain {
	return &Chain{
		processor: pipz.Effect(name, handler),
	}
}
