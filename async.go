package flume

import (
	"context"
)

// WithAsync adds asynchronous processing to the sink.
//
// The sink will process events in a background goroutine without blocking
// the caller. This is useful for slow sinks (external APIs, remote
// collectors) that shouldn't block the main application flow.
//
// Important characteristics:
//   - Fire-and-forget: errors are reported to the error handler, not the caller
//   - No buffering: each event spawns a new goroutine immediately
//   - No backpressure: unlimited goroutines can be spawned
//   - Fresh context: background processing uses context.Background()
//
// Example usage:
//
//	// Prevent slow API calls from blocking
//	asyncSink := flume.NewHTTPSink(url).WithAsync()
//
//	// Combine with other adapters for robust async processing
//	robustSink := flume.NewSink("external", handler).
//	    WithRetry(3).
//	    WithTimeout(30 * time.Second).
//	    WithAsync()
//
// Warning: WithAsync provides no backpressure control. If events are
// produced faster than they can be processed, goroutines will accumulate.
// For buffered file output, prefer FileSink's batching instead.
//
// The original context is not propagated to avoid issues with short-lived
// contexts (e.g., HTTP request contexts) canceling background work.
func (c *Chain) WithAsync() *Chain {
	// Capture the current processor
	inner := c.processor

	return NewSink("async", func(_ context.Context, event Event) error {
		// Spawn goroutine for fire-and-forget processing
		go func() {
			// Use fresh context since parent might be canceled. This
			// ensures background processing completes even if the original
			// request/operation has finished.
			if _, err := inner.Process(context.Background(), event); err != nil {
				reportError(err)
			}
		}()

		// Return immediately with no error.
		// The caller doesn't wait for processing to complete.
		return nil
	})
}
