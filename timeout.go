package flume

import (
	"time"

	"github.com/zoobzio/pipz"
)

// WithTimeout adds timeout protection to the sink.
//
// The sink's processing is bounded by the specified duration. If the
// underlying handler doesn't complete in time, it is canceled via context
// and the write fails with a timeout error. This protects the pipeline
// from sinks that can hang: network endpoints, slow disks, stalled
// external services.
//
// Example usage:
//
//	// Bound HTTP delivery to 10 seconds
//	apiSink := flume.NewHTTPSink(url).WithTimeout(10 * time.Second)
//
//	// Combine with retry: each attempt gets its own timeout
//	robustSink := flume.NewSink("external", handler).
//	    WithTimeout(5 * time.Second).
//	    WithRetry(3)
//
// Handlers must respect context cancellation for the timeout to take
// effect promptly.
func (c *Chain) WithTimeout(timeout time.Duration) *Chain {
	return &Chain{
		processor: pipz.NewTimeout("timeout", c.processor, timeout),
	}
}
