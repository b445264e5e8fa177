package flume

import (
	"github.com/zoobzio/pipz"
)

// WithFallback adds fallback capability to the sink.
//
// When the primary sink fails, the fallback sink will be tried automatically.
// This creates resilient processing chains that can recover from failures
// gracefully by switching to an alternative implementation.
//
// Unlike retry which attempts the same operation multiple times, fallback
// switches to a completely different sink. This is valuable when you have
// multiple ways to accomplish the same goal.
//
// Example usage:
//
//	// Remote delivery with a local file as the safety net
//	remote := flume.NewHTTPSink(url)
//	local := flume.NewSink("spill", spillHandler)
//	resilient := remote.WithFallback(local)
//
//	// Can be chained with other capabilities
//	robustSink := remote.
//	    WithRetry(2).
//	    WithFallback(local).
//	    WithTimeout(10 * time.Second)
//
// If the primary sink succeeds, the fallback is never called. If the primary
// fails, the same event data is passed to the fallback sink.
func (c *Chain) WithFallback(fallback *Chain) *Chain {
	return &Chain{
		processor: pipz.NewFallback("fallback", c.processor, fallback.processor),
	}
}
