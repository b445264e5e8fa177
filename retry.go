package flume

import (
	"github.com/zoobzio/pipz"
)

// WithRetry adds retry capability to the sink.
//
// The sink will automatically retry failed operations up to the specified
// number of attempts. Retries are immediate without delay - for operations
// that need backoff between attempts, use WithBackoff instead.
//
// Each retry receives the same event data. Retries stop immediately if the
// context is canceled, allowing for early termination during application
// shutdown or timeout scenarios.
//
// Example usage:
//
//	// Basic retry - try up to 3 times total
//	reliableSink := flume.NewSink("api", apiHandler).WithRetry(3)
//
//	// Chaining with other capabilities
//	complexSink := flume.NewSink("complex", handler).
//	    WithRetry(3).
//	    WithTimeout(30 * time.Second)
//
// If all retry attempts fail, the last error is returned with attempt count
// information for debugging.
func (c *Chain) WithRetry(attempts int) *Chain {
	if attempts < 1 {
		attempts = 1
	}

	return &Chain{
		processor: pipz.NewRetry("retry", c.processor, attempts),
	}
}
