package flume

import (
	"context"

	"golang.org/x/time/rate"
)

// WithRateLimit returns a sink adapter that sheds events beyond a sustained
// rate.
//
// Unlike sampling, which keeps a fixed fraction of traffic, rate limiting
// keeps everything under normal load and sheds only during floods. A token
// bucket admits up to eventsPerSecond sustained, with bursts of up to burst
// events. Events arriving with the bucket empty are dropped silently - this
// is load shedding, not queueing.
//
// Example usage:
//
//	// At most 100 events/s to the remote collector, bursts of 20
//	remote := flume.NewHTTPSink(url).WithRateLimit(100, 20)
//
// Dropping is not an error: other sinks still receive the event, and the
// caller is never blocked.
func (c *Chain) WithRateLimit(eventsPerSecond float64, burst int) *Chain {
	if eventsPerSecond <= 0 {
		return NewSink("ratelimit-drop-all", func(_ context.Context, _ Event) error {
			return nil
		})
	}
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(eventsPerSecond), burst)

	return c.WithFilter(func(_ context.Context, _ Event) bool {
		return limiter.Allow()
	})
}
