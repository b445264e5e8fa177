package flume

import (
	"context"
	"math/rand"
	"sync/atomic"
)

// WithSampling returns a sink adapter that only processes a fraction of events.
//
// This is useful for high-volume levels where you want to reduce load while
// still getting a representative sample. The sampling is deterministic based
// on a counter to ensure consistent sampling rates.
//
// The rate parameter should be between 0.0 and 1.0:
//   - 0.0 = no events pass through
//   - 0.1 = 10% of events pass through
//   - 1.0 = all events pass through (no sampling)
//
// Example usage:
//
//	// Only deliver 10% of trace-level chatter to the file
//	traceSink := fileChain.WithSampling(0.1)
//
// The sampling decision is made before the event reaches the sink, so
// filtered events have minimal performance impact.
func (c *Chain) WithSampling(rate float64) *Chain {
	// Clamp rate to valid range
	if rate <= 0 {
		// Return a sink that drops everything
		return NewSink("sampling-drop-all", func(_ context.Context, _ Event) error {
			return nil
		})
	}
	if rate >= 1 {
		// No sampling needed
		return c
	}

	// Use a counter for deterministic sampling
	var counter uint64

	return c.WithFilter(func(_ context.Context, _ Event) bool {
		count := atomic.AddUint64(&counter, 1)

		// For 10% sampling (0.1), accept every 10th event.
		interval := uint64(1.0 / rate)
		return count%interval == 0
	})
}

// WithProbabilisticSampling returns a sink adapter that randomly samples events.
//
// Unlike WithSampling which uses deterministic sampling, this uses random
// sampling. Each event has an independent probability of being processed.
//
// This can be more appropriate when:
//   - Events arrive in bursts (deterministic might miss entire bursts)
//   - You need true statistical sampling
//   - Event order is unpredictable
//
// Example usage:
//
//	// Randomly sample 25% of events
//	randomSink := debugSink.WithProbabilisticSampling(0.25)
func (c *Chain) WithProbabilisticSampling(rate float64) *Chain {
	// Clamp rate to valid range
	if rate <= 0 {
		return NewSink("probabilistic-drop-all", func(_ context.Context, _ Event) error {
			return nil
		})
	}
	if rate >= 1 {
		return c
	}

	return c.WithFilter(func(_ context.Context, _ Event) bool {
		return rand.Float64() < rate //nolint:gosec // Weak random is acceptable for sampling
	})
}
