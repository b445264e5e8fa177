package flume

import (
	"context"

	"github.com/zoobzio/pipz"
)

// WithFilter adds conditional processing to the sink.
//
// The sink will only process events that pass the predicate function.
// Events that don't match are silently skipped without calling the
// underlying sink handler. This is useful for creating specialized
// sinks that only care about specific types of events.
//
// The predicate function receives the full event and should return
// true to process the event or false to skip it. This allows filtering
// on any aspect of the event: level, prefix, message, or fields.
//
// Example usage:
//
//	// Only deliver errors and worse to the pager webhook
//	pagerSink := flume.NewHTTPSink(url).
//	    WithFilter(func(ctx context.Context, e flume.Event) bool {
//	        return e.Level == flume.ERROR || e.Level == flume.FATAL
//	    })
//
//	// Only process events from one subsystem
//	workerSink := flume.NewSink("worker", handler).
//	    WithFilter(func(ctx context.Context, e flume.Event) bool {
//	        return e.Prefix == "worker"
//	    })
//
// Filtering is transparent to the rest of the pipeline - other sinks still
// receive every event, and a skipped event is not an error.
func (c *Chain) WithFilter(predicate func(context.Context, Event) bool) *Chain {
	return &Chain{
		processor: pipz.NewFilter("filter", predicate, c.processor),
	}
}
