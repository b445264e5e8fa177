package flume

import (
	"sync"
)

// Mode selects how the logger delivers events to its sinks.
type Mode int

const (
	// ModeSync delivers to every sink before the logging call returns.
	// A sink error propagates to the caller.
	ModeSync Mode = iota

	// ModeAsync returns immediately; delivery happens in the background
	// and failures go to the error handler instead of the caller.
	ModeAsync
)

// Config configures a Logger. The zero value is usable: INFO threshold,
// sync mode, no prefix, no sinks.
type Config struct {
	// Threshold is the minimum severity delivered to sinks.
	// Defaults to INFO when empty.
	Threshold Level

	// Mode selects sync or async dispatch. Defaults to ModeSync.
	Mode Mode

	// Prefix is attached to every event this logger emits.
	Prefix string

	// Fields are attached to every event this logger emits, ahead of
	// per-call fields.
	Fields Fields

	// Sinks are the initial delivery targets, in registration order.
	Sinks []Sink
}

// Logger filters events against a severity threshold and fans them out to
// registered sinks.
//
// The threshold check runs before any per-event state is constructed:
// a filtered-out call costs a comparison, not an allocation. Events that
// pass are fanned out per the dispatch mode - see Log for the discipline.
//
// Loggers are safe for concurrent use. The mode is mutable at runtime;
// everything else is fixed at construction, and child loggers (With) take
// immutable snapshots rather than holding a live parent reference.
type Logger struct {
	mu        sync.RWMutex
	threshold Level
	mode      Mode
	prefix    string
	fields    Fields
	sinks     []Sink
}

// New creates a Logger from the config.
func New(cfg Config) *Logger {
	if cfg.Threshold == "" {
		cfg.Threshold = INFO
	}
	return &Logger{
		threshold: cfg.Threshold,
		mode:      cfg.Mode,
		prefix:    cfg.Prefix,
		fields:    cfg.Fields.Clone(),
		sinks:     append([]Sink(nil), cfg.Sinks...),
	}
}

// AddSink registers another delivery target. Sinks are invoked in
// registration order. There is no way to remove a sink - design the sink
// set accordingly.
func (l *Logger) AddSink(sinks ...Sink) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, sinks...)
	return l
}

// SetMode switches between sync and async dispatch at runtime.
func (l *Logger) SetMode(mode Mode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mode = mode
}

// Mode returns the current dispatch mode.
func (l *Logger) Mode() Mode {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.mode
}

// SetThreshold changes the minimum delivered severity at runtime.
func (l *Logger) SetThreshold(threshold Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.threshold = threshold
}

// With returns a child logger carrying an additional prefix and fields.
//
// The child is an immutable snapshot: it copies the parent's resolved
// threshold, mode, sinks, and fields at creation time and keeps no
// reference to the parent. Later changes to either logger do not affect
// the other (sink instances are shared; their state is their own).
//
// An empty prefix inherits the parent's; a non-empty one replaces it.
func (l *Logger) With(prefix string, fields ...Field) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if prefix == "" {
		prefix = l.prefix
	}
	merged := l.fields.Clone()
	merged = append(merged, fields...)

	return &Logger{
		threshold: l.threshold,
		mode:      l.mode,
		prefix:    prefix,
		fields:    merged,
		sinks:     append([]Sink(nil), l.sinks...),
	}
}

// Log emits one event at the given level.
//
// The level filter runs first: filtered-out and SILENT events return nil
// before the event (timestamp, merged fields) is even constructed.
//
// In sync mode every sink's Write runs in registration order. A failing
// sink does NOT short-circuit the fan-out - the remaining sinks still
// receive the event - but the first error is returned to the caller once
// the pass completes. Sync callers opt into propagated errors.
//
// In async mode Log returns immediately. Sinks implementing AsyncWriter
// get WriteAsync; other sinks have their synchronous Write deferred to a
// background goroutine so every sink still eventually receives every
// event. Either way, failures are reported to the error handler and never
// reach the caller - an async logging call must never take the host down.
func (l *Logger) Log(level Level, msg string, fields ...Field) error {
	l.mu.RLock()
	threshold := l.threshold
	mode := l.mode
	prefix := l.prefix
	base := l.fields
	sinks := l.sinks
	l.mu.RUnlock()

	if !level.Enabled(threshold) {
		return nil
	}

	// Construct per-event state only after the filter passes.
	merged := base.Clone()
	merged = append(merged, fields...)
	event := NewEvent(level, msg, merged)
	event.Prefix = prefix

	ctx := getContext()

	if mode == ModeSync {
		var firstErr error
		for _, sink := range sinks {
			if err := sink.Write(ctx, event); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	for _, sink := range sinks {
		if aw, ok := sink.(AsyncWriter); ok {
			aw.WriteAsync(ctx, event.Clone())
			continue
		}
		// No async capability: defer the synchronous write to a goroutine
		// so this sink doesn't reorder ahead of genuinely async ones.
		go func(s Sink, e Event) {
			if err := s.Write(ctx, e); err != nil {
				reportError(err)
			}
		}(sink, event.Clone())
	}
	return nil
}

// Trace emits a trace-level event for the most verbose diagnostics.
func (l *Logger) Trace(msg string, fields ...Field) error {
	return l.Log(TRACE, msg, fields...)
}

// Debug emits a debug-level event for development and troubleshooting.
func (l *Logger) Debug(msg string, fields ...Field) error {
	return l.Log(DEBUG, msg, fields...)
}

// Info emits an informational event for normal operational messages.
func (l *Logger) Info(msg string, fields ...Field) error {
	return l.Log(INFO, msg, fields...)
}

// Warn emits a warning event for concerning but recoverable situations.
func (l *Logger) Warn(msg string, fields ...Field) error {
	return l.Log(WARN, msg, fields...)
}

// Error emits an error event for failures that need attention.
func (l *Logger) Error(msg string, fields ...Field) error {
	return l.Log(ERROR, msg, fields...)
}

// Fatal emits a fatal-level event. Unlike log.Fatal it does not exit the
// process - delivery guarantees belong to the pipeline, process lifecycle
// to the host.
func (l *Logger) Fatal(msg string, fields ...Field) error {
	return l.Log(FATAL, msg, fields...)
}
