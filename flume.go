// Package flume provides a leveled, structured log emission pipeline for
// Go applications.
//
// Application code emits leveled events; the pipeline filters them against
// a severity threshold, renders them into plain-text or JSON lines, and
// delivers them to one or more sinks: console, rotating file, or remote
// HTTP endpoint. Delivery is in order per sink, and no single slow sink
// blocks the others.
//
// # Core Concepts
//
// Events carry a level, message, timestamp, optional structured fields,
// and an optional prefix. The threshold filter runs before any per-event
// state is built, so suppressed calls are nearly free. Each sink renders
// events with its own Renderer, letting one logger feed a human-readable
// terminal and a JSON log file at once.
//
// # Basic Usage
//
// The package-level functions use a lazily-initialized default logger
// writing plain lines to stderr:
//
//	flume.Info("Server started", flume.Int("port", 8080))
//	flume.Error("Database connection failed", flume.Err(err))
//
// For explicit wiring, construct a Logger and pass it around:
//
//	fileSink, err := flume.NewFileSink(flume.FileSinkConfig{
//	    Path:        "logs/app.log",
//	    Compression: flume.CompressionGzip,
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	defer fileSink.Close()
//
//	log := flume.New(flume.Config{
//	    Threshold: flume.DEBUG,
//	    Sinks:     []flume.Sink{flume.NewConsoleSink(nil, nil), fileSink},
//	})
//	log.Debug("cache warmed", flume.Int("entries", n))
//
// # Dispatch Modes
//
// In sync mode (the default) a logging call returns after every sink has
// written, and sink errors propagate to the caller. In async mode the call
// returns immediately and failures are reported to the handler installed
// with SetErrorHandler. The mode can be switched at runtime:
//
//	log.SetMode(flume.ModeAsync)
//
// # Sink Capabilities
//
// Sinks built with NewSink or NewHTTPSink compose reliability adapters in
// a fluent chain, built on github.com/zoobzio/pipz:
//
//	remote := flume.NewHTTPSink(url).
//	    WithBackoff(3, time.Second).
//	    WithRateLimit(100, 20).
//	    WithAsync()
package flume

import (
	"sync"
)

var (
	defaultOnce   sync.Once
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// Default returns the process-wide default logger, lazily constructing a
// sync-mode, INFO-threshold logger with a plain-text console sink on first
// use.
//
// The default exists as a convenience accessor; explicit Logger values
// passed by handle remain the primary API.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = New(Config{
				Sinks: []Sink{NewConsoleSink(nil, nil)},
			})
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide default logger. Passing nil is a
// no-op.
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	// Publish the logger before consuming the Once: a Default call racing
	// the first SetDefault either runs lazy init (which keeps a non-nil
	// logger) or skips it and reads the logger just published.
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
	defaultOnce.Do(func() {})
}

// Emit sends an event at the given level through the default logger.
func Emit(level Level, msg string, fields ...Field) error {
	return Default().Log(level, msg, fields...)
}

// Trace emits a trace-level event through the default logger.
func Trace(msg string, fields ...Field) error {
	return Default().Trace(msg, fields...)
}

// Debug emits a debug-level event through the default logger.
//
//	flume.Debug("Cache lookup", flume.String("key", cacheKey))
func Debug(msg string, fields ...Field) error {
	return Default().Debug(msg, fields...)
}

// Info emits an informational event through the default logger.
//
//	flume.Info("Server started", flume.Int("port", 8080))
func Info(msg string, fields ...Field) error {
	return Default().Info(msg, fields...)
}

// Warn emits a warning event through the default logger.
//
//	flume.Warn("API rate limit approaching", flume.Int("remaining", 100))
func Warn(msg string, fields ...Field) error {
	return Default().Warn(msg, fields...)
}

// Error emits an error event through the default logger.
//
//	flume.Error("Failed to send email", flume.Err(err), flume.String("to", email))
func Error(msg string, fields ...Field) error {
	return Default().Error(msg, fields...)
}

// Fatal emits a fatal-level event through the default logger. The process
// is not exited; that decision belongs to the host.
func Fatal(msg string, fields ...Field) error {
	return Default().Fatal(msg, fields...)
}
