package flume

import (
	"fmt"
	"os"
	"sync"
)

// ErrorHandler receives failures from the asynchronous and batched paths:
// async sink writes, rotation failures, retention sweep errors, and final
// flush failures on shutdown. These must never propagate to logging call
// sites, so they are funneled here instead.
type ErrorHandler func(err error)

var (
	errMu      sync.RWMutex
	errHandler ErrorHandler = func(err error) {
		fmt.Fprintf(os.Stderr, "flume: %v\n", err)
	}
)

// SetErrorHandler replaces the process-wide error handler.
//
// The default handler writes to stderr. Hosts that want to capture pipeline
// failures (for metrics, alerting, or tests) install their own handler:
//
//	flume.SetErrorHandler(func(err error) {
//	    metrics.Increment("log_pipeline_errors")
//	})
//
// Passing nil restores the default stderr handler.
func SetErrorHandler(h ErrorHandler) {
	errMu.Lock()
	defer errMu.Unlock()
	if h == nil {
		h = func(err error) {
			fmt.Fprintf(os.Stderr, "flume: %v\n", err)
		}
	}
	errHandler = h
}

// reportError delivers an internal failure to the installed handler.
func reportError(err error) {
	if err == nil {
		return
	}
	errMu.RLock()
	h := errHandler
	errMu.RUnlock()
	h(err)
}
