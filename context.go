package flume

import (
	"context"
	"runtime"
	"sync"
)

// contextStore manages goroutine-local context storage for dispatch.
// This allows flume to hand request-scoped context (for tracing, deadlines
// on transport sinks, etc.) to sinks without requiring users to pass
// context to every logging call.
type contextStore struct {
	contexts map[int64]context.Context
	mu       sync.RWMutex
}

var store = &contextStore{
	contexts: make(map[int64]context.Context),
}

// getGoroutineID returns the current goroutine ID, parsed from the stack
// header. Used only as a key for goroutine-local context storage.
func getGoroutineID() int64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	// Parse "goroutine 123 [running]:"
	start := 10
	for i := start; i < n; i++ {
		if buf[i] == ' ' {
			var id int64
			for j := start; j < i; j++ {
				id = id*10 + int64(buf[j]-'0')
			}
			return id
		}
	}
	return 0
}

// SetContext stores a context for the current goroutine.
// This context will be passed to sinks for subsequent logging calls within
// this goroutine until ClearContext() is called or the goroutine ends.
//
// This enables context propagation without changing the logging API:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    flume.SetContext(r.Context()) // Set once
//	    defer flume.ClearContext()
//
//	    // All logging calls in this goroutine carry the request context
//	    flume.Info("Processing request", flume.String("path", r.URL.Path))
//	}
func SetContext(ctx context.Context) {
	if ctx == nil {
		return
	}

	gid := getGoroutineID()
	store.mu.Lock()
	store.contexts[gid] = ctx
	store.mu.Unlock()
}

// ClearContext removes the stored context for the current goroutine.
// This should typically be called with defer to ensure cleanup.
func ClearContext() {
	gid := getGoroutineID()
	store.mu.Lock()
	delete(store.contexts, gid)
	store.mu.Unlock()
}

// getContext retrieves the context for the current goroutine.
// Returns context.Background() if no context has been set.
func getContext() context.Context {
	gid := getGoroutineID()
	store.mu.RLock()
	ctx, exists := store.contexts[gid]
	store.mu.RUnlock()

	if !exists {
		return context.Background()
	}
	return ctx
}

// WithContext temporarily sets a context for the current goroutine and
// returns a function that restores the previous state:
//
//	restore := flume.WithContext(traceCtx)
//	defer restore()
func WithContext(ctx context.Context) func() {
	gid := getGoroutineID()

	store.mu.RLock()
	oldCtx, hadOldCtx := store.contexts[gid]
	store.mu.RUnlock()

	SetContext(ctx)

	return func() {
		store.mu.Lock()
		if hadOldCtx {
			store.contexts[gid] = oldCtx
		} else {
			delete(store.contexts, gid)
		}
		store.mu.Unlock()
	}
}
