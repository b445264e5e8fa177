package flume

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// batchEntry is one rendered line waiting in the batch buffer.
type batchEntry struct {
	text       string
	enqueuedAt time.Time
}

// batcher is the in-memory queue of rendered entries awaiting a periodic
// flush.
//
// Enqueue never performs I/O. A ticker fires every interval; each tick
// captures the whole buffer and swaps in an empty one under the mutex, so
// entries enqueued during a flush land in the next tick - never lost, never
// duplicated. The captured entries are concatenated in enqueue order and
// written through a single flush call.
//
// A failed flush re-prepends the captured batch ahead of anything enqueued
// in the meantime, preserving order for the retry on the next tick. This is
// at-least-once delivery: repeated failures can duplicate entries, which is
// the accepted trade-off for never silently losing them.
type batcher struct {
	mu      sync.Mutex
	entries []batchEntry

	interval time.Duration
	flush    func(text string) error

	ticker   *time.Ticker
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// newBatcher starts the flush loop. interval must be > 0; flush performs
// the single append (and the rotation check behind it).
func newBatcher(interval time.Duration, flush func(text string) error) *batcher {
	b := &batcher{
		interval: interval,
		flush:    flush,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// enqueue appends an entry to the in-order buffer. Returns immediately.
func (b *batcher) enqueue(text string) {
	b.mu.Lock()
	b.entries = append(b.entries, batchEntry{text: text, enqueuedAt: time.Now()})
	b.mu.Unlock()
}

// run is the flush loop. It exits when the batcher is closed.
func (b *batcher) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ticker.C:
			if err := b.flushOnce(); err != nil {
				reportError(err)
			}
		case <-b.done:
			return
		}
	}
}

// flushOnce captures the current buffer, swaps in an empty one, and writes
// the captured entries as a single append. On failure the captured batch is
// restored to the front of the live buffer.
func (b *batcher) flushOnce() error {
	b.mu.Lock()
	if len(b.entries) == 0 {
		b.mu.Unlock()
		return nil
	}
	captured := b.entries
	b.entries = nil
	b.mu.Unlock()

	lines := make([]string, len(captured))
	for i, entry := range captured {
		lines[i] = entry.text
	}

	if err := b.flush(strings.Join(lines, "\n")); err != nil {
		// Restore captured entries ahead of anything enqueued during the
		// attempt, so retry order matches enqueue order.
		b.mu.Lock()
		b.entries = append(captured, b.entries...)
		b.mu.Unlock()
		return fmt.Errorf("batch flush of %d entries failed: %w", len(captured), err)
	}
	return nil
}

// close stops the ticker and performs one final synchronous flush attempt.
// Idempotent: repeated closes are no-ops. A final-flush failure is reported,
// not returned, since shutdown must not hang or crash the host.
func (b *batcher) close() {
	b.stopOnce.Do(func() {
		b.ticker.Stop()
		close(b.done)
		b.wg.Wait()
		if err := b.flushOnce(); err != nil {
			reportError(err)
		}
	})
}
