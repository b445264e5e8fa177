package flume

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Compression selects the algorithm applied to rotated segments.
type Compression string

const (
	CompressionNone    Compression = "none"
	CompressionGzip    Compression = "gzip"
	CompressionDeflate Compression = "deflate"
)

// ext returns the filename suffix appended to compressed rotated segments.
func (c Compression) ext() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionDeflate:
		return ".zz"
	default:
		return ""
	}
}

// segmentWriter owns the active log segment: it appends rendered text,
// answers size queries from the filesystem, and performs the
// rotate-and-compress transition.
//
// All operations hold the writer's mutex, so an append can never interleave
// with a rotation. Rotation is read-all, write-rotated, write-empty rather
// than a rename: some platforms disallow renaming open files, and this
// shape lets the old content be compressed without holding the active
// handle hostage.
type segmentWriter struct {
	mu   sync.Mutex
	path string
	dir  string
	base string
	file *os.File

	compression Compression
	compress    bool // compress rotated segments
}

// newSegmentWriter creates the writer and opens the active segment,
// creating parent directories as needed. Construction errors are fatal to
// the caller: a sink without a writable segment cannot function.
func newSegmentWriter(path string, compression Compression, compress bool) (*segmentWriter, error) {
	w := &segmentWriter{
		path:        path,
		dir:         filepath.Dir(path),
		base:        filepath.Base(path),
		compression: compression,
		compress:    compress,
	}
	if err := w.openLocked(); err != nil {
		return nil, err
	}
	return w, nil
}

// openLocked creates the parent directory and opens the active segment for
// appending. Idempotent. Callers must hold w.mu (or be the constructor).
func (w *segmentWriter) openLocked() error {
	if w.file != nil {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", w.dir, err)
	}
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", w.path, err)
	}
	w.file = file
	return nil
}

// append writes text plus a line terminator to the active segment.
func (w *segmentWriter) append(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.openLocked(); err != nil {
		return err
	}
	if _, err := w.file.WriteString(text + "\n"); err != nil {
		return fmt.Errorf("failed to write to log file %s: %w", w.path, err)
	}
	return nil
}

// sizeExceeds reports whether the active segment is larger than limit.
//
// The size comes from the filesystem, not an in-memory counter: external
// truncation or a previous rotation may have changed the file underneath
// us. A missing file means there is nothing to rotate.
func (w *segmentWriter) sizeExceeds(limit int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sizeExceedsLocked(limit)
}

func (w *segmentWriter) sizeExceedsLocked(limit int64) bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	return info.Size() > limit
}

// checkAndRotate rotates the active segment if it exceeds limit, reporting
// whether a rotation happened.
//
// The size check and the rotation share one lock acquisition: two writers
// that both saw an oversized segment cannot rotate twice, because the loser
// re-reads the size under the lock and finds the fresh segment.
func (w *segmentWriter) checkAndRotate(limit int64) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.sizeExceedsLocked(limit) {
		return false, nil
	}
	if err := w.rotateLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// rotate retires the active segment.
//
// The full current content is read, written to a new rotated path of the
// form <base>.<epochMillis> (with a compression suffix when enabled), and
// the active segment is recreated empty. Collisions within the same
// millisecond are last-writer-wins.
func (w *segmentWriter) rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rotateLocked()
}

func (w *segmentWriter) rotateLocked() error {
	content, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // nothing to rotate
		}
		return fmt.Errorf("failed to read segment for rotation: %w", err)
	}
	if len(content) == 0 {
		// An empty segment is never rotated: a zero-byte rotated file
		// would consume a retention slot.
		return nil
	}

	rotated := fmt.Sprintf("%s.%d", w.path, time.Now().UnixMilli())

	out := content
	if w.compress && w.compression != CompressionNone {
		compressed, cerr := compressSegment(content, w.compression)
		if cerr != nil {
			return fmt.Errorf("failed to compress rotated segment: %w", cerr)
		}
		out = compressed
		rotated += w.compression.ext()
	}

	if err := os.WriteFile(rotated, out, 0o644); err != nil {
		return fmt.Errorf("failed to write rotated segment %s: %w", rotated, err)
	}

	// Recreate the active segment empty. Close first so the truncation is
	// not fighting an open append handle.
	if w.file != nil {
		w.file.Close()
		w.file = nil
	}
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to recreate active segment %s: %w", w.path, err)
	}
	w.file = file
	return nil
}

// compressSegment compresses content with the configured algorithm.
func compressSegment(content []byte, algorithm Compression) ([]byte, error) {
	var buf bytes.Buffer
	switch algorithm {
	case CompressionGzip:
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(content); err != nil {
			return nil, err
		}
		if err := gz.Close(); err != nil {
			return nil, err
		}
	case CompressionDeflate:
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(content); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
	default:
		return content, nil
	}
	return buf.Bytes(), nil
}

// close releases the active segment handle. Further appends reopen it.
func (w *segmentWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
