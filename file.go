package flume

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	defaultMaxSizeBytes    = 10 * 1024 * 1024 // 10 MiB
	defaultMaxRotatedFiles = 5
)

// FileSinkConfig configures a FileSink. All fields are fixed at
// construction; there is no runtime mutation.
type FileSinkConfig struct {
	// Path is the active segment file. Required. Parent directories are
	// created on demand.
	Path string

	// MaxSizeBytes is the rotation threshold for the active segment.
	// Defaults to 10 MiB when zero or negative.
	MaxSizeBytes int64

	// MaxRotatedFiles is how many rotated segments retention keeps.
	// Defaults to 5 when zero or negative.
	MaxRotatedFiles int

	// Compression selects the algorithm for rotated segments: none, gzip
	// (".gz" suffix), or deflate (".zz" suffix). Defaults to none.
	Compression Compression

	// BatchInterval enables batched writes when positive: entries are
	// buffered in memory and flushed as one append per tick. Zero disables
	// batching and every write hits the file before returning.
	BatchInterval time.Duration

	// DisableCompression keeps rotated segments raw even when Compression
	// names an algorithm. The default (false) compresses rotated segments.
	DisableCompression bool
}

// FileSink delivers rendered events to a size-rotated, optionally
// compressed log file.
//
// Exactly one segment is active at a time. After each completed write (or
// batched flush) the active segment's size is checked against
// MaxSizeBytes; on overflow it is rotated to <path>.<epochMillis> (plus a
// compression suffix) and retention deletes the oldest rotated segments
// beyond MaxRotatedFiles. Rotation and retention run inline in the write
// path that detected the overflow, so two rotations can never race.
//
// A failed rotation is reported and swallowed: the active file, even
// over-size, remains writable. Losing rotation must not stop logging.
//
// FileSink assumes a single process owns the path. Two processes writing
// the same path is undefined behavior.
//
// Example usage:
//
//	sink, err := flume.NewFileSink(flume.FileSinkConfig{
//	    Path:          "logs/app.log",
//	    MaxSizeBytes:  50 * 1024 * 1024,
//	    Compression:   flume.CompressionGzip,
//	    BatchInterval: 200 * time.Millisecond,
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	defer sink.Close()
type FileSink struct {
	cfg      FileSinkConfig
	renderer Renderer
	writer   *segmentWriter
	batch    *batcher // nil when batching is disabled

	closeOnce sync.Once
	closeErr  error
}

// NewFileSink creates a file sink, opening the active segment immediately.
//
// A nil renderer defaults to JSONRenderer, matching the format of the other
// sinks. Construction fails if the path is empty or the directory/file
// cannot be created - a sink without a writable segment cannot function.
func NewFileSink(cfg FileSinkConfig, r Renderer) (*FileSink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file sink requires a path")
	}
	if cfg.MaxSizeBytes <= 0 {
		cfg.MaxSizeBytes = defaultMaxSizeBytes
	}
	if cfg.MaxRotatedFiles <= 0 {
		cfg.MaxRotatedFiles = defaultMaxRotatedFiles
	}
	if cfg.Compression == "" {
		cfg.Compression = CompressionNone
	}
	if r == nil {
		r = JSONRenderer{}
	}

	writer, err := newSegmentWriter(cfg.Path, cfg.Compression, !cfg.DisableCompression)
	if err != nil {
		return nil, err
	}

	s := &FileSink{
		cfg:      cfg,
		renderer: r,
		writer:   writer,
	}
	if cfg.BatchInterval > 0 {
		s.batch = newBatcher(cfg.BatchInterval, s.appendAndCheck)
	}
	return s, nil
}

// Name implements Sink.
func (s *FileSink) Name() string { return "file" }

// Write delivers one event.
//
// With batching disabled the rendered line is appended before Write
// returns, and any append error propagates to the caller. With batching
// enabled the line is enqueued for the next flush tick and Write returns
// immediately; flush failures surface through the error handler.
func (s *FileSink) Write(_ context.Context, event Event) error {
	line := s.renderer.Render(event)
	if s.batch != nil {
		s.batch.enqueue(line)
		return nil
	}
	return s.appendAndCheck(line)
}

// WriteAsync implements AsyncWriter: fire-and-forget delivery whose
// failures go to the error handler instead of the caller.
func (s *FileSink) WriteAsync(_ context.Context, event Event) {
	line := s.renderer.Render(event)
	if s.batch != nil {
		s.batch.enqueue(line)
		return
	}
	go func() {
		if err := s.appendAndCheck(line); err != nil {
			reportError(err)
		}
	}()
}

// appendAndCheck appends text and runs the post-write rotation check.
//
// The check is post-write by design: a single entry larger than
// MaxSizeBytes lands in the current segment and triggers rotation on the
// next check, avoiding a read-before-write race. The check and the rotation
// share one lock acquisition inside the writer, so concurrent writers
// cannot double-rotate. Rotation and retention failures are reported, never
// returned - only the append error surfaces.
func (s *FileSink) appendAndCheck(text string) error {
	if err := s.writer.append(text); err != nil {
		return err
	}
	rotated, err := s.writer.checkAndRotate(s.cfg.MaxSizeBytes)
	if err != nil {
		reportError(fmt.Errorf("rotation of %s failed: %w", s.cfg.Path, err))
		return nil
	}
	if rotated {
		if err := s.writer.applyRetention(s.cfg.MaxRotatedFiles); err != nil {
			reportError(err)
		}
	}
	return nil
}

// Close stops the flush timer (idempotently), performs one final flush of
// any buffered entries, and releases the active segment handle. Safe to
// call multiple times.
func (s *FileSink) Close() error {
	s.closeOnce.Do(func() {
		if s.batch != nil {
			s.batch.close()
		}
		s.closeErr = s.writer.close()
	})
	return s.closeErr
}
