package flume

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingSink captures every event it receives and can fail on demand.
type recordingSink struct {
	mu     sync.Mutex
	name   string
	events []Event
	err    error
}

func (s *recordingSink) Name() string {
	if s.name == "" {
		return "recording"
	}
	return s.name
}

func (s *recordingSink) Write(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) recorded() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// asyncRecordingSink is a recordingSink with native async capability, used
// to verify the dispatcher prefers WriteAsync over the goroutine fallback.
type asyncRecordingSink struct {
	recordingSink
	asyncCalls int
}

func (s *asyncRecordingSink) WriteAsync(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asyncCalls++
	s.events = append(s.events, event)
}

// waitForEvents polls until the sink has at least n events or the deadline
// passes. Needed for async dispatch assertions.
func waitForEvents(t *testing.T, s *recordingSink, n int) []Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if events := s.recorded(); len(events) >= n {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %d", n, len(s.recorded()))
	return nil
}

func TestLoggerThreshold(t *testing.T) {
	t.Run("below-threshold events never reach sinks", func(t *testing.T) {
		sink := &recordingSink{}
		log := New(Config{Threshold: WARN, Sinks: []Sink{sink}})

		log.Info("suppressed")
		log.Debug("suppressed")
		log.Warn("delivered")
		log.Error("delivered")

		events := sink.recorded()
		if len(events) != 2 {
			t.Fatalf("expected 2 delivered events but got %d", len(events))
		}
		if events[0].Level != WARN || events[1].Level != ERROR {
			t.Errorf("wrong levels delivered: %v, %v", events[0].Level, events[1].Level)
		}
	})

	t.Run("silent events are always suppressed", func(t *testing.T) {
		sink := &recordingSink{}
		log := New(Config{Threshold: TRACE, Sinks: []Sink{sink}})

		if err := log.Log(SILENT, "never delivered"); err != nil {
			t.Errorf("suppressed event returned error: %v", err)
		}
		if len(sink.recorded()) != 0 {
			t.Error("SILENT event reached a sink")
		}
	})

	t.Run("SILENT threshold delivers nothing", func(t *testing.T) {
		sink := &recordingSink{}
		log := New(Config{Threshold: SILENT, Sinks: []Sink{sink}})

		log.Fatal("suppressed")
		log.Error("suppressed")
		log.Info("suppressed")

		if got := len(sink.recorded()); got != 0 {
			t.Errorf("SILENT threshold delivered %d events", got)
		}
	})

	t.Run("threshold is adjustable at runtime", func(t *testing.T) {
		sink := &recordingSink{}
		log := New(Config{Threshold: ERROR, Sinks: []Sink{sink}})

		log.Info("suppressed")
		log.SetThreshold(DEBUG)
		log.Info("delivered")

		if len(sink.recorded()) != 1 {
			t.Fatalf("expected 1 event after threshold change, got %d", len(sink.recorded()))
		}
	})

	t.Run("empty threshold defaults to INFO", func(t *testing.T) {
		sink := &recordingSink{}
		log := New(Config{Sinks: []Sink{sink}})

		log.Debug("suppressed")
		log.Info("delivered")

		if len(sink.recorded()) != 1 {
			t.Errorf("default threshold should admit INFO and block DEBUG")
		}
	})
}

func TestLoggerSyncDispatch(t *testing.T) {
	t.Run("sinks receive events in registration order", func(t *testing.T) {
		first := &recordingSink{name: "first"}
		second := &recordingSink{name: "second"}
		log := New(Config{Sinks: []Sink{first}})
		log.AddSink(second)

		log.Info("hello")

		if len(first.recorded()) != 1 || len(second.recorded()) != 1 {
			t.Fatal("both sinks should receive the event")
		}
	})

	t.Run("a failing sink does not starve the others", func(t *testing.T) {
		failing := &recordingSink{name: "failing", err: errors.New("disk full")}
		healthy := &recordingSink{name: "healthy"}
		log := New(Config{Sinks: []Sink{failing, healthy}})

		err := log.Info("important")
		if err == nil {
			t.Fatal("expected the sink error to propagate in sync mode")
		}
		if len(healthy.recorded()) != 1 {
			t.Error("sink after the failing one never received the event")
		}
	})

	t.Run("first error wins when several sinks fail", func(t *testing.T) {
		errA := errors.New("first failure")
		errB := errors.New("second failure")
		log := New(Config{Sinks: []Sink{
			&recordingSink{err: errA},
			&recordingSink{err: errB},
		}})

		if err := log.Info("m"); !errors.Is(err, errA) {
			t.Errorf("expected first error, got %v", err)
		}
	})
}

func TestLoggerAsyncDispatch(t *testing.T) {
	t.Run("native async sinks get WriteAsync", func(t *testing.T) {
		sink := &asyncRecordingSink{}
		log := New(Config{Mode: ModeAsync, Sinks: []Sink{sink}})

		if err := log.Info("async"); err != nil {
			t.Fatalf("async log returned error: %v", err)
		}

		waitForEvents(t, &sink.recordingSink, 1)
		sink.mu.Lock()
		calls := sink.asyncCalls
		sink.mu.Unlock()
		if calls != 1 {
			t.Errorf("expected 1 WriteAsync call but got %d", calls)
		}
	})

	t.Run("sync-only sinks still receive every event", func(t *testing.T) {
		sink := &recordingSink{}
		log := New(Config{Mode: ModeAsync, Sinks: []Sink{sink}})

		log.Info("deferred")

		events := waitForEvents(t, sink, 1)
		if events[0].Message != "deferred" {
			t.Errorf("wrong event delivered: %q", events[0].Message)
		}
	})

	t.Run("sink errors never reach the caller", func(t *testing.T) {
		prev := make(chan error, 1)
		SetErrorHandler(func(err error) {
			select {
			case prev <- err:
			default:
			}
		})
		defer SetErrorHandler(nil)

		sink := &recordingSink{err: errors.New("unreachable endpoint")}
		log := New(Config{Mode: ModeAsync, Sinks: []Sink{sink}})

		if err := log.Error("boom"); err != nil {
			t.Fatalf("async dispatch leaked an error: %v", err)
		}

		select {
		case err := <-prev:
			if err == nil {
				t.Error("handler received nil error")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("error handler never invoked")
		}
	})

	t.Run("mode switches at runtime", func(t *testing.T) {
		log := New(Config{})
		if log.Mode() != ModeSync {
			t.Fatal("default mode should be sync")
		}
		log.SetMode(ModeAsync)
		if log.Mode() != ModeAsync {
			t.Error("SetMode did not take effect")
		}
	})
}

func TestLoggerWith(t *testing.T) {
	t.Run("child carries prefix and merged fields", func(t *testing.T) {
		sink := &recordingSink{}
		log := New(Config{
			Prefix: "app",
			Fields: Fields{String("region", "us-east")},
			Sinks:  []Sink{sink},
		})

		child := log.With("worker", String("worker_id", "w1"))
		child.Info("processing", Int("job", 42))

		events := sink.recorded()
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		event := events[0]
		if event.Prefix != "worker" {
			t.Errorf("expected prefix 'worker' but got %q", event.Prefix)
		}
		keys := make([]string, len(event.Fields))
		for i, f := range event.Fields {
			keys[i] = f.Key
		}
		want := []string{"region", "worker_id", "job"}
		for i, k := range want {
			if keys[i] != k {
				t.Errorf("field order: got %v, want %v", keys, want)
				break
			}
		}
	})

	t.Run("empty prefix inherits the parent's", func(t *testing.T) {
		sink := &recordingSink{}
		log := New(Config{Prefix: "app", Sinks: []Sink{sink}})

		log.With("").Info("m")

		if events := sink.recorded(); events[0].Prefix != "app" {
			t.Errorf("expected inherited prefix but got %q", events[0].Prefix)
		}
	})

	t.Run("child is isolated from later parent changes", func(t *testing.T) {
		sink := &recordingSink{}
		log := New(Config{Threshold: INFO, Sinks: []Sink{sink}})

		child := log.With("child")
		log.SetThreshold(ERROR)

		child.Info("still delivered")
		log.Info("suppressed")

		if len(sink.recorded()) != 1 {
			t.Errorf("child snapshot should keep the INFO threshold")
		}
	})

	t.Run("sinks added to the parent do not reach the child", func(t *testing.T) {
		first := &recordingSink{}
		late := &recordingSink{}
		log := New(Config{Sinks: []Sink{first}})

		child := log.With("child")
		log.AddSink(late)

		child.Info("m")

		if len(late.recorded()) != 0 {
			t.Error("child snapshot should not see sinks added afterwards")
		}
	})
}

func TestLoggerLeveledMethods(t *testing.T) {
	sink := &recordingSink{}
	log := New(Config{Threshold: TRACE, Sinks: []Sink{sink}})

	log.Trace("t")
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")
	log.Fatal("f")

	events := sink.recorded()
	want := []Level{TRACE, DEBUG, INFO, WARN, ERROR, FATAL}
	if len(events) != len(want) {
		t.Fatalf("expected %d events but got %d", len(want), len(events))
	}
	for i, level := range want {
		if events[i].Level != level {
			t.Errorf("event %d: got level %s, want %s", i, events[i].Level, level)
		}
	}
}
