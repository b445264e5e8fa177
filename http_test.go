package flume

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// capturedRequest records what the test server received.
type capturedRequest struct {
	method    string
	body      string
	headers   http.Header
	userAgent string
}

func newCaptureServer(status int, response string) (*httptest.Server, func() []capturedRequest) {
	var mu sync.Mutex
	var requests []capturedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, capturedRequest{
			method:    r.Method,
			body:      string(body),
			headers:   r.Header.Clone(),
			userAgent: r.UserAgent(),
		})
		mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte(response)) //nolint:errcheck
	}))

	return server, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), requests...)
	}
}

func TestHTTPSink(t *testing.T) {
	event := NewEvent(ERROR, "upstream timeout", Fields{String("service", "billing")})

	t.Run("posts the rendered event as JSON", func(t *testing.T) {
		server, received := newCaptureServer(http.StatusOK, "")
		defer server.Close()

		sink := NewHTTPSink(server.URL)
		if err := sink.Write(context.Background(), event); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		requests := received()
		if len(requests) != 1 {
			t.Fatalf("expected 1 request but got %d", len(requests))
		}
		req := requests[0]
		if req.method != http.MethodPost {
			t.Errorf("expected POST but got %s", req.method)
		}
		if ct := req.headers.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type but got %q", ct)
		}

		var entry map[string]any
		if err := json.Unmarshal([]byte(req.body), &entry); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		if entry["message"] != "upstream timeout" || entry["service"] != "billing" {
			t.Errorf("unexpected body: %v", entry)
		}
	})

	t.Run("non-2xx responses fail with status and body", func(t *testing.T) {
		server, _ := newCaptureServer(http.StatusBadGateway, "collector overloaded")
		defer server.Close()

		sink := NewHTTPSink(server.URL)
		err := sink.Write(context.Background(), event)
		if err == nil {
			t.Fatal("expected an error for a 502 response")
		}
		if !strings.Contains(err.Error(), "502") {
			t.Errorf("error should name the status: %v", err)
		}
		if !strings.Contains(err.Error(), "collector overloaded") {
			t.Errorf("error should carry the response body: %v", err)
		}
	})

	t.Run("custom method, headers and user agent", func(t *testing.T) {
		server, received := newCaptureServer(http.StatusAccepted, "")
		defer server.Close()

		sink := NewHTTPSink(server.URL,
			WithMethod(http.MethodPut),
			WithHeaders(map[string]string{"Authorization": "Bearer token123"}),
			WithUserAgent("collector-agent/2.0"),
		)
		if err := sink.Write(context.Background(), event); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		req := received()[0]
		if req.method != http.MethodPut {
			t.Errorf("expected PUT but got %s", req.method)
		}
		if auth := req.headers.Get("Authorization"); auth != "Bearer token123" {
			t.Errorf("missing auth header, got %q", auth)
		}
		if req.userAgent != "collector-agent/2.0" {
			t.Errorf("got user agent %q", req.userAgent)
		}
	})

	t.Run("custom renderer controls the body", func(t *testing.T) {
		server, received := newCaptureServer(http.StatusOK, "")
		defer server.Close()

		sink := NewHTTPSink(server.URL, WithRenderer(rawRenderer{}))
		if err := sink.Write(context.Background(), event); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		if body := received()[0].body; body != "upstream timeout" {
			t.Errorf("got body %q", body)
		}
	})

	t.Run("empty URL fails every write", func(t *testing.T) {
		sink := NewHTTPSink("")
		if err := sink.Write(context.Background(), event); err == nil {
			t.Error("expected an error for a missing URL")
		}
	})

	t.Run("unreachable endpoint fails", func(t *testing.T) {
		sink := NewHTTPSink("http://127.0.0.1:1", WithRequestTimeout(500*time.Millisecond))
		if err := sink.Write(context.Background(), event); err == nil {
			t.Error("expected a transport error")
		}
	})
}
