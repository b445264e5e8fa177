package flume

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPOption configures HTTP sink behavior using the functional options pattern.
type HTTPOption func(*httpConfig)

// httpConfig holds configuration for HTTP sink.
type httpConfig struct {
	headers   map[string]string
	method    string
	userAgent string
	timeout   time.Duration
	renderer  Renderer
}

// WithMethod sets the HTTP method for requests (default: POST).
func WithMethod(method string) HTTPOption {
	return func(config *httpConfig) {
		if method != "" {
			config.method = method
		}
	}
}

// WithHeaders sets custom HTTP headers for requests.
// Common use cases:
//   - Authorization: "Bearer token123"
//   - X-API-Key: "key123"
func WithHeaders(headers map[string]string) HTTPOption {
	return func(config *httpConfig) {
		if config.headers == nil {
			config.headers = make(map[string]string)
		}
		for k, v := range headers {
			config.headers[k] = v
		}
	}
}

// WithRequestTimeout sets the HTTP request timeout (default: 30 seconds).
func WithRequestTimeout(timeout time.Duration) HTTPOption {
	return func(config *httpConfig) {
		if timeout > 0 {
			config.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom User-Agent header (default: "flume-http-sink/1.0").
func WithUserAgent(userAgent string) HTTPOption {
	return func(config *httpConfig) {
		if userAgent != "" {
			config.userAgent = userAgent
		}
	}
}

// WithRenderer sets the renderer used for the request body
// (default: JSONRenderer).
func WithRenderer(r Renderer) HTTPOption {
	return func(config *httpConfig) {
		if r != nil {
			config.renderer = r
		}
	}
}

// NewHTTPSink creates a sink that sends rendered events to an HTTP endpoint.
//
// This sink is designed for integration with webhooks, log aggregation APIs,
// and custom log collectors. The body defaults to the same JSON object the
// other sinks emit, so one collector schema serves the whole pipeline.
//
// Parameters:
//   - url: The HTTP endpoint to send events to
//   - options: Functional options for configuration
//
// Example usage:
//
//	// Basic webhook
//	webhook := flume.NewHTTPSink("https://hooks.example.com/logs")
//
//	// API with authentication
//	apiSink := flume.NewHTTPSink("https://api.example.com/logs",
//	    flume.WithHeaders(map[string]string{
//	        "Authorization": "Bearer " + token,
//	    }),
//	    flume.WithRequestTimeout(10 * time.Second),
//	)
//
//	// With adapters for reliability
//	productionSink := apiSink.
//	    WithBackoff(3, time.Second).
//	    WithAsync()
//
// The sink handles HTTP error responses as processing errors, making them
// compatible with the retry and fallback adapters. Delivery is at-least-once
// when combined with retry; the endpoint must tolerate duplicates.
//
// HTTP status codes 200-299 are considered successful. All other status
// codes result in an error that includes the response status and body
// (if available).
func NewHTTPSink(url string, options ...HTTPOption) *Chain {
	// Apply default configuration
	config := &httpConfig{
		method:    "POST",
		headers:   make(map[string]string),
		timeout:   30 * time.Second,
		userAgent: "flume-http-sink/1.0",
		renderer:  JSONRenderer{},
	}

	// Apply functional options
	for _, option := range options {
		option(config)
	}

	// Validate URL
	if url == "" {
		return NewSink("http-failed", func(_ context.Context, _ Event) error {
			return fmt.Errorf("HTTP sink requires a valid URL")
		})
	}

	// Create HTTP client with configured timeout
	client := &http.Client{
		Timeout: config.timeout,
	}

	return NewSink("http", func(ctx context.Context, event Event) error {
		body := config.renderer.Render(event)

		req, err := http.NewRequestWithContext(ctx, config.method, url, strings.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create HTTP request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", config.userAgent)

		// Apply custom headers
		for key, value := range config.headers {
			req.Header.Set(key, value)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		// Check status code (2xx = success)
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Read up to 1KB of the response body for error details
			buf := make([]byte, 1024)
			n, _ := resp.Body.Read(buf) //nolint:errcheck // Best effort error body read
			return fmt.Errorf("HTTP request failed with status %d: %s", resp.StatusCode, string(buf[:n]))
		}

		return nil
	})
}
