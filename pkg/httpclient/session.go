// Package httpclient provides an HTTP session: a client with a cookie jar
// and default headers that persist across all requests in a run.
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Config defines the session setup.
type Config struct {
	// Timeout bounds each individual request. Zero falls back to 30s.
	Timeout time.Duration
	// Transport optionally replaces the default transport, e.g. for TLS
	// fingerprinting or proxying.
	Transport http.RoundTripper
	// DefaultHeaders are applied to every outgoing request unless a
	// per-request header of the same name overrides them.
	DefaultHeaders http.Header
}

// Session wraps http.Client with cookie persistence and default headers.
// Cookies accumulate for the lifetime of the session, mirroring a browser
// visiting successive result pages.
type Session struct {
	client   *http.Client
	defaults http.Header
}

// NewSession creates a session from the given configuration.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &http.Client{
		Timeout: cfg.Timeout,
		Jar:     jar,
	}
	if cfg.Transport != nil {
		c.Transport = cfg.Transport
	}

	defaults := http.Header{}
	for k, vs := range cfg.DefaultHeaders {
		for _, v := range vs {
			defaults.Add(k, v)
		}
	}

	return &Session{client: c, defaults: defaults}, nil
}

// Get issues a GET request to the target URL. Per-call headers override the
// session defaults key by key.
func (s *Session) Get(ctx context.Context, targetURL string, headers http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, vs := range s.defaults {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", targetURL, err)
	}
	return resp, nil
}
