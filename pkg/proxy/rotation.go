// Package proxy manages the optional outbound proxies used for search
// requests. One or more proxies rotate round-robin; a proxy that keeps
// failing is benched for a cooldown period.
package proxy

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultMaxFailures = 3
	defaultCooldown    = 5 * time.Minute
)

type entry struct {
	url         *url.URL
	failures    int
	benchedTill time.Time
}

// Rotation hands out proxy URLs round-robin, skipping benched entries.
// A nil or empty Rotation always returns nil, meaning direct connection.
type Rotation struct {
	mu          sync.Mutex
	entries     []*entry
	next        int
	maxFailures int
	cooldown    time.Duration
}

// New parses the raw proxy URLs into a Rotation. A URL without a scheme
// defaults to http. An empty input yields a usable rotation that always
// returns nil.
func New(rawURLs ...string) (*Rotation, error) {
	r := &Rotation{maxFailures: defaultMaxFailures, cooldown: defaultCooldown}
	for _, raw := range rawURLs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "://") {
			raw = "http://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", raw, err)
		}
		r.entries = append(r.entries, &entry{url: u})
	}
	return r, nil
}

// Next returns the next usable proxy URL, or nil if none are available.
func (r *Rotation) Next() *url.URL {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return nil
	}

	now := time.Now()
	for i := 0; i < len(r.entries); i++ {
		e := r.entries[r.next]
		r.next = (r.next + 1) % len(r.entries)

		if !e.benchedTill.IsZero() && now.After(e.benchedTill) {
			e.benchedTill = time.Time{}
			e.failures = 0
		}
		if e.benchedTill.IsZero() {
			return e.url
		}
	}
	return nil
}

// MarkFailure records a failed request through the given proxy. Reaching the
// failure threshold benches the proxy for the cooldown period.
func (r *Rotation) MarkFailure(u *url.URL) {
	if r == nil || u == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	target := u.String()
	for _, e := range r.entries {
		if e.url.String() != target {
			continue
		}
		e.failures++
		if e.failures >= r.maxFailures {
			e.benchedTill = time.Now().Add(r.cooldown)
		}
		return
	}
}

// MarkSuccess credits a proxy after a successful request, unwinding one
// recorded failure.
func (r *Rotation) MarkSuccess(u *url.URL) {
	if r == nil || u == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	target := u.String()
	for _, e := range r.entries {
		if e.url.String() == target && e.failures > 0 {
			e.failures--
			return
		}
	}
}

// Len reports how many proxies are configured, benched or not.
func (r *Rotation) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
