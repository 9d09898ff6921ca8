// Package useragent provides a rotation pool of browser User-Agent strings.
// Varying the User-Agent per attempt reduces fingerprint uniformity across
// requests in a scraping session.
package useragent

import (
	"fmt"
	"math/rand"
	"sync"
)

// DefaultPool is a small rotation of common desktop user agents.
var DefaultPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0 Safari/537.36",
}

// Pool draws User-Agent strings pseudo-randomly from a fixed set. It is safe
// for concurrent use.
type Pool struct {
	mu  sync.Mutex
	uas []string
	rng *rand.Rand
}

// NewPool creates a pool over the given agents. An empty slice falls back to
// DefaultPool. The slice is copied to guard against external mutation.
func NewPool(uas []string) *Pool {
	if len(uas) == 0 {
		uas = DefaultPool
	}
	copied := make([]string, len(uas))
	copy(copied, uas)
	return &Pool{uas: copied}
}

// Seed installs a deterministic random source, for tests.
func (p *Pool) Seed(seed int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rng = rand.New(rand.NewSource(seed))
}

// Pick returns a pseudo-randomly chosen User-Agent from the pool.
func (p *Pool) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.uas) == 0 {
		return ""
	}
	if p.rng != nil {
		return p.uas[p.rng.Intn(len(p.uas))]
	}
	return p.uas[rand.Intn(len(p.uas))]
}

// All returns a copy of the pool contents.
func (p *Pool) All() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	copied := make([]string, len(p.uas))
	copy(copied, p.uas)
	return copied
}

// RecoveryVariant synthesizes a Chrome User-Agent with a randomized major
// version. Block-recovery retries use this instead of the fixed pool so each
// retry presents a header the server has not seen in the session.
func RecoveryVariant() string {
	major := 110 + rand.Intn(16)
	return fmt.Sprintf(
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0 Safari/537.36",
		major,
	)
}
