package block

import (
	"math"
	"math/rand"
	"time"
)

// DefaultBackoffFactor is the exponential growth base applied between retry
// attempts.
const DefaultBackoffFactor = 1.5

// Backoff computes retry delays that grow exponentially with the attempt
// number: factor^(attempt-1) + U[0, 0.5) units. The policy imposes no upper
// cap; callers bound the number of attempts instead.
type Backoff struct {
	// Factor is the exponential base. Zero or negative falls back to
	// DefaultBackoffFactor.
	Factor float64
	// Unit scales the computed delay. Zero falls back to one second.
	Unit time.Duration
	// Rand supplies jitter. Nil uses the shared math/rand source.
	Rand *rand.Rand
}

// Delay returns the sleep duration before the given 1-based attempt.
// Attempts below 1 are treated as 1, so the deterministic component of the
// first delay is exactly one unit.
func (b Backoff) Delay(attempt int) time.Duration {
	factor := b.Factor
	if factor <= 0 {
		factor = DefaultBackoffFactor
	}
	unit := b.Unit
	if unit == 0 {
		unit = time.Second
	}
	if attempt < 1 {
		attempt = 1
	}

	base := math.Pow(factor, float64(attempt-1))
	var jitter float64
	if b.Rand != nil {
		jitter = b.Rand.Float64() / 2
	} else {
		jitter = rand.Float64() / 2
	}

	return time.Duration((base + jitter) * float64(unit))
}
