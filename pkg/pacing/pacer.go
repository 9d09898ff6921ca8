// Package pacing spaces successive requests by sleeping for randomized
// intervals. It replaces fixed-rate limiting: the workload here is a short
// ordered sequence of page fetches, not a sustained request stream.
package pacing

import (
	"context"
	"math/rand"
	"time"
)

// Pacer draws a pause uniformly from [Min, Max) before each successive
// request. A zero Pacer never pauses.
type Pacer struct {
	Min time.Duration
	Max time.Duration
	// Rand supplies the draw. Nil uses the shared math/rand source.
	Rand *rand.Rand
}

// NewPacer returns a Pacer over the default inter-page window.
// The window is deliberately sub-two-seconds: long enough to avoid hammering
// the engine, short enough to keep multi-page runs usable.
func NewPacer() Pacer {
	return Pacer{Min: 800 * time.Millisecond, Max: 1600 * time.Millisecond}
}

// Interval returns one randomized pause duration.
func (p Pacer) Interval() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	span := p.Max - p.Min
	var f float64
	if p.Rand != nil {
		f = p.Rand.Float64()
	} else {
		f = rand.Float64()
	}
	return p.Min + time.Duration(f*float64(span))
}

// Pause sleeps for one randomized interval or until the context is canceled.
func (p Pacer) Pause(ctx context.Context) error {
	return Sleep(ctx, p.Interval())
}

// Sleep blocks for d or until the context is canceled, whichever comes
// first. It returns the context error on cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
