package block

import (
	"math"
	"testing"
	"time"
)

func TestDetectorNotBlocked(t *testing.T) {
	d := NewDetector(nil)

	cases := []string{
		"",
		"<html><body><ol id=\"b_results\"><li class=\"b_algo\">result</li></ol></body></html>",
		"a perfectly ordinary page about robots in fiction",
	}
	for _, markup := range cases {
		if d.Blocked(markup) {
			t.Errorf("expected not blocked: %q", markup)
		}
	}
}

func TestDetectorBlocked(t *testing.T) {
	d := NewDetector(nil)

	cases := []string{
		"We have detected unusual traffic from your network.",
		"<html>Please VERIFY THAT YOU ARE A HUMAN to continue</html>",
		"Are You A Robot?",
		"please try again later",
	}
	for _, markup := range cases {
		if !d.Blocked(markup) {
			t.Errorf("expected blocked: %q", markup)
		}
	}
}

func TestDetectorCustomPhrases(t *testing.T) {
	d := NewDetector([]string{"Access Denied"})

	if !d.Blocked("<h1>ACCESS DENIED</h1>") {
		t.Error("expected custom phrase to match case-insensitively")
	}
	// Default phrases must not apply once a custom list is supplied
	if d.Blocked("unusual traffic") {
		t.Error("expected default phrases to be replaced")
	}
}

func TestBackoffFirstAttemptRange(t *testing.T) {
	b := Backoff{Factor: 1.5, Unit: time.Millisecond}

	for i := 0; i < 100; i++ {
		d := b.Delay(1)
		if d < time.Millisecond || d >= 1500*time.Microsecond {
			t.Fatalf("Delay(1) = %v, want [1ms, 1.5ms)", d)
		}
	}
}

func TestBackoffMonotonicBase(t *testing.T) {
	b := Backoff{Factor: 1.5, Unit: time.Second}

	// The deterministic component factor^(n-1) must strictly increase; jitter
	// is bounded by 0.5 units, so consecutive delays two attempts apart must
	// always be ordered once the base gap exceeds the jitter range.
	for n := 1; n < 8; n++ {
		lo := math.Pow(1.5, float64(n-1))
		hi := lo + 0.5
		d := b.Delay(n).Seconds()
		if d < lo || d >= hi {
			t.Errorf("Delay(%d) = %.3fs, want [%.3f, %.3f)", n, d, lo, hi)
		}
	}
}

func TestBackoffAttemptFloor(t *testing.T) {
	b := Backoff{Factor: 1.5, Unit: time.Second}

	for _, n := range []int{-3, 0, 1} {
		d := b.Delay(n).Seconds()
		if d < 1.0 || d >= 1.5 {
			t.Errorf("Delay(%d) = %.3fs, want treated as attempt 1", n, d)
		}
	}
}

func TestBackoffDefaults(t *testing.T) {
	var b Backoff
	d := b.Delay(1)
	if d < time.Second || d >= 1500*time.Millisecond {
		t.Errorf("zero-value Delay(1) = %v, want [1s, 1.5s)", d)
	}
}
