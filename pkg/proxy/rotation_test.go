package proxy

import "testing"

func TestEmptyRotation(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Next() != nil {
		t.Error("empty rotation must return nil (direct connection)")
	}

	var nilRotation *Rotation
	if nilRotation.Next() != nil {
		t.Error("nil rotation must return nil")
	}
}

func TestRoundRobin(t *testing.T) {
	r, err := New("http://p1:8080", "p2:8080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 proxies, got %d", r.Len())
	}

	first := r.Next()
	second := r.Next()
	third := r.Next()

	if first == nil || second == nil || third == nil {
		t.Fatal("expected proxies from rotation")
	}
	if first.String() == second.String() {
		t.Error("expected rotation to alternate proxies")
	}
	if first.String() != third.String() {
		t.Error("expected rotation to wrap around")
	}
	if second.Scheme != "http" {
		t.Errorf("expected default http scheme, got %s", second.Scheme)
	}
}

func TestBenchAfterFailures(t *testing.T) {
	r, err := New("http://only:8080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u := r.Next()
	for i := 0; i < defaultMaxFailures; i++ {
		r.MarkFailure(u)
	}

	if r.Next() != nil {
		t.Error("expected benched proxy to be skipped")
	}
}

func TestMarkSuccessUnwindsFailure(t *testing.T) {
	r, err := New("http://only:8080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u := r.Next()
	r.MarkFailure(u)
	r.MarkFailure(u)
	r.MarkSuccess(u)
	r.MarkFailure(u) // back at 2, below threshold

	if r.Next() == nil {
		t.Error("proxy below failure threshold must stay in rotation")
	}
}

func TestInvalidProxyURL(t *testing.T) {
	if _, err := New("http://bad url with spaces"); err == nil {
		t.Error("expected parse error")
	}
}
