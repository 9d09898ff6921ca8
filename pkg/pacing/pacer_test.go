package pacing

import (
	"context"
	"testing"
	"time"
)

func TestIntervalWindow(t *testing.T) {
	p := NewPacer()
	for i := 0; i < 200; i++ {
		d := p.Interval()
		if d < 800*time.Millisecond || d >= 1600*time.Millisecond {
			t.Fatalf("interval %v outside [800ms, 1600ms)", d)
		}
	}
}

func TestIntervalDegenerateWindow(t *testing.T) {
	p := Pacer{Min: 5 * time.Millisecond, Max: 5 * time.Millisecond}
	if d := p.Interval(); d != 5*time.Millisecond {
		t.Errorf("expected fixed interval, got %v", d)
	}

	var zero Pacer
	if d := zero.Interval(); d != 0 {
		t.Errorf("expected zero interval from zero pacer, got %v", d)
	}
}

func TestPauseHonorsContext(t *testing.T) {
	p := Pacer{Min: 10 * time.Second, Max: 20 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := p.Pause(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("pause did not return promptly on cancellation: %v", elapsed)
	}
}

func TestSleep(t *testing.T) {
	start := time.Now()
	if err := Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("sleep returned early")
	}

	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("zero sleep should not error: %v", err)
	}
}
