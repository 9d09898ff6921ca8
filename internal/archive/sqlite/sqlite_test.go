package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MaudeOps/dredge/internal/archive"
)

func TestSaveAndGet(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "snapshots.db")
	backend, err := New(dsn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer backend.Close()

	snap := &archive.Snapshot{
		ID:        "snap-1",
		Term:      "widgets",
		Page:      2,
		URL:       "https://www.bing.com/search?q=widgets&first=11",
		Body:      []byte("<html>page two</html>"),
		FetchedAt: time.Now().UTC().Truncate(time.Second),
	}

	ref, err := backend.Save(context.Background(), snap)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(ref, "sqlite://") || !strings.HasSuffix(ref, snap.ID) {
		t.Errorf("unexpected snapshot ref %q", ref)
	}

	got, err := backend.Get(context.Background(), "snap-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Term != snap.Term || got.Page != snap.Page || got.URL != snap.URL {
		t.Errorf("snapshot fields mismatch: %+v", got)
	}
	if string(got.Body) != string(snap.Body) {
		t.Errorf("body mismatch: %q", got.Body)
	}
}

func TestGetMissing(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "snapshots.db")
	backend, err := New(dsn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer backend.Close()

	if _, err := backend.Get(context.Background(), "nope"); err == nil {
		t.Error("expected error for missing snapshot")
	}
}
