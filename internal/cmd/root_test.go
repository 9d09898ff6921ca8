package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MaudeOps/dredge/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCollectQueriesFromArgs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Pages = 2
	cfg.MarketCode = "en-GB"

	specs, err := collectQueries([]string{"widgets", " ", "gadgets"}, "", cfg, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if specs[0].Term != "widgets" || specs[1].Term != "gadgets" {
		t.Errorf("unexpected terms: %+v", specs)
	}
	if specs[0].Pages != 2 || specs[0].MarketCode != "en-GB" {
		t.Errorf("defaults not applied: %+v", specs[0])
	}
}

func TestCollectQueriesMergesInputsFile(t *testing.T) {
	cfg := config.DefaultConfig()

	path := filepath.Join(t.TempDir(), "queries.json")
	body := `{"queries": [{"term": "from file", "pages": 3}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	specs, err := collectQueries([]string{"from args"}, path, cfg, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if specs[0].Term != "from args" || specs[1].Term != "from file" || specs[1].Pages != 3 {
		t.Errorf("unexpected merge result: %+v", specs)
	}
}

func TestCollectQueriesEmpty(t *testing.T) {
	cfg := config.DefaultConfig()

	if _, err := collectQueries(nil, "", cfg, discardLogger()); !errors.Is(err, config.ErrNoQueries) {
		t.Errorf("expected ErrNoQueries, got %v", err)
	}
}

func TestCollectQueriesEmptyFileWithArgs(t *testing.T) {
	cfg := config.DefaultConfig()

	path := filepath.Join(t.TempDir(), "queries.json")
	if err := os.WriteFile(path, []byte(`{"queries": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	// Positional terms keep the run alive even when the file is empty
	specs, err := collectQueries([]string{"widgets"}, path, cfg, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 1 {
		t.Errorf("expected 1 spec, got %d", len(specs))
	}
}

func TestNewArchiveBackend(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	store, err := newArchiveBackend(ctx, cfg)
	if err != nil || store != nil {
		t.Errorf("disabled archive must yield nil backend, got %v, %v", store, err)
	}

	cfg.Archive.Backend = "sqlite"
	cfg.Archive.DSN = filepath.Join(t.TempDir(), "snapshots.db")
	store, err = newArchiveBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store == nil {
		t.Fatal("expected sqlite backend")
	}
	_ = store.Close()

	cfg.Archive.Backend = "cassandra"
	if _, err := newArchiveBackend(ctx, cfg); err == nil || !strings.Contains(err.Error(), "cassandra") {
		t.Errorf("expected unknown-backend error, got %v", err)
	}
}
