package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "https://www.bing.com/search" {
		t.Errorf("unexpected base url: %s", cfg.BaseURL)
	}
	if cfg.ResultsPerPage != 10 || cfg.Pages != 1 {
		t.Errorf("unexpected pagination defaults: %d/%d", cfg.ResultsPerPage, cfg.Pages)
	}
	if cfg.Request.Timeout != 10*time.Second || cfg.Request.MaxRetries != 3 {
		t.Errorf("unexpected request defaults: %+v", cfg.Request)
	}
	if cfg.Request.BackoffFactor != 1.5 {
		t.Errorf("unexpected backoff factor: %v", cfg.Request.BackoffFactor)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty base url", func(c *Config) { c.BaseURL = "" }, ErrEmptyBaseURL},
		{"zero pages", func(c *Config) { c.Pages = 0 }, ErrInvalidPages},
		{"zero results per page", func(c *Config) { c.ResultsPerPage = 0 }, ErrInvalidResultsPerPage},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
		{"zero timeout", func(c *Config) { c.Request.Timeout = 0 }, ErrInvalidTimeout},
		{"negative retries", func(c *Config) { c.Request.MaxRetries = -1 }, ErrInvalidMaxRetries},
		{"backoff below one", func(c *Config) { c.Request.BackoffFactor = 0.5 }, ErrInvalidBackoffFactor},
		{"no formats", func(c *Config) { c.Output.Formats = nil }, ErrNoOutputFormats},
		{"backend without dsn", func(c *Config) { c.Archive.Backend = "sqlite" }, ErrEmptyArchiveDSN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func writeInputs(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadQueries(t *testing.T) {
	cfg := DefaultConfig()
	path := writeInputs(t, `{
		"queries": [
			{"term": "widgets"},
			{"term": "gadgets", "pages": 3, "resultsPerPage": 20, "marketCode": "de-DE", "languageCode": "de"}
		]
	}`)

	specs, err := LoadQueries(path, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}

	// First entry inherits defaults
	if specs[0].Term != "widgets" || specs[0].Pages != 1 || specs[0].ResultsPerPage != 10 {
		t.Errorf("defaults not applied: %+v", specs[0])
	}
	if specs[0].MarketCode != "en-US" || specs[0].LanguageCode != "en" {
		t.Errorf("locale defaults not applied: %+v", specs[0])
	}

	// Second entry overrides everything
	want := specs[1]
	if want.Pages != 3 || want.ResultsPerPage != 20 || want.MarketCode != "de-DE" || want.LanguageCode != "de" {
		t.Errorf("overrides not applied: %+v", want)
	}
}

func TestLoadQueriesSkipsEmptyTerms(t *testing.T) {
	cfg := DefaultConfig()
	path := writeInputs(t, `{"queries": [{"term": "  "}, {"term": "real"}]}`)

	specs, err := LoadQueries(path, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 1 || specs[0].Term != "real" {
		t.Errorf("expected only the non-empty query, got %+v", specs)
	}
}

func TestLoadQueriesEmpty(t *testing.T) {
	cfg := DefaultConfig()

	for name, body := range map[string]string{
		"no entries":      `{"queries": []}`,
		"all blank terms": `{"queries": [{"term": ""}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := writeInputs(t, body)
			if _, err := LoadQueries(path, cfg, nil); !errors.Is(err, ErrNoQueries) {
				t.Errorf("expected ErrNoQueries, got %v", err)
			}
		})
	}
}

func TestLoadQueriesBadFile(t *testing.T) {
	cfg := DefaultConfig()

	if _, err := LoadQueries(filepath.Join(t.TempDir(), "missing.json"), cfg, nil); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeInputs(t, `{not json`)
	if _, err := LoadQueries(path, cfg, nil); err == nil {
		t.Error("expected error for malformed json")
	}
}
