package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/MaudeOps/dredge/internal/serp"
)

// queryInput is one entry of the inputs file. Optional fields override the
// configured defaults for that query only.
type queryInput struct {
	Term           string `json:"term"`
	Pages          *int   `json:"pages"`
	ResultsPerPage *int   `json:"resultsPerPage"`
	MarketCode     string `json:"marketCode"`
	LanguageCode   string `json:"languageCode"`
}

type queryInputs struct {
	Queries []queryInput `json:"queries"`
}

// LoadQueries reads the JSON inputs file and merges each entry over the
// configured defaults. Entries with an empty term are skipped with a
// warning; if nothing usable remains the load fails with ErrNoQueries.
func LoadQueries(path string, cfg *Config, logger *slog.Logger) ([]serp.QuerySpec, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inputs file: %w", err)
	}

	var in queryInputs
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse inputs file %s: %w", path, err)
	}

	specs := make([]serp.QuerySpec, 0, len(in.Queries))
	for i, q := range in.Queries {
		term := strings.TrimSpace(q.Term)
		if term == "" {
			logger.Warn("skipping query with empty term", "index", i)
			continue
		}

		spec := serp.QuerySpec{
			Term:           term,
			Pages:          cfg.Pages,
			ResultsPerPage: cfg.ResultsPerPage,
			MarketCode:     cfg.MarketCode,
			LanguageCode:   cfg.LanguageCode,
		}
		if q.Pages != nil && *q.Pages > 0 {
			spec.Pages = *q.Pages
		}
		if q.ResultsPerPage != nil && *q.ResultsPerPage > 0 {
			spec.ResultsPerPage = *q.ResultsPerPage
		}
		if q.MarketCode != "" {
			spec.MarketCode = q.MarketCode
		}
		if q.LanguageCode != "" {
			spec.LanguageCode = q.LanguageCode
		}
		specs = append(specs, spec)
	}

	if len(specs) == 0 {
		return nil, ErrNoQueries
	}
	return specs, nil
}
