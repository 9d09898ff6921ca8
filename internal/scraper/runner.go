package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MaudeOps/dredge/internal/archive"
	"github.com/MaudeOps/dredge/internal/extract"
	"github.com/MaudeOps/dredge/internal/metrics"
	"github.com/MaudeOps/dredge/internal/serp"
	"github.com/MaudeOps/dredge/pkg/pacing"
)

// RunnerConfig configures a query run.
type RunnerConfig struct {
	// BaseURL is the search endpoint. Empty falls back to serp.DefaultBaseURL.
	BaseURL string
	// IncludeHTML attaches the raw markup to each PageRecord.
	IncludeHTML bool
	// Pacer spaces successive page requests within a query.
	Pacer pacing.Pacer
	// Concurrency is the number of queries processed in parallel. Values
	// below 2 keep the strictly sequential reference behavior.
	Concurrency int
	// Fetch configures the per-worker fetchers.
	Fetch FetchConfig
}

// Runner drives whole queries: it builds page URLs, fetches markup, feeds the
// extractor, and accumulates PageRecords in page order.
type Runner struct {
	cfg       RunnerConfig
	extractor *extract.Extractor
	store     archive.Backend
	logger    *slog.Logger
}

// NewRunner creates a Runner. The archive backend may be nil, in which case
// htmlSnapshotUrl stays null in the output.
func NewRunner(cfg RunnerConfig, ex *extract.Extractor, store archive.Backend, logger *slog.Logger) *Runner {
	if cfg.BaseURL == "" {
		cfg.BaseURL = serp.DefaultBaseURL
	}
	if cfg.Pacer == (pacing.Pacer{}) {
		cfg.Pacer = pacing.NewPacer()
	}
	if ex == nil {
		ex = extract.New(extract.DefaultRules(), logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, extractor: ex, store: store, logger: logger}
}

// Search processes one query: pages 1..spec.Pages strictly in order, with a
// randomized pause after each page. The first fetch failure aborts the
// query's remaining pages and propagates.
func (r *Runner) Search(ctx context.Context, f *Fetcher, spec serp.QuerySpec) ([]*serp.PageRecord, error) {
	records := make([]*serp.PageRecord, 0, spec.Pages)

	for page := 1; page <= spec.Pages; page++ {
		q := spec.Query(r.cfg.BaseURL, page)

		markup, err := f.FetchPage(ctx, q.URL)
		if err != nil {
			return nil, fmt.Errorf("query %q page %d: %w", spec.Term, page, err)
		}

		rec := r.extractor.Extract(markup, q)
		if r.cfg.IncludeHTML {
			html := markup
			rec.HTML = &html
		}
		r.archiveSnapshot(ctx, rec, spec, page, markup)

		metrics.RecordPage(rec)
		records = append(records, rec)

		if err := r.cfg.Pacer.Pause(ctx); err != nil {
			return nil, err
		}
	}

	return records, nil
}

// Run processes all queries and returns their PageRecords flattened in input
// order. With Concurrency > 1, distinct queries run in parallel on separate
// fetchers (one session each); page order and pacing within a query are
// unaffected.
func (r *Runner) Run(ctx context.Context, specs []serp.QuerySpec) ([]*serp.PageRecord, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	if r.cfg.Concurrency < 2 {
		f, err := NewFetcher(r.cfg.Fetch)
		if err != nil {
			return nil, err
		}

		var all []*serp.PageRecord
		for _, spec := range specs {
			r.logger.Info("scraping query",
				"term", spec.Term, "pages", spec.Pages,
				"resultsPerPage", spec.ResultsPerPage,
				"market", spec.MarketCode, "lang", spec.LanguageCode)

			records, err := r.Search(ctx, f, spec)
			if err != nil {
				return nil, err
			}
			r.logger.Info("collected page records", "term", spec.Term, "count", len(records))
			all = append(all, records...)
		}
		return all, nil
	}

	results := make([][]*serp.PageRecord, len(specs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for i, spec := range specs {
		g.Go(func() error {
			f, err := NewFetcher(r.cfg.Fetch)
			if err != nil {
				return err
			}

			r.logger.Info("scraping query", "term", spec.Term, "pages", spec.Pages)
			records, err := r.Search(gCtx, f, spec)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*serp.PageRecord
	for _, records := range results {
		all = append(all, records...)
	}
	return all, nil
}

// archiveSnapshot stores the raw markup when a backend is configured and
// fills the record's htmlSnapshotUrl. Archive failures are logged, not
// propagated: losing a snapshot must not lose the page.
func (r *Runner) archiveSnapshot(ctx context.Context, rec *serp.PageRecord, spec serp.QuerySpec, page int, markup string) {
	if r.store == nil {
		return
	}

	ref, err := r.store.Save(ctx, &archive.Snapshot{
		ID:        uuid.NewString(),
		Term:      spec.Term,
		Page:      page,
		URL:       rec.SearchQuery.URL,
		Body:      []byte(markup),
		FetchedAt: time.Now().UTC(),
	})
	if err != nil {
		r.logger.Warn("failed to archive snapshot",
			"term", spec.Term, "page", page, "err", err)
		return
	}
	rec.HTMLSnapshotURL = &ref
}
