// Package scraper fetches search result pages and orchestrates multi-page
// query runs. The fetcher owns the retry, backoff, and soft-block-recovery
// state machine; it returns raw markup and leaves parsing to the extractor.
package scraper

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/MaudeOps/dredge/internal/block"
	"github.com/MaudeOps/dredge/internal/fingerprint"
	"github.com/MaudeOps/dredge/internal/metrics"
	"github.com/MaudeOps/dredge/pkg/httpclient"
	"github.com/MaudeOps/dredge/pkg/pacing"
	"github.com/MaudeOps/dredge/pkg/proxy"
	"github.com/MaudeOps/dredge/pkg/useragent"
)

// FetchConfig configures a Fetcher.
type FetchConfig struct {
	// Timeout bounds each request. Zero falls back to 10s.
	Timeout time.Duration
	// MaxRetries is the ceiling for both network retries and block-recovery
	// attempts. Zero falls back to 3.
	MaxRetries int
	// Backoff computes the delay before each retry.
	Backoff block.Backoff
	// Detector classifies response bodies as soft-blocked.
	Detector *block.Detector
	// UAPool supplies the per-attempt User-Agent rotation.
	UAPool *useragent.Pool
	// Proxies optionally routes requests through an outbound proxy.
	Proxies *proxy.Rotation
	// Fingerprint selects the TLS ClientHello profile.
	Fingerprint fingerprint.Profile
	// AcceptLanguage is set as a session default header.
	AcceptLanguage string
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Fetcher retrieves result pages over a single persistent session. The
// session's cookie jar and default headers are shared across all requests of
// a run; only the per-attempt rotation headers vary.
type Fetcher struct {
	cfg         FetchConfig
	session     *httpclient.Session
	detector    *block.Detector
	uas         *useragent.Pool
	activeProxy *url.URL
	logger      *slog.Logger
}

// NewFetcher builds the session and transport for a fetcher. The proxy, if
// any, is chosen once per fetcher so a session sticks to one egress.
func NewFetcher(cfg FetchConfig) (*Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Detector == nil {
		cfg.Detector = block.NewDetector(nil)
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = "en"
	}

	activeProxy := cfg.Proxies.Next()

	transport, err := fingerprint.NewTransport(cfg.Fingerprint, activeProxy)
	if err != nil {
		return nil, err
	}

	session, err := httpclient.NewSession(httpclient.Config{
		Timeout:   cfg.Timeout,
		Transport: transport,
		DefaultHeaders: http.Header{
			"Accept":          {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"},
			"Accept-Language": {cfg.AcceptLanguage},
		},
	})
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		cfg:         cfg,
		session:     session,
		detector:    cfg.Detector,
		uas:         cfg.UAPool,
		activeProxy: activeProxy,
		logger:      cfg.Logger,
	}, nil
}

// FetchPage retrieves the markup for one result page URL. Network failures
// are retried with backoff up to the configured ceiling; a body classified
// as soft-blocked is handed to the recovery loop. Non-2xx responses that are
// not blocked are returned as-is: the page may still carry extractable
// structure or legitimately be an empty-results page.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	f.logger.Debug("requesting result page", "url", pageURL)

	attempt := 0
	for {
		attempt++

		headers := http.Header{"User-Agent": {f.uas.Pick()}}
		resp, err := f.session.Get(ctx, pageURL, headers)
		if err != nil {
			metrics.FetchAttemptsTotal.WithLabelValues("network_error").Inc()
			f.proxies().MarkFailure(f.activeProxy)
			f.logger.Warn("network error fetching page",
				"attempt", attempt, "url", pageURL, "err", err)

			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if attempt >= f.cfg.MaxRetries {
				return "", &NetworkError{URL: pageURL, Attempts: attempt, Err: err}
			}
			if err := pacing.Sleep(ctx, f.cfg.Backoff.Delay(attempt)); err != nil {
				return "", err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			metrics.FetchAttemptsTotal.WithLabelValues("network_error").Inc()
			f.logger.Warn("failed reading response body",
				"attempt", attempt, "url", pageURL, "err", readErr)

			if attempt >= f.cfg.MaxRetries {
				return "", &NetworkError{URL: pageURL, Attempts: attempt, Err: readErr}
			}
			if err := pacing.Sleep(ctx, f.cfg.Backoff.Delay(attempt)); err != nil {
				return "", err
			}
			continue
		}

		f.proxies().MarkSuccess(f.activeProxy)
		markup := string(body)

		if f.detector.Blocked(markup) {
			metrics.FetchAttemptsTotal.WithLabelValues("blocked").Inc()
			f.logger.Warn("potential soft block detected", "url", pageURL)
			return f.recoverFromBlock(ctx, pageURL, markup)
		}

		metrics.FetchAttemptsTotal.WithLabelValues("ok").Inc()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// Known gap: a non-2xx body without a matching block phrase is
			// passed through for extraction rather than rejected.
			f.logger.Warn("unexpected http status",
				"status", resp.StatusCode, "url", pageURL)
		}
		return markup, nil
	}
}

// recoverFromBlock retries the request until a non-blocked body appears or
// the retry ceiling is exhausted. Each retry sleeps first, then re-issues the
// request with a freshly varied User-Agent and a no-cache directive. Network
// failures during recovery consume an attempt but do not abort the loop.
func (f *Fetcher) recoverFromBlock(ctx context.Context, pageURL, original string) (string, error) {
	if !f.detector.Blocked(original) {
		return original, nil
	}

	for attempt := 1; attempt <= f.cfg.MaxRetries; attempt++ {
		delay := f.cfg.Backoff.Delay(attempt)
		f.logger.Warn("retrying soft-blocked page",
			"attempt", attempt, "max", f.cfg.MaxRetries, "delay", delay, "url", pageURL)

		if err := pacing.Sleep(ctx, delay); err != nil {
			return "", err
		}

		headers := http.Header{
			"User-Agent":    {useragent.RecoveryVariant()},
			"Cache-Control": {"no-cache"},
		}
		resp, err := f.session.Get(ctx, pageURL, headers)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			f.logger.Warn("network error during block recovery",
				"attempt", attempt, "url", pageURL, "err", err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			f.logger.Warn("failed reading recovery response",
				"attempt", attempt, "url", pageURL, "err", readErr)
			continue
		}

		if !f.detector.Blocked(string(body)) {
			f.logger.Info("soft block resolved", "attempt", attempt, "url", pageURL)
			metrics.SoftBlocksTotal.WithLabelValues("recovered").Inc()
			return string(body), nil
		}
	}

	f.logger.Error("soft block not resolved",
		"retries", f.cfg.MaxRetries, "url", pageURL)
	metrics.SoftBlocksTotal.WithLabelValues("unresolved").Inc()
	return "", &SoftBlockError{URL: pageURL, Attempts: f.cfg.MaxRetries}
}

func (f *Fetcher) proxies() *proxy.Rotation {
	return f.cfg.Proxies
}
