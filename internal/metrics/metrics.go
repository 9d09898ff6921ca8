// Package metrics exposes Prometheus instrumentation for the scraping run.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MaudeOps/dredge/internal/serp"
)

var (
	FetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dredge_fetch_attempts_total",
			Help: "Total outbound fetch attempts by outcome",
		},
		[]string{"outcome"}, // ok, network_error, blocked
	)

	SoftBlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dredge_soft_blocks_total",
			Help: "Soft-block detections by resolution",
		},
		[]string{"resolution"}, // recovered, unresolved
	)

	PagesScrapedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dredge_pages_scraped_total",
			Help: "Result pages successfully fetched and extracted",
		},
	)

	ItemsExtractedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dredge_items_extracted_total",
			Help: "Structured records extracted from result pages by kind",
		},
		[]string{"kind"}, // organic, ad, people_also_ask, related_query
	)
)

// RecordPage updates the extraction counters for one scraped page.
func RecordPage(rec *serp.PageRecord) {
	if rec == nil {
		return
	}
	PagesScrapedTotal.Inc()
	ItemsExtractedTotal.WithLabelValues("organic").Add(float64(len(rec.OrganicResults)))
	ItemsExtractedTotal.WithLabelValues("ad").Add(float64(len(rec.PaidResults)))
	ItemsExtractedTotal.WithLabelValues("people_also_ask").Add(float64(len(rec.PeopleAlsoAsk)))
	ItemsExtractedTotal.WithLabelValues("related_query").Add(float64(len(rec.RelatedQueries)))
}

// Server exposes /metrics over HTTP for scrape-time observation.
type Server struct {
	srv *http.Server
}

// Start begins listening on the given port in the background.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
