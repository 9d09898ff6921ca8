// Package config provides configuration management for the scraper: the
// settings structure with defaults and validation, plus the query-inputs
// file loader.
package config

import (
	"time"
)

// RequestConfig holds the per-request fetch settings.
type RequestConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`               // HTTP request timeout
	MaxRetries    int           `mapstructure:"max_retries" yaml:"max_retries"`       // Retry ceiling per page
	BackoffFactor float64       `mapstructure:"backoff_factor" yaml:"backoff_factor"` // Exponential backoff base
	Proxies       []string      `mapstructure:"proxies" yaml:"proxies"`               // Outbound proxy pool
	Fingerprint   string        `mapstructure:"fingerprint" yaml:"fingerprint"`       // TLS ClientHello profile
}

// OutputConfig holds the export settings.
type OutputConfig struct {
	Dir         string   `mapstructure:"dir" yaml:"dir"`                   // Directory for output files
	BaseName    string   `mapstructure:"base_name" yaml:"base_name"`       // Output file name without extension
	Formats     []string `mapstructure:"formats" yaml:"formats"`           // Output formats: json, csv, xml
	IncludeHTML bool     `mapstructure:"include_html" yaml:"include_html"` // Attach raw page markup to records
}

// ArchiveConfig holds the raw-snapshot storage settings. An empty backend
// disables archiving.
type ArchiveConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // "sqlite" or "postgres"
	DSN     string `mapstructure:"dsn" yaml:"dsn"`         // Backend connection string
}

// Config holds the full scraper configuration.
type Config struct {
	// Query defaults, applied where the inputs file leaves a field unset
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`                 // Search endpoint
	MarketCode     string `mapstructure:"market_code" yaml:"market_code"`           // Bing mkt parameter
	LanguageCode   string `mapstructure:"language_code" yaml:"language_code"`       // Bing setLang parameter
	ResultsPerPage int    `mapstructure:"results_per_page" yaml:"results_per_page"` // Bing count parameter
	Pages          int    `mapstructure:"pages" yaml:"pages"`                       // Pages fetched per query

	// Soft-block detection; empty means the built-in phrase list
	BlockPhrases []string `mapstructure:"block_phrases" yaml:"block_phrases"`

	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`   // Parallel query workers
	MetricsPort int `mapstructure:"metrics_port" yaml:"metrics_port"` // Prometheus port, 0 disables

	Request RequestConfig `mapstructure:"request" yaml:"request"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Archive ArchiveConfig `mapstructure:"archive" yaml:"archive"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://www.bing.com/search",
		MarketCode:     "en-US",
		LanguageCode:   "en",
		ResultsPerPage: 10,
		Pages:          1,
		Concurrency:    1,
		Request: RequestConfig{
			Timeout:       10 * time.Second,
			MaxRetries:    3,
			BackoffFactor: 1.5,
		},
		Output: OutputConfig{
			Dir:      "./output",
			BaseName: "bing_results",
			Formats:  []string{"json"},
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	if c.Pages <= 0 {
		return ErrInvalidPages
	}
	if c.ResultsPerPage <= 0 {
		return ErrInvalidResultsPerPage
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Request.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Request.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if c.Request.BackoffFactor < 1 {
		return ErrInvalidBackoffFactor
	}
	if len(c.Output.Formats) == 0 {
		return ErrNoOutputFormats
	}
	if c.Archive.Backend != "" && c.Archive.DSN == "" {
		return ErrEmptyArchiveDSN
	}
	return nil
}
