package config

import "errors"

var (
	// ErrNoQueries is returned when the inputs file yields no usable queries
	ErrNoQueries = errors.New("no queries provided")
	// ErrEmptyBaseURL is returned when base_url is empty
	ErrEmptyBaseURL = errors.New("base_url cannot be empty")
	// ErrInvalidPages is returned when pages is not greater than 0
	ErrInvalidPages = errors.New("pages must be greater than 0")
	// ErrInvalidResultsPerPage is returned when results_per_page is not greater than 0
	ErrInvalidResultsPerPage = errors.New("results_per_page must be greater than 0")
	// ErrInvalidConcurrency is returned when concurrency is not greater than 0
	ErrInvalidConcurrency = errors.New("concurrency must be greater than 0")
	// ErrInvalidTimeout is returned when request timeout is not greater than 0
	ErrInvalidTimeout = errors.New("request.timeout must be greater than 0")
	// ErrInvalidMaxRetries is returned when the retry ceiling is negative
	ErrInvalidMaxRetries = errors.New("request.max_retries cannot be negative")
	// ErrInvalidBackoffFactor is returned when the backoff base is below 1
	ErrInvalidBackoffFactor = errors.New("request.backoff_factor must be at least 1")
	// ErrNoOutputFormats is returned when no output format is requested
	ErrNoOutputFormats = errors.New("output.formats cannot be empty")
	// ErrEmptyArchiveDSN is returned when an archive backend is set without a DSN
	ErrEmptyArchiveDSN = errors.New("archive.dsn cannot be empty when a backend is set")
)
