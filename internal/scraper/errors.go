package scraper

import "fmt"

// NetworkError reports that a page fetch failed at the connection or timeout
// level and the retry ceiling is exhausted. It aborts the remaining pages of
// the current query.
type NetworkError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SoftBlockError reports that a detected soft block persisted through every
// recovery attempt.
type SoftBlockError struct {
	URL      string
	Attempts int
}

func (e *SoftBlockError) Error() string {
	return fmt.Sprintf("soft block on %s not resolved after %d retries", e.URL, e.Attempts)
}
