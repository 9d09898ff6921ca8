// Package block classifies fetched markup as soft-blocked and computes the
// retry delays used to recover from throttling.
package block

import "strings"

// DefaultPhrases are the block-indicator phrases matched against response
// bodies. All entries must be lower case.
var DefaultPhrases = []string{
	"unusual traffic",
	"verify that you are a human",
	"detected unusual activity",
	"please try again later",
	"are you a robot",
	"unusual behavior from your computer",
}

// Detector decides whether a markup payload represents a soft block. The
// phrase list is ordered; the first match wins.
type Detector struct {
	phrases []string
}

// NewDetector creates a Detector from the given phrase list. Phrases are
// lower-cased on the way in; an empty list falls back to DefaultPhrases.
func NewDetector(phrases []string) *Detector {
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return &Detector{phrases: lowered}
}

// Blocked reports whether the markup contains any configured block-indicator
// phrase, matched case-insensitively.
func (d *Detector) Blocked(markup string) bool {
	lower := strings.ToLower(markup)
	for _, p := range d.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Phrases returns a copy of the configured phrase list.
func (d *Detector) Phrases() []string {
	out := make([]string, len(d.phrases))
	copy(out, d.phrases)
	return out
}
