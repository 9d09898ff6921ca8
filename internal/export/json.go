package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MaudeOps/dredge/internal/serp"
)

// WriteJSON writes the records as an indented JSON array. Field names and
// nesting mirror the PageRecord structure exactly.
func WriteJSON(w io.Writer, records []*serp.PageRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if records == nil {
		records = []*serp.PageRecord{}
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
