package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/MaudeOps/dredge/internal/serp"
)

// csvHeaders defines the CSV column order.
var csvHeaders = []string{
	"searchTerm",
	"page",
	"marketCode",
	"languageCode",
	"resultType",
	"position",
	"title",
	"url",
	"displayedUrl",
	"description",
	"iconUrl",
	"emphasizedKeywords",
}

// WriteCSV writes the flattened tabular form: one row per extracted item.
// Absent fields render as blank cells.
func WriteCSV(w io.Writer, records []*serp.PageRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range Flatten(records) {
		record := []string{
			row.SearchTerm,
			strconv.Itoa(row.Page),
			row.MarketCode,
			row.LanguageCode,
			row.ResultType,
			strconv.Itoa(row.Position),
			row.Title,
			row.URL,
			row.DisplayedURL,
			row.Description,
			row.IconURL,
			row.EmphasizedKeywords,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
