// Package export serializes the collected PageRecords into the supported
// output formats: a JSON document mirroring the record structure, a
// flattened CSV table, and an XML tree.
package export

import (
	"strings"

	"github.com/MaudeOps/dredge/internal/serp"
)

// Row result-type tags used in the flattened tabular form.
const (
	rowTypePAA     = "people_also_ask"
	rowTypeRelated = "related_query"
)

// Row is one line of the flattened tabular output: an individual organic,
// paid, question, or related-query record with its page context.
type Row struct {
	SearchTerm         string
	Page               int
	MarketCode         string
	LanguageCode       string
	ResultType         string
	Position           int
	Title              string
	URL                string
	DisplayedURL       string
	Description        string
	IconURL            string
	EmphasizedKeywords string
}

// Flatten turns page-level records into row-level records. QA and related
// items are numbered 1..n within their own lists.
func Flatten(records []*serp.PageRecord) []Row {
	var rows []Row

	for _, rec := range records {
		q := rec.SearchQuery

		base := Row{
			SearchTerm:   q.Term,
			Page:         q.Page,
			MarketCode:   q.MarketCode,
			LanguageCode: q.LanguageCode,
		}

		for _, item := range rec.OrganicResults {
			row := base
			row.ResultType = item.Type
			row.Position = item.Position
			row.Title = item.Title
			row.URL = item.URL
			row.DisplayedURL = item.DisplayedURL
			row.Description = item.Description
			row.IconURL = deref(item.IconURL)
			row.EmphasizedKeywords = strings.Join(item.EmphasizedKeywords, ", ")
			rows = append(rows, row)
		}

		for _, item := range rec.PaidResults {
			row := base
			row.ResultType = item.Type
			row.Position = item.Position
			row.Title = item.Title
			row.URL = item.URL
			row.DisplayedURL = item.DisplayedURL
			row.Description = item.Description
			rows = append(rows, row)
		}

		for i, item := range rec.PeopleAlsoAsk {
			row := base
			row.ResultType = rowTypePAA
			row.Position = i + 1
			row.Title = item.Question
			row.URL = deref(item.URL)
			row.Description = deref(item.Answer)
			rows = append(rows, row)
		}

		for i, item := range rec.RelatedQueries {
			row := base
			row.ResultType = rowTypeRelated
			row.Position = i + 1
			row.Title = item.Title
			row.URL = deref(item.URL)
			rows = append(rows, row)
		}
	}

	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
