// Package serp defines the structured data model for search-engine result
// pages and the construction of Bing search URLs.
package serp

import (
	"fmt"
	"net/url"
)

// DefaultBaseURL is the Bing search endpoint queried by default.
const DefaultBaseURL = "https://www.bing.com/search"

// Result kind tags carried by extracted items.
const (
	TypeOrganic = "organic"
	TypeAd      = "ad"
)

// QuerySpec is one unit of scraping work: a search term plus the pagination
// and locale parameters that apply to it. It is built once from merged user
// input and defaults and not mutated afterwards.
type QuerySpec struct {
	Term           string
	Pages          int
	ResultsPerPage int
	MarketCode     string
	LanguageCode   string
}

// SearchQuery echoes the originating query parameters of a single result
// page. Field names mirror the JSON output schema.
type SearchQuery struct {
	Term           string `json:"term"`
	ResultsPerPage int    `json:"resultsPerPage"`
	Page           int    `json:"page"`
	URL            string `json:"url"`
	MarketCode     string `json:"marketCode"`
	LanguageCode   string `json:"languageCode"`
}

// PageRecord is the structured output for one (query, page) pair.
// Item lists are never nil so the JSON form renders empty arrays.
type PageRecord struct {
	SearchQuery     SearchQuery   `json:"searchQuery"`
	HTML            *string       `json:"html"`
	HTMLSnapshotURL *string       `json:"htmlSnapshotUrl"`
	ResultsTotal    *int          `json:"resultsTotal"`
	OrganicResults  []OrganicItem `json:"organicResults"`
	PaidResults     []PaidItem    `json:"paidResults"`
	PeopleAlsoAsk   []QAItem      `json:"peopleAlsoAsk"`
	RelatedQueries  []RelatedItem `json:"relatedQueries"`
}

// OrganicItem is an unpaid, algorithmically ranked listing. Position is
// 1-based and contiguous among organic items on the same page.
type OrganicItem struct {
	IconURL            *string  `json:"iconUrl"`
	DisplayedURL       string   `json:"displayedUrl"`
	Title              string   `json:"title"`
	URL                string   `json:"url"`
	Description        string   `json:"description"`
	EmphasizedKeywords []string `json:"emphasizedKeywords"`
	Type               string   `json:"type"`
	Position           int      `json:"position"`
}

// PaidItem is a sponsored listing. Positions are numbered independently of
// organic items.
type PaidItem struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	DisplayedURL string `json:"displayedUrl"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Position     int    `json:"position"`
}

// QAItem is an expandable people-also-ask snippet.
type QAItem struct {
	URL      *string `json:"url"`
	Question string  `json:"question"`
	Answer   *string `json:"answer"`
}

// RelatedItem is a suggested alternative search term.
type RelatedItem struct {
	Title string  `json:"title"`
	URL   *string `json:"url"`
}

// NewPageRecord returns a PageRecord with the echo fields set and all item
// lists initialized empty.
func NewPageRecord(q SearchQuery) *PageRecord {
	return &PageRecord{
		SearchQuery:    q,
		OrganicResults: []OrganicItem{},
		PaidResults:    []PaidItem{},
		PeopleAlsoAsk:  []QAItem{},
		RelatedQueries: []RelatedItem{},
	}
}

// BuildSearchURL assembles the request URL for one page of a query.
// The parameter order and encoding are part of the external contract:
// q, mkt, setLang, count, first; first = (page-1)*resultsPerPage + 1.
func BuildSearchURL(baseURL string, spec QuerySpec, page int) string {
	first := (page-1)*spec.ResultsPerPage + 1
	return fmt.Sprintf("%s?q=%s&mkt=%s&setLang=%s&count=%d&first=%d",
		baseURL,
		url.QueryEscape(spec.Term),
		url.QueryEscape(spec.MarketCode),
		url.QueryEscape(spec.LanguageCode),
		spec.ResultsPerPage,
		first,
	)
}

// Query returns the SearchQuery echo for one page of the spec, including the
// fully-formed request URL.
func (s QuerySpec) Query(baseURL string, page int) SearchQuery {
	return SearchQuery{
		Term:           s.Term,
		ResultsPerPage: s.ResultsPerPage,
		Page:           page,
		URL:            BuildSearchURL(baseURL, s, page),
		MarketCode:     s.MarketCode,
		LanguageCode:   s.LanguageCode,
	}
}
