package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/MaudeOps/dredge/internal/serp"
)

type xmlDocument struct {
	XMLName xml.Name  `xml:"searchResults"`
	Pages   []xmlPage `xml:"page"`
}

// The container elements are always emitted, even when their item lists are
// empty.
type xmlPage struct {
	Term           string `xml:"term"`
	ResultsPerPage int    `xml:"resultsPerPage"`
	Page           int    `xml:"page"`
	URL            string `xml:"url"`
	MarketCode     string `xml:"marketCode"`
	LanguageCode   string `xml:"languageCode"`

	OrganicResults xmlOrganicList `xml:"organicResults"`
	PaidResults    xmlPaidList    `xml:"paidResults"`
	PeopleAlsoAsk  xmlQAList      `xml:"peopleAlsoAsk"`
	RelatedQueries xmlRelatedList `xml:"relatedQueries"`
}

type xmlOrganicList struct {
	Items []xmlOrganicItem `xml:"item"`
}

type xmlPaidList struct {
	Items []xmlPaidItem `xml:"item"`
}

type xmlQAList struct {
	Items []xmlQAItem `xml:"item"`
}

type xmlRelatedList struct {
	Items []xmlRelatedItem `xml:"item"`
}

type xmlOrganicItem struct {
	IconURL            string `xml:"iconUrl"`
	DisplayedURL       string `xml:"displayedUrl"`
	Title              string `xml:"title"`
	URL                string `xml:"url"`
	Description        string `xml:"description"`
	EmphasizedKeywords string `xml:"emphasizedKeywords"`
	Type               string `xml:"type"`
	Position           int    `xml:"position"`
}

type xmlPaidItem struct {
	Title        string `xml:"title"`
	URL          string `xml:"url"`
	DisplayedURL string `xml:"displayedUrl"`
	Description  string `xml:"description"`
	Type         string `xml:"type"`
	Position     int    `xml:"position"`
}

type xmlQAItem struct {
	URL      string `xml:"url"`
	Question string `xml:"question"`
	Answer   string `xml:"answer"`
}

type xmlRelatedItem struct {
	Title string `xml:"title"`
	URL   string `xml:"url"`
}

// WriteXML writes one page element per record, each carrying the echoed
// query fields and one container element per item list. Missing values
// render as empty elements.
func WriteXML(w io.Writer, records []*serp.PageRecord) error {
	doc := xmlDocument{}

	for _, rec := range records {
		q := rec.SearchQuery
		page := xmlPage{
			Term:           q.Term,
			ResultsPerPage: q.ResultsPerPage,
			Page:           q.Page,
			URL:            q.URL,
			MarketCode:     q.MarketCode,
			LanguageCode:   q.LanguageCode,
		}

		for _, item := range rec.OrganicResults {
			page.OrganicResults.Items = append(page.OrganicResults.Items, xmlOrganicItem{
				IconURL:            deref(item.IconURL),
				DisplayedURL:       item.DisplayedURL,
				Title:              item.Title,
				URL:                item.URL,
				Description:        item.Description,
				EmphasizedKeywords: strings.Join(item.EmphasizedKeywords, ", "),
				Type:               item.Type,
				Position:           item.Position,
			})
		}
		for _, item := range rec.PaidResults {
			page.PaidResults.Items = append(page.PaidResults.Items, xmlPaidItem{
				Title:        item.Title,
				URL:          item.URL,
				DisplayedURL: item.DisplayedURL,
				Description:  item.Description,
				Type:         item.Type,
				Position:     item.Position,
			})
		}
		for _, item := range rec.PeopleAlsoAsk {
			page.PeopleAlsoAsk.Items = append(page.PeopleAlsoAsk.Items, xmlQAItem{
				URL:      deref(item.URL),
				Question: item.Question,
				Answer:   deref(item.Answer),
			})
		}
		for _, item := range rec.RelatedQueries {
			page.RelatedQueries.Items = append(page.RelatedQueries.Items, xmlRelatedItem{
				Title: item.Title,
				URL:   deref(item.URL),
			})
		}

		doc.Pages = append(doc.Pages, page)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	return nil
}
