// Package extract turns raw SERP markup into the structured record set.
// Extraction is best-effort throughout: a missing or malformed region leaves
// its field absent and never fails the page.
package extract

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MaudeOps/dredge/internal/serp"
)

// Extractor parses markup payloads according to a fixed rule set. It holds
// no mutable state; extraction is deterministic for identical markup.
type Extractor struct {
	rules  Rules
	logger *slog.Logger
}

// New creates an Extractor. A zero Rules value falls back to DefaultRules.
func New(rules Rules, logger *slog.Logger) *Extractor {
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{rules: rules, logger: logger}
}

// Extract parses one page of markup into a PageRecord carrying the given
// query echo. It never fails: unparseable markup yields a record with empty
// item lists.
func (e *Extractor) Extract(markup string, q serp.SearchQuery) *serp.PageRecord {
	rec := serp.NewPageRecord(q)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		e.logger.Debug("markup not parseable", "term", q.Term, "page", q.Page, "err", err)
		return rec
	}

	rec.ResultsTotal = e.resultsTotal(doc)
	rec.OrganicResults = e.organicResults(doc)
	rec.PaidResults = e.paidResults(doc)
	rec.PeopleAlsoAsk = e.peopleAlsoAsk(doc)
	rec.RelatedQueries = e.relatedQueries(doc)

	return rec
}

// resultsTotal reads the approximate result count, e.g. "About 1,234 results".
// All non-digit characters are stripped before parsing.
func (e *Extractor) resultsTotal(doc *goquery.Document) *int {
	text := cleanText(doc.Find(e.rules.ResultsTotal).First().Text())
	if text == "" {
		return nil
	}

	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return nil
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		e.logger.Debug("results total not parseable", "text", text, "err", err)
		return nil
	}
	return &n
}

func (e *Extractor) organicResults(doc *goquery.Document) []serp.OrganicItem {
	items := []serp.OrganicItem{}
	position := 0

	doc.Find(e.rules.OrganicListing).Each(func(_ int, li *goquery.Selection) {
		link := li.Find(e.rules.TitleLink).First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		position++

		item := serp.OrganicItem{
			DisplayedURL:       e.displayedURL(li, e.rules.Attribution, href),
			Title:              cleanText(link.Text()),
			URL:                href,
			Description:        cleanText(li.Find(e.rules.Description).First().Text()),
			EmphasizedKeywords: e.emphasizedKeywords(li),
			Type:               serp.TypeOrganic,
			Position:           position,
		}

		if src, ok := li.Find(e.rules.Icon).First().Attr("src"); ok && src != "" {
			item.IconURL = &src
		}

		items = append(items, item)
	})

	return items
}

func (e *Extractor) paidResults(doc *goquery.Document) []serp.PaidItem {
	items := []serp.PaidItem{}
	position := 0

	doc.Find(e.rules.PaidListing).Each(func(_ int, li *goquery.Selection) {
		link := li.Find(e.rules.TitleLink).First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		position++

		items = append(items, serp.PaidItem{
			Title:        cleanText(link.Text()),
			URL:          href,
			DisplayedURL: e.displayedURL(li, e.rules.PaidAttribution, href),
			Description:  cleanText(li.Find(e.rules.Description).First().Text()),
			Type:         serp.TypeAd,
			Position:     position,
		})
	})

	return items
}

func (e *Extractor) peopleAlsoAsk(doc *goquery.Document) []serp.QAItem {
	items := []serp.QAItem{}

	doc.Find(e.rules.QABlock).Each(func(_ int, block *goquery.Selection) {
		qa := block.Find(e.rules.QAContainer).First()
		if qa.Length() == 0 {
			return
		}

		question := cleanText(qa.Find(e.rules.QAQuestion).First().Text())
		if question == "" {
			return
		}

		item := serp.QAItem{Question: question}

		if answer := cleanText(qa.Find(e.rules.QAAnswer).First().Text()); answer != "" {
			item.Answer = &answer
		}
		if href, ok := qa.Find("a[href]").First().Attr("href"); ok && href != "" {
			item.URL = &href
		}

		items = append(items, item)
	})

	return items
}

func (e *Extractor) relatedQueries(doc *goquery.Document) []serp.RelatedItem {
	items := []serp.RelatedItem{}

	lis := doc.Find(e.rules.RelatedContainer).First().Find("li")
	if lis.Length() == 0 {
		lis = doc.Find(e.rules.RelatedFlat)
	}

	lis.Each(func(_ int, li *goquery.Selection) {
		link := li.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		title := cleanText(link.Text())
		if title == "" {
			return
		}

		item := serp.RelatedItem{Title: title}
		if href, ok := link.Attr("href"); ok && href != "" {
			item.URL = &href
		}
		items = append(items, item)
	})

	return items
}

// displayedURL reads the citation text of a listing, falling back to the raw
// target URL when the attribution node is absent or empty.
func (e *Extractor) displayedURL(li *goquery.Selection, selector, fallback string) string {
	if text := cleanText(li.Find(selector).First().Text()); text != "" {
		return text
	}
	return fallback
}

// emphasizedKeywords collects emphasized text nodes, de-duplicated
// case-insensitively with first-seen order preserved.
func (e *Extractor) emphasizedKeywords(li *goquery.Selection) []string {
	keywords := []string{}
	seen := map[string]struct{}{}

	li.Find(e.rules.Emphasis).Each(func(_ int, s *goquery.Selection) {
		kw := cleanText(s.Text())
		if kw == "" {
			return
		}
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		keywords = append(keywords, kw)
	})

	return keywords
}

// cleanText collapses runs of whitespace to single spaces and trims the ends.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
