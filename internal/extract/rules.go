package extract

// Rules is the structural extraction contract: the set of selectors that
// locate each record kind in the markup. Layout drift on the engine side is
// absorbed by swapping this value, not by code changes.
type Rules struct {
	// ResultsTotal locates the approximate result-count indicator.
	ResultsTotal string

	// OrganicListing locates organic result nodes in the primary container.
	OrganicListing string
	// PaidListing locates ad-marked result nodes.
	PaidListing string
	// TitleLink locates the required heading link within a listing.
	TitleLink string
	// Description locates the first paragraph-like node within a listing.
	Description string
	// Attribution locates the displayed-url citation within an organic listing.
	Attribution string
	// PaidAttribution locates the displayed-url citation within an ad listing.
	PaidAttribution string
	// Icon locates a favicon-class image within an organic listing.
	Icon string
	// Emphasis locates emphasized keyword nodes within an organic listing.
	Emphasis string

	// QABlock locates expandable question-answer blocks in the context region.
	QABlock string
	// QAContainer, QAQuestion, QAAnswer locate the parts of one block.
	QAContainer string
	QAQuestion  string
	QAAnswer    string

	// RelatedContainer locates the related-searches region; list items are
	// taken from within it. RelatedFlat is the fallback shape where the list
	// items appear without the container.
	RelatedContainer string
	RelatedFlat      string
}

// DefaultRules returns the selector set for the Bing result layout.
func DefaultRules() Rules {
	return Rules{
		ResultsTotal: "#b_tween .sb_count",

		OrganicListing:  "#b_results li.b_algo",
		PaidListing:     "#b_results li.b_ad, #b_results li.b_adresult",
		TitleLink:       "h2 a",
		Description:     "p",
		Attribution:     "div.b_attribution cite",
		PaidAttribution: "div.b_adurl cite, div.b_attribution cite",
		Icon:            "img.favicon, img.b_primicon",
		Emphasis:        "strong",

		QABlock:     "#b_context .b_expando",
		QAContainer: "div.b_qa",
		QAQuestion:  "div.b_q",
		QAAnswer:    "div.b_a",

		RelatedContainer: "#b_context .b_rs",
		RelatedFlat:      "#b_context .b_rs ul li",
	}
}
