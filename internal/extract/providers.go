package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Provider names, matching fetch.Platform values.
const (
	ProviderGreenhouse  = "greenhouse"
	ProviderLever       = "lever"
	ProviderAshby       = "ashby"
	ProviderWorkday     = "workday"
	ProviderYCombinator = "ycombinator"
	ProviderText        = "text"
	ProviderLLM         = "llm"
)

// HTMLExtractor tries provider markup first, then inline application state,
// then JSON-LD, then the page's visible text.
type HTMLExtractor struct {
	provider  string
	selectors []string
	embedded  []string
}

// Greenhouse reads the pay transparency block on Greenhouse job boards.
func Greenhouse() *HTMLExtractor {
	return &HTMLExtractor{
		provider:  ProviderGreenhouse,
		selectors: []string{".pay-range", ".job__pay-ranges", "[class*='pay-transparency']"},
	}
}

// Lever reads Lever's compensation category and salary-range blocks.
func Lever() *HTMLExtractor {
	return &HTMLExtractor{
		provider:  ProviderLever,
		selectors: []string{".posting-categories .compensation", ".salary-range", "[data-qa='salary-range']"},
	}
}

// Ashby reads the compensation summary Ashby embeds in its app state.
func Ashby() *HTMLExtractor {
	return &HTMLExtractor{
		provider: ProviderAshby,
		embedded: []string{"scrapeableCompensationSalarySummary", "compensationTierSummary"},
	}
}

// Workday relies on JSON-LD and the rendered description.
func Workday() *HTMLExtractor {
	return &HTMLExtractor{provider: ProviderWorkday}
}

// YCombinator reads the salary line on Work at a Startup postings.
func YCombinator() *HTMLExtractor {
	return &HTMLExtractor{
		provider:  ProviderYCombinator,
		selectors: []string{".company-details .salary", "[class*='salary']"},
	}
}

// Text is the generic extractor for boards with no dedicated support.
func Text() *HTMLExtractor {
	return &HTMLExtractor{provider: ProviderText}
}

// Provider returns the provider key.
func (x *HTMLExtractor) Provider() string {
	return x.provider
}

// Extract implements Extractor.
func (x *HTMLExtractor) Extract(ctx context.Context, page Page) (*Extracted, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(page.HTML) == "" {
		return ParseText(page.Text), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, &Error{Provider: x.provider, Message: "failed to parse HTML", Cause: err}
	}

	if e := fromSelectors(doc, x.selectors); e != nil {
		return e, nil
	}
	if e := fromEmbeddedJSON(page.HTML, x.embedded); e != nil {
		return e, nil
	}
	if e := fromJSONLD(doc); e != nil {
		return e, nil
	}

	text := page.Text
	if text == "" {
		doc.Find("script, style, noscript").Remove()
		text = doc.Find("body").Text()
	}
	return ParseText(text), nil
}
