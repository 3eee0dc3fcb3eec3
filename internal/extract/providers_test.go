package extract

import (
	"context"
	"testing"

	"github.com/jonathan/sixfigure-jobs/internal/salary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greenhousePage = `<html><body>
<div class="job__description"><p>Build payment systems.</p></div>
<div class="pay-input"><div class="title">Annual Salary</div>
<div class="pay-range"><span>$150,000</span><span class="divider">&mdash;</span><span>$200,000 USD</span></div>
</div></body></html>`

const ashbyPage = `<html><head><script>window.__appData = {"posting":{"title":"Platform Engineer",` +
	`"scrapeableCompensationSalarySummary":"£80K – £100K",` +
	`"compensationTierSummary":"£80K – £100K • Offers Equity"}};</script></head>` +
	`<body><div id="root"></div></body></html>`

const jsonLDPage = `<html><head><script type="application/ld+json">
{"@context":"https://schema.org","@type":"JobPosting","title":"SRE",
 "baseSalary":{"@type":"MonetaryAmount","currency":"EUR",
  "value":{"@type":"QuantitativeValue","minValue":90000,"maxValue":"110000","unitText":"YEAR"}}}
</script></head><body><p>Join our team in Berlin.</p></body></html>`

func TestGreenhouse_PayRange(t *testing.T) {
	got, err := Greenhouse().Extract(context.Background(), Page{HTML: greenhousePage})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 150_000.0, *got.Min)
	assert.Equal(t, 200_000.0, *got.Max)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "year", got.Period)
	assert.Equal(t, "markup", got.Source)
}

func TestAshby_EmbeddedSummary(t *testing.T) {
	got, err := Ashby().Extract(context.Background(), Page{HTML: ashbyPage})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 80_000.0, *got.Min)
	assert.Equal(t, 100_000.0, *got.Max)
	assert.Equal(t, "GBP", got.Currency)
	assert.Equal(t, "embedded", got.Source)
}

func TestWorkday_JSONLD(t *testing.T) {
	got, err := Workday().Extract(context.Background(), Page{HTML: jsonLDPage})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 90_000.0, *got.Min)
	assert.Equal(t, 110_000.0, *got.Max)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "year", got.Period)
	assert.Equal(t, "jsonld", got.Source)
}

func TestJSONLD_GraphAndSingleValue(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
{"@graph":[{"@type":"Organization","name":"Acme"},
 {"@type":"JobPosting","baseSalary":{"currency":"USD","value":{"value":65,"unitText":"HOUR"}}}]}
</script></head><body></body></html>`

	got, err := Text().Extract(context.Background(), Page{HTML: page})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 65.0, *got.Min)
	assert.Nil(t, got.Max)
	assert.Equal(t, "hour", got.Period)
}

func TestHTMLExtractor_FallsBackToVisibleText(t *testing.T) {
	page := `<html><body><script>var budget = "$9,999,999";</script>
<div class="posting-page"><p>The base salary for this role is $140,000 - $175,000.</p></div></body></html>`

	got, err := Lever().Extract(context.Background(), Page{HTML: page})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 140_000.0, *got.Min)
	assert.Equal(t, 175_000.0, *got.Max)
	assert.Equal(t, "text", got.Source)
}

func TestHTMLExtractor_TextOnlyPage(t *testing.T) {
	got, err := YCombinator().Extract(context.Background(), Page{Text: "$160K - $220K • 0.25% - 0.75%"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 160_000.0, *got.Min)
	assert.Equal(t, 220_000.0, *got.Max)
}

func TestHTMLExtractor_NoSalary(t *testing.T) {
	got, err := Greenhouse().Extract(context.Background(), Page{HTML: `<html><body><p>Competitive pay.</p></body></html>`})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHTMLExtractor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Greenhouse().Extract(ctx, Page{HTML: greenhousePage})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtracted_ToInput(t *testing.T) {
	e := &Extracted{Min: f(7_000), Max: f(9_000), Currency: "GBP", Period: "month", Raw: "£7,000 - £9,000 per month"}
	in := e.ToInput("GB")

	assert.Equal(t, salary.Input{
		SalaryMin:    f(7_000),
		SalaryMax:    f(9_000),
		Currency:     "GBP",
		CountryCode:  "GB",
		SalaryPeriod: "month",
		SalaryRaw:    "£7,000 - £9,000 per month",
	}, in)

	var none *Extracted
	assert.Equal(t, salary.Input{CountryCode: "US"}, none.ToInput("US"))
}

func TestExtractedFeedsResolver(t *testing.T) {
	got, err := Greenhouse().Extract(context.Background(), Page{HTML: greenhousePage})
	require.NoError(t, err)

	text, ok := salary.BuildSalaryText(got.ToInput("US"))
	assert.True(t, ok)
	assert.Equal(t, "$150K - $200K", text)
}
