package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata_JSONLD(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"JobPosting","title":"Senior Backend Engineer",
 "datePosted":"2024-03-01",
 "hiringOrganization":{"@type":"Organization","name":"Acme"},
 "jobLocation":{"@type":"Place","address":{"addressLocality":"London","addressCountry":"GB"}}}
</script>
<meta property="og:title" content="Ignored">
</head><body><h1>Also ignored</h1></body></html>`

	m := ExtractMetadata(html, "https://example.com/jobs/1")
	assert.Equal(t, "Senior Backend Engineer", m.Title)
	assert.Equal(t, "Acme", m.Company)
	assert.Equal(t, "London, GB", m.Location)
	assert.Equal(t, "GB", m.CountryCode)
	require.NotNil(t, m.PostedAt)
	assert.Equal(t, 2024, m.PostedAt.Year())
}

func TestExtractMetadata_Graph(t *testing.T) {
	html := `<script type="application/ld+json">
{"@graph":[{"@type":"WebPage"},{"@type":["JobPosting"],"title":"Data Engineer",
 "hiringOrganization":"Initech",
 "jobLocation":[{"address":{"addressLocality":"Toronto","addressCountry":{"name":"Canada"}}}]}]}
</script>`

	m := ExtractMetadata(html, "")
	assert.Equal(t, "Data Engineer", m.Title)
	assert.Equal(t, "Initech", m.Company)
	assert.Equal(t, "CA", m.CountryCode)
}

func TestExtractMetadata_Fallbacks(t *testing.T) {
	html := `<html><head><title>Staff Engineer - Acme Robotics</title></head>
<body><div class="posting-categories"><div class="location">Austin, TX</div></div></body></html>`

	m := ExtractMetadata(html, "https://jobs.lever.co/acme-robotics/123")
	assert.Equal(t, "Staff Engineer", m.Title)
	assert.Equal(t, "Acme Robotics", m.Company)
	assert.Equal(t, "Austin, TX", m.Location)
	assert.Equal(t, "US", m.CountryCode)
	assert.Nil(t, m.PostedAt)
}

func TestExtractMetadata_OpenGraph(t *testing.T) {
	html := `<head><meta property="og:title" content="Platform Engineer | Globex">
<meta property="og:site_name" content="Globex"></head><body><h1>Apply now</h1></body>`

	m := ExtractMetadata(html, "https://globex.example.com/careers/9")
	assert.Equal(t, "Platform Engineer", m.Title)
	assert.Equal(t, "Globex", m.Company)
	assert.Empty(t, m.CountryCode)
}

func TestCountryFromLocation(t *testing.T) {
	tests := []struct {
		location string
		expected string
	}{
		{"", ""},
		{"London, UK", "GB"},
		{"Remote - US", "US"},
		{"Remote (Canada)", "CA"},
		{"Austin, TX", "US"},
		{"Bengaluru, Karnataka, India", "IN"},
		{"Berlin", "DE"},
		{"Hybrid in Amsterdam office", "NL"},
		{"Indianapolis, Indiana", ""},
		{"Anywhere", ""},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountryFromLocation(tt.location))
		})
	}
}
