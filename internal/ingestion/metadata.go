package ingestion

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Metadata is the non-salary description of a posting.
type Metadata struct {
	Title       string     `json:"title,omitempty"`
	Company     string     `json:"company,omitempty"`
	Location    string     `json:"location,omitempty"`
	CountryCode string     `json:"country_code,omitempty"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
}

// jobPostingLD is the subset of schema.org JobPosting we read.
type jobPostingLD struct {
	Type               any             `json:"@type"`
	Title              string          `json:"title"`
	DatePosted         string          `json:"datePosted"`
	HiringOrganization json.RawMessage `json:"hiringOrganization"`
	JobLocation        json.RawMessage `json:"jobLocation"`
}

type placeLD struct {
	Address struct {
		Locality string `json:"addressLocality"`
		Region   string `json:"addressRegion"`
		Country  any    `json:"addressCountry"`
	} `json:"address"`
}

// ExtractMetadata reads title, company, location and posting date from a
// posting page. JSON-LD wins over Open Graph tags, which win over headings
// and the URL.
func ExtractMetadata(html, pageURL string) *Metadata {
	m := &Metadata{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		fromJobPostingLD(doc, m)

		if m.Title == "" {
			m.Title = metaContent(doc, "og:title")
		}
		if m.Title == "" {
			m.Title = strings.TrimSpace(doc.Find("h1").First().Text())
		}
		if m.Title == "" {
			m.Title = strings.TrimSpace(doc.Find("title").First().Text())
		}
		if m.Company == "" {
			m.Company = metaContent(doc, "og:site_name")
		}
		if m.Location == "" {
			for _, sel := range []string{".location", ".posting-categories .location", "[class*='location']"} {
				if loc := strings.TrimSpace(doc.Find(sel).First().Text()); loc != "" {
					m.Location = collapse(loc)
					break
				}
			}
		}
	}

	if m.Company == "" {
		m.Company = companyFromPath(pageURL)
	}
	m.Title = splitTitle(m.Title, m.Company)
	if m.CountryCode == "" {
		m.CountryCode = CountryFromLocation(m.Location)
	}
	return m
}

func fromJobPostingLD(doc *goquery.Document, m *Metadata) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}
		posting := findJobPosting(raw)
		if posting == nil {
			return true
		}

		m.Title = strings.TrimSpace(posting.Title)
		m.Company = organizationName(posting.HiringOrganization)
		m.Location, m.CountryCode = placeFromLD(posting.JobLocation)
		if t := parseDate(posting.DatePosted); t != nil {
			m.PostedAt = t
		}
		return false
	})
}

func findJobPosting(v any) *jobPostingLD {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			if p := findJobPosting(item); p != nil {
				return p
			}
		}
	case map[string]any:
		if graph, ok := node["@graph"]; ok {
			return findJobPosting(graph)
		}
		if !isType(node["@type"], "JobPosting") {
			return nil
		}
		b, err := json.Marshal(node)
		if err != nil {
			return nil
		}
		var p jobPostingLD
		if err := json.Unmarshal(b, &p); err != nil {
			return nil
		}
		return &p
	}
	return nil
}

func isType(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func organizationName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var org struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &org); err == nil && org.Name != "" {
		return strings.TrimSpace(org.Name)
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return strings.TrimSpace(name)
	}
	return ""
}

// placeFromLD reads the first jobLocation, which may be one Place or a list.
func placeFromLD(raw json.RawMessage) (location, country string) {
	if len(raw) == 0 {
		return "", ""
	}
	var places []placeLD
	if err := json.Unmarshal(raw, &places); err != nil {
		var one placeLD
		if err := json.Unmarshal(raw, &one); err != nil {
			return "", ""
		}
		places = []placeLD{one}
	}
	if len(places) == 0 {
		return "", ""
	}

	addr := places[0].Address
	switch c := addr.Country.(type) {
	case string:
		country = c
	case map[string]any:
		country, _ = c["name"].(string)
	}

	var parts []string
	for _, p := range []string{addr.Locality, addr.Region, country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	location = strings.Join(parts, ", ")

	if len(country) == 2 {
		country = strings.ToUpper(country)
	} else {
		country = CountryFromLocation(country)
	}
	return location, country
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(`meta[property="` + property + `"]`)
	if sel.Length() == 0 {
		sel = doc.Find(`meta[name="` + property + `"]`)
	}
	content, _ := sel.First().Attr("content")
	return strings.TrimSpace(content)
}

var titleSeparators = []string{" - ", " | ", " – ", " at "}

// splitTitle drops a trailing company name from page titles such as
// "Staff Engineer - Acme".
func splitTitle(title, company string) string {
	title = collapse(title)
	if company == "" {
		return title
	}
	for _, sep := range titleSeparators {
		if head, tail, ok := strings.Cut(title, sep); ok && strings.Contains(strings.ToLower(tail), strings.ToLower(company)) {
			return strings.TrimSpace(head)
		}
	}
	return title
}

var spaceRe = regexp.MustCompile(`\s+`)

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
