package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fromJSONLD reads schema.org JobPosting baseSalary blocks.
func fromJSONLD(doc *goquery.Document) *Extracted {
	var found *Extracted
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		found = findBaseSalary(payload)
		return found == nil
	})
	return found
}

func findBaseSalary(v any) *Extracted {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			if e := findBaseSalary(item); e != nil {
				return e
			}
		}
	case map[string]any:
		if graph, ok := node["@graph"]; ok {
			return findBaseSalary(graph)
		}
		if base, ok := node["baseSalary"].(map[string]any); ok {
			return monetaryAmount(base)
		}
	}
	return nil
}

// monetaryAmount converts a schema.org MonetaryAmount.
func monetaryAmount(m map[string]any) *Extracted {
	e := &Extracted{Currency: strings.ToUpper(stringField(m, "currency")), Source: "jsonld"}

	switch value := m["value"].(type) {
	case map[string]any:
		e.Min = numberField(value, "minValue")
		e.Max = numberField(value, "maxValue")
		if e.Min == nil && e.Max == nil {
			e.Min = numberField(value, "value")
		}
		e.Period = strings.ToLower(stringField(value, "unitText"))
	default:
		e.Min = toNumber(value)
	}
	if e.Period == "" {
		e.Period = strings.ToLower(stringField(m, "unitText"))
	}

	if e.Min == nil && e.Max == nil {
		return nil
	}
	return e
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func numberField(m map[string]any, key string) *float64 {
	return toNumber(m[key])
}

func toNumber(v any) *float64 {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return &n
		}
	case string:
		if f, ok := parseNumber(strings.TrimSpace(n)); ok && f > 0 {
			return &f
		}
	}
	return nil
}

// fromEmbeddedJSON looks for string-valued keys inside inline application
// state, such as Ashby's window.__appData, and parses the first summary found.
func fromEmbeddedJSON(html string, keys []string) *Extracted {
	for _, key := range keys {
		re := regexp.MustCompile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*("(?:[^"\\]|\\.)*")`)
		m := re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		summary, err := strconv.Unquote(m[1])
		if err != nil {
			if jerr := json.Unmarshal([]byte(m[1]), &summary); jerr != nil {
				continue
			}
		}
		if e := ParseText(summary); e != nil {
			e.Source = "embedded"
			return e
		}
	}
	return nil
}

// fromSelectors parses the text of the first matching pay element. The
// parent's text is included so labels such as "Hourly" inform the period.
func fromSelectors(doc *goquery.Document, selectors []string) *Extracted {
	if len(selectors) == 0 {
		return nil
	}
	var found *Extracted
	doc.Find(strings.Join(selectors, ", ")).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Parent().Text()), " ")
		if text == "" {
			text = strings.Join(strings.Fields(s.Text()), " ")
		}
		if found = ParseText(text); found != nil {
			found.Source = "markup"
		}
		return found == nil
	})
	return found
}
