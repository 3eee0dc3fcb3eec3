package extract

import (
	"regexp"
	"strconv"
	"strings"
)

const codes = `USD|GBP|EUR|CAD|AUD|NZD|SGD|HKD|CHF|SEK|NOK|DKK|PLN|INR|JPY|BRL|MXN|ILS`

// lakhGrouped is Indian digit grouping: "1,20,000" and "12,50,000".
const lakhGrouped = `\d{1,2}(?:,\d{2})+,\d{3}`

// amountExpr matches one money amount with an optional currency marker on
// either side and an optional magnitude suffix. tag keeps group names unique
// when the expression is used twice in one pattern.
func amountExpr(tag string) string {
	return `(?P<pre` + tag + `>US\$|CA\$|C\$|AU\$|A\$|NZ\$|S\$|HK\$|R\$|MX\$|\$|£|€|₹|¥|\bRs\.?\s?|\b(?:` + codes + `)\s?)?` +
		`(?P<num` + tag + `>` + lakhGrouped + `(?:\.\d+)?|\d{1,3}(?:[,.'\x{00A0} ]\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)` +
		`(?:\s?(?P<mult` + tag + `>(?i:k|m|mn|mil|million|lpa|lakhs?|lacs?|l|crores?|cr))\b)?` +
		`(?:\s?(?P<post` + tag + `>\b(?:` + codes + `)\b|\bkr\b))?`
}

var (
	amountRe = regexp.MustCompile(amountExpr(""))
	rangeRe  = regexp.MustCompile(`^` + amountExpr("1") + `\s*(?:-|–|—|~|\bto\b|\band\b)\s*` + amountExpr("2"))
	groupRe  = regexp.MustCompile(`^(?:` + lakhGrouped + `|\d{1,3}(?:[,.'\x{00A0} ]\d{3})+)(?:\.\d+)?$`)

	upToRe    = regexp.MustCompile(`(?i)\b(?:up to|max(?:imum)?(?: of)?)\s*$`)
	keywordRe = regexp.MustCompile(`(?i)\b(?:salary|compensation|pay|base|range|ote|ctc|remuneration)\b`)

	periodPatterns = []struct {
		period string
		re     *regexp.Regexp
	}{
		{"hour", regexp.MustCompile(`(?i)(?:per hour|an hour|/\s?hr\b|/\s?hour|\bhourly\b)`)},
		{"day", regexp.MustCompile(`(?i)(?:per day|a day|/\s?day\b|\bdaily\b|day rate)`)},
		{"week", regexp.MustCompile(`(?i)(?:per week|a week|/\s?wk\b|/\s?week|\bweekly\b)`)},
		{"month", regexp.MustCompile(`(?i)(?:per month|a month|/\s?mo(?:nth)?\b|\bmonthly\b)`)},
		{"year", regexp.MustCompile(`(?i)(?:per year|a year|per annum|/\s?yr\b|/\s?year|\bannual(?:ly)?\b|\byearly\b|\bp\.a\.|\blpa\b)`)},
	}
)

var prefixCurrencies = map[string]string{
	"$": "USD", "US$": "USD", "CA$": "CAD", "C$": "CAD", "AU$": "AUD", "A$": "AUD",
	"NZ$": "NZD", "S$": "SGD", "HK$": "HKD", "R$": "BRL", "MX$": "MXN",
	"£": "GBP", "€": "EUR", "₹": "INR", "¥": "JPY", "RS": "INR", "RS.": "INR",
}

// amount is one parsed money token.
type amount struct {
	value    float64
	currency string
	suffix   string
	start    int
	end      int
}

// ParseText finds the first stated salary in free text, preferring figures
// near words like "salary" or "compensation". It returns nil when the text
// quotes no amount with a currency marker.
func ParseText(raw string) *Extracted {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	candidates := findCandidates(raw)
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	if loc := keywordRe.FindStringIndex(raw); loc != nil {
		for _, c := range candidates {
			if c[0].start >= loc[0] {
				best = c
				break
			}
		}
	}

	return buildExtracted(raw, best)
}

// findCandidates returns every amount or range carrying a currency marker,
// in text order. Amounts swallowed by an earlier range are skipped.
func findCandidates(raw string) [][2]*amount {
	var out [][2]*amount
	consumed := 0
	for _, m := range amountRe.FindAllStringSubmatchIndex(raw, -1) {
		if m[0] < consumed {
			continue
		}
		single := parseAmount(amountRe, raw, m, "", 0)
		if single == nil {
			continue
		}

		if pair, ok := parseRange(raw, single.start); ok {
			out = append(out, pair)
			consumed = pair[1].end
			continue
		}
		if single.currency != "" {
			out = append(out, [2]*amount{single, nil})
			consumed = single.end
		}
	}
	return out
}

// parseRange tries to read "<amount> - <amount>" starting at from.
func parseRange(raw string, from int) ([2]*amount, bool) {
	m := rangeRe.FindStringSubmatchIndex(raw[from:])
	if m == nil {
		return [2]*amount{}, false
	}
	lo := parseAmount(rangeRe, raw[from:], m, "1", from)
	hi := parseAmount(rangeRe, raw[from:], m, "2", from)
	if lo == nil || hi == nil {
		return [2]*amount{}, false
	}

	switch {
	case lo.currency == "" && hi.currency == "":
		return [2]*amount{}, false
	case lo.currency == "":
		lo.currency = hi.currency
	case hi.currency == "":
		hi.currency = lo.currency
	case lo.currency != hi.currency:
		// "$150,000 - $200,000 CAD": the trailing code qualifies both.
		if !isDollar(lo.currency) {
			return [2]*amount{}, false
		}
		lo.currency = hi.currency
	}

	// "$120 - $160K" shares the suffix.
	if lo.suffix == "" && hi.suffix != "" && lo.value < 1000 {
		lo.value *= suffixMultiplier(hi.suffix)
	}
	return [2]*amount{lo, hi}, true
}

// parseAmount reads the amount whose groups carry tag from submatch indices
// m over s. base shifts the returned positions back into the full text.
func parseAmount(re *regexp.Regexp, s string, m []int, tag string, base int) *amount {
	span := func(name string) (int, int) {
		i := re.SubexpIndex(name + tag)
		if i < 0 || m[2*i] < 0 {
			return -1, -1
		}
		return m[2*i], m[2*i+1]
	}
	text := func(name string) string {
		if a, b := span(name); a >= 0 {
			return s[a:b]
		}
		return ""
	}

	numStart, end := span("num")
	if numStart < 0 {
		return nil
	}
	value, ok := parseNumber(s[numStart:end])
	if !ok || value <= 0 {
		return nil
	}

	suffix := strings.ToLower(text("mult"))
	value *= suffixMultiplier(suffix)

	pre := strings.ToUpper(strings.TrimSpace(text("pre")))
	post := strings.ToUpper(text("post"))
	currency := prefixCurrencies[pre]
	if currency == "" && pre != "" {
		currency = pre
	}
	switch {
	case post == "KR":
		if currency == "" {
			currency = "SEK"
		}
	case post != "":
		currency = post
	}
	if currency == "" && isLakhSuffix(suffix) {
		currency = "INR"
	}

	start := numStart
	if a, _ := span("pre"); a >= 0 {
		start = a
	}
	for _, name := range []string{"mult", "post"} {
		if _, b := span(name); b > end {
			end = b
		}
	}

	return &amount{value: value, currency: currency, suffix: suffix, start: base + start, end: base + end}
}

func buildExtracted(raw string, pair [2]*amount) *Extracted {
	lo, hi := pair[0], pair[1]
	end := lo.end
	if hi != nil {
		end = hi.end
	}

	e := &Extracted{
		Currency: lo.currency,
		Raw:      strings.TrimSpace(raw[lo.start:end]),
		Source:   "text",
	}

	if hi != nil {
		a, b := lo.value, hi.value
		e.Min, e.Max = &a, &b
	} else {
		v := lo.value
		if upToRe.MatchString(raw[:lo.start]) {
			e.Max = &v
		} else {
			e.Min = &v
		}
	}

	windowStart := lo.start - 40
	if windowStart < 0 {
		windowStart = 0
	}
	windowEnd := end + 40
	if windowEnd > len(raw) {
		windowEnd = len(raw)
	}
	e.Period = detectPeriod(raw[windowStart:windowEnd])
	if e.Period == "" && isLakhSuffix(lo.suffix) {
		e.Period = "year"
	}
	return e
}

// detectPeriod returns the first pay period phrase found in s, or "".
func detectPeriod(s string) string {
	for _, p := range periodPatterns {
		if p.re.MatchString(s) {
			return p.period
		}
	}
	return ""
}

func parseNumber(s string) (float64, bool) {
	if groupRe.MatchString(s) {
		// Grouped thousands; a trailing ".dd" is a decimal part only after
		// comma grouping.
		if i := strings.LastIndex(s, "."); i > 0 && strings.Contains(s, ",") && len(s)-i-1 != 3 {
			s = s[:i]
		}
		s = strings.NewReplacer(",", "", ".", "", "'", "", " ", "", "\u00a0", "").Replace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func suffixMultiplier(suffix string) float64 {
	switch suffix {
	case "k":
		return 1_000
	case "m", "mn", "mil", "million":
		return 1_000_000
	case "lpa", "lakh", "lakhs", "lac", "lacs", "l":
		return 100_000
	case "crore", "crores", "cr":
		return 10_000_000
	default:
		return 1
	}
}

func isLakhSuffix(suffix string) bool {
	return suffixMultiplier(suffix) == 100_000
}

func isDollar(code string) bool {
	return code == "USD"
}
