package ingestion

import (
	"regexp"
	"strings"
)

// countryNames maps lowercase place names seen in posting locations to
// ISO 3166-1 alpha-2 codes.
var countryNames = map[string]string{
	"united states": "US", "united states of america": "US", "usa": "US", "us": "US", "u.s.": "US",
	"new york": "US", "nyc": "US", "san francisco": "US", "seattle": "US", "austin": "US",
	"boston": "US", "los angeles": "US", "chicago": "US", "denver": "US",
	"united kingdom": "GB", "uk": "GB", "england": "GB", "scotland": "GB", "london": "GB",
	"manchester": "GB", "edinburgh": "GB",
	"ireland": "IE", "dublin": "IE",
	"germany": "DE", "deutschland": "DE", "berlin": "DE", "munich": "DE", "münchen": "DE", "hamburg": "DE",
	"netherlands": "NL", "amsterdam": "NL", "rotterdam": "NL",
	"france": "FR", "paris": "FR",
	"spain": "ES", "madrid": "ES", "barcelona": "ES",
	"canada": "CA", "toronto": "CA", "vancouver": "CA", "montreal": "CA",
	"australia": "AU", "sydney": "AU", "melbourne": "AU",
	"new zealand": "NZ", "auckland": "NZ", "wellington": "NZ",
	"switzerland": "CH", "zurich": "CH", "zürich": "CH", "geneva": "CH",
	"singapore": "SG",
	"sweden":    "SE", "stockholm": "SE",
	"india": "IN", "bangalore": "IN", "bengaluru": "IN", "hyderabad": "IN", "pune": "IN",
	"mumbai": "IN", "delhi": "IN", "gurgaon": "IN", "chennai": "IN",
	"japan": "JP", "tokyo": "JP",
	"poland": "PL", "warsaw": "PL",
	"brazil": "BR", "são paulo": "BR", "sao paulo": "BR",
	"mexico": "MX", "mexico city": "MX",
	"israel": "IL", "tel aviv": "IL",
}

const usStates = "AL AK AZ AR CA CO CT DE FL GA HI ID IL IN IA KS KY LA ME MD MA MI MN MS MO MT NE NV NH NJ NM NY NC ND OH OK OR PA RI SC SD TN TX UT VT VA WA WV WI WY DC"

var (
	locationSplitRe = regexp.MustCompile(`[,/;()|·•]+|\s+-\s+`)
	nonWordRe       = regexp.MustCompile(`[^\p{L}\p{N}.]+`)
)

// CountryFromLocation guesses the country of a free-form location such as
// "London, UK" or "Remote - US". A trailing two-letter token is read as a
// US state, since ATS boards write "Austin, TX". It returns "" when unsure.
func CountryFromLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}

	parts := locationSplitRe.Split(location, -1)
	for i := len(parts) - 1; i >= 0; i-- {
		if code, ok := countryNames[strings.ToLower(strings.TrimSpace(parts[i]))]; ok {
			return code
		}
	}
	for i := len(parts) - 1; i > 0; i-- {
		part := strings.TrimSpace(parts[i])
		if len(part) == 2 && part == strings.ToUpper(part) && strings.Contains(usStates, part) {
			return "US"
		}
	}

	words := " " + strings.Join(strings.Fields(nonWordRe.ReplaceAllString(strings.ToLower(location), " ")), " ") + " "
	best, bestLen := "", 0
	for name, code := range countryNames {
		if len(name) > bestLen && len(name) > 3 && strings.Contains(words, " "+name+" ") {
			best, bestLen = code, len(name)
		}
	}
	return best
}
