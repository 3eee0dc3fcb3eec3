package salary

import (
	"sort"
)

// Tier identifiers, named after the USD band they stand in for.
const (
	Tier100 = "100-199"
	Tier200 = "200-299"
	Tier300 = "300-399"
	Tier400 = "400-500"
)

// Band is one salary tier with an inclusive local-currency range.
// A nil Max means the tier is open-ended.
type Band struct {
	ID  string   `json:"id"`
	Min float64  `json:"min"`
	Max *float64 `json:"max"`
}

// Contains reports whether v falls inside the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Min && (b.Max == nil || v <= *b.Max)
}

// BandTable translates "$100k+ equivalent" into locally meaningful numbers
// for one market.
type BandTable struct {
	Currency string `json:"currency"`
	Bands    []Band `json:"bands"`
	// DisplayCeiling is the largest figure the formatter prints as a number.
	// Zero means the registry's gate ceiling.
	DisplayCeiling float64 `json:"display_ceiling,omitempty"`
	// RawFloor marks a local-currency or monthly-prone market: raw figures
	// below it are never displayed, whatever their stated period.
	RawFloor float64 `json:"raw_floor,omitempty"`
}

// Threshold is the lowest band minimum, the "local $100k" line.
func (t BandTable) Threshold() float64 {
	if len(t.Bands) == 0 {
		return 0
	}
	lowest := t.Bands[0].Min
	for _, b := range t.Bands[1:] {
		if b.Min < lowest {
			lowest = b.Min
		}
	}
	return lowest
}

// BandFor returns the ID of the highest band whose minimum v reaches, or ""
// when v sits below every band.
func (t BandTable) BandFor(v float64) string {
	id := ""
	best := -1.0
	for _, b := range t.Bands {
		if v >= b.Min && b.Min > best {
			id, best = b.ID, b.Min
		}
	}
	return id
}

// tiers builds the standard four-band table at base, 2x, 3x and 4x.
func tiers(currency string, base, displayCeiling float64) BandTable {
	ids := []string{Tier100, Tier200, Tier300, Tier400}
	bands := make([]Band, len(ids))
	for i, id := range ids {
		bands[i] = Band{ID: id, Min: base * float64(i+1)}
		if i < len(ids)-1 {
			bands[i].Max = Float(base*float64(i+2) - 1)
		}
	}
	return BandTable{Currency: currency, Bands: bands, DisplayCeiling: displayCeiling}
}

// DefaultBandTables returns the built-in per-country tables. The thresholds
// are roughly cost-of-living adjusted rather than FX converted.
func DefaultBandTables() map[string]BandTable {
	in := tiers("INR", 2_500_000, 5_000_000)
	in.RawFloor = 100_000
	se := tiers("SEK", 900_000, 5_000_000)
	se.RawFloor = 100_000

	return map[string]BandTable{
		"US": tiers("USD", 100_000, 1_000_000),
		"GB": tiers("GBP", 75_000, 800_000),
		"IE": tiers("EUR", 85_000, 900_000),
		"DE": tiers("EUR", 85_000, 900_000),
		"NL": tiers("EUR", 80_000, 900_000),
		"FR": tiers("EUR", 75_000, 900_000),
		"ES": tiers("EUR", 60_000, 900_000),
		"CA": tiers("CAD", 130_000, 1_300_000),
		"AU": tiers("AUD", 150_000, 1_500_000),
		"NZ": tiers("NZD", 150_000, 1_500_000),
		"CH": tiers("CHF", 120_000, 1_200_000),
		"SG": tiers("SGD", 130_000, 1_300_000),
		"SE": se,
		"IN": in,
	}
}

// DefaultRates holds approximate USD per unit of each currency, used only for
// the global high-salary flag.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"USD": 1,
		"GBP": 1.27,
		"EUR": 1.08,
		"CAD": 0.73,
		"AUD": 0.66,
		"NZD": 0.60,
		"CHF": 1.13,
		"SGD": 0.74,
		"SEK": 0.095,
		"INR": 0.012,
		"NOK": 0.093,
		"DKK": 0.145,
		"PLN": 0.25,
		"JPY": 0.0067,
		"BRL": 0.18,
		"MXN": 0.055,
		"ILS": 0.27,
		"AED": 0.27,
		"HKD": 0.128,
	}
}

var countryCurrencies = map[string]string{
	"US": "USD", "GB": "GBP", "UK": "GBP", "IE": "EUR", "DE": "EUR", "NL": "EUR",
	"FR": "EUR", "ES": "EUR", "IT": "EUR", "PT": "EUR", "BE": "EUR", "AT": "EUR",
	"FI": "EUR", "CA": "CAD", "AU": "AUD", "NZ": "NZD", "CH": "CHF", "SG": "SGD",
	"SE": "SEK", "NO": "NOK", "DK": "DKK", "PL": "PLN", "IN": "INR", "JP": "JPY",
	"BR": "BRL", "MX": "MXN", "IL": "ILS", "AE": "AED", "HK": "HKD",
}

// DefaultCurrency returns the usual currency of an ISO 3166-1 alpha-2
// country code, or "" when unknown.
func DefaultCurrency(country string) string {
	return countryCurrencies[normalizeCode(country)]
}

// Registry is the injectable configuration behind resolution, classification
// and formatting: band tables keyed by country, FX rates for the global flag,
// and the validity gate.
type Registry struct {
	Floor   float64
	Ceiling float64

	fallback   BandTable
	countries  map[string]BandTable
	currencies map[string]BandTable
	rates      map[string]float64
}

// NewRegistry builds a registry over tables (keyed by country code) and rates
// (USD per unit). A "US" entry, when present, replaces the built-in USD
// fallback table.
func NewRegistry(tables map[string]BandTable, rates map[string]float64) *Registry {
	r := &Registry{
		Floor:      DefaultFloor,
		Ceiling:    DefaultCeiling,
		fallback:   tiers("USD", 100_000, 1_000_000),
		countries:  make(map[string]BandTable, len(tables)),
		currencies: make(map[string]BandTable),
		rates:      make(map[string]float64, len(rates)),
	}

	codes := make([]string, 0, len(tables))
	for code := range tables {
		codes = append(codes, normalizeCode(code))
	}
	sort.Strings(codes)

	for code, t := range tables {
		t.Currency = normalizeCode(t.Currency)
		r.countries[normalizeCode(code)] = t
	}
	// First country in code order owns its currency's index entry.
	for _, code := range codes {
		t := r.countries[code]
		if _, ok := r.currencies[t.Currency]; !ok && len(t.Bands) > 0 {
			r.currencies[t.Currency] = t
		}
	}
	if us, ok := r.countries["US"]; ok && len(us.Bands) > 0 {
		r.fallback = us
	}
	r.currencies["USD"] = r.fallback

	for code, rate := range rates {
		r.rates[normalizeCode(code)] = rate
	}
	return r
}

// DefaultRegistry returns a registry over the built-in tables and rates.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultBandTables(), DefaultRates())
}

// WithGate returns a copy of r using a different validity gate.
func (r *Registry) WithGate(floor, ceiling float64) *Registry {
	cp := *r
	cp.Floor, cp.Ceiling = floor, ceiling
	return &cp
}

// Lookup returns the band table for a posting. It never fails: the country's
// table is used when its currency agrees with the posting's, then the table
// for the posting's currency, then the country's table regardless, then the
// USD table verbatim with no FX conversion.
func (r *Registry) Lookup(country, currency string) BandTable {
	country, currency = normalizeCode(country), normalizeCode(currency)

	t, hasCountry := r.countries[country]
	hasCountry = hasCountry && len(t.Bands) > 0
	if hasCountry && (currency == "" || t.Currency == currency) {
		return t
	}
	if ct, ok := r.currencies[currency]; ok {
		return ct
	}
	if hasCountry {
		return t
	}
	return r.fallback
}

// Countries lists the country codes with a custom table, sorted.
func (r *Registry) Countries() []string {
	out := make([]string, 0, len(r.countries))
	for code := range r.countries {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// ToUSD converts v from currency into approximate USD. ok is false when the
// currency has no rate, in which case no conversion is possible.
func (r *Registry) ToUSD(v float64, currency string) (usd float64, ok bool) {
	rate, ok := r.rates[normalizeCode(currency)]
	if !ok || rate <= 0 {
		return 0, false
	}
	return v * rate, true
}
