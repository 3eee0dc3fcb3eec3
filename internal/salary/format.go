package salary

import (
	"fmt"
)

// HighSalaryLabel replaces figures above a table's display ceiling.
const HighSalaryLabel = "High salary role"

var currencySymbols = map[string]string{
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
	"INR": "₹",
	"JPY": "¥",
	"CNY": "¥",
	"KRW": "₩",
	"CAD": "CA$",
	"AUD": "A$",
	"NZD": "NZ$",
	"SGD": "S$",
	"HKD": "HK$",
	"BRL": "R$",
	"MXN": "MX$",
	"ILS": "₪",
	"PLN": "zł",
	"CHF": "CHF ",
	"SEK": "SEK ",
	"NOK": "NOK ",
	"DKK": "DKK ",
}

// CurrencySymbol returns the display prefix for a currency code. Unknown
// codes fall back to the code itself followed by a space; an empty code is
// treated as USD.
func CurrencySymbol(code string) string {
	code = normalizeCode(code)
	if code == "" {
		return "$"
	}
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code + " "
}

// BuildSalaryText renders the salary badge for a job card, e.g. "$120K+" or
// "£80K - £95K". ok is false when the posting should show no salary at all:
// nothing resolvable, every bound rejected by the gate, a raw figure below a
// monthly-prone market's floor, or a range that never reaches the market's
// lowest band.
//
// Figures above the table's display ceiling are never printed; the currency
// symbol followed by HighSalaryLabel is returned instead. Thousands are
// truncated, not rounded.
func (r *Registry) BuildSalaryText(in Input) (text string, ok bool) {
	lo, hi, ok := Annualize(in)
	if !ok {
		return "", false
	}

	currency := r.currencyFor(in)
	table := r.Lookup(in.CountryCode, currency)
	symbol := CurrencySymbol(currency)

	if table.RawFloor > 0 {
		for _, v := range []*float64{in.SalaryMin, in.MinAnnual} {
			if v != nil && *v < table.RawFloor {
				return "", false
			}
		}
	}

	ceiling := table.DisplayCeiling
	if ceiling <= 0 {
		ceiling = r.Ceiling
	}
	if (lo != nil && *lo > ceiling) || (hi != nil && *hi > ceiling) {
		return symbol + HighSalaryLabel, true
	}

	rng := r.gate(lo, hi, currency)
	top := rng.Top()
	if top == nil || *top < table.Threshold() {
		return "", false
	}

	switch {
	case rng.Min != nil && rng.Max != nil:
		a, b := thousands(*rng.Min), thousands(*rng.Max)
		if a == b {
			return fmt.Sprintf("%s%dK", symbol, a), true
		}
		return fmt.Sprintf("%s%dK - %s%dK", symbol, a, symbol, b), true
	case rng.Min != nil:
		return fmt.Sprintf("%s%dK+", symbol, thousands(*rng.Min)), true
	default:
		return fmt.Sprintf("Up to %s%dK", symbol, thousands(*rng.Max)), true
	}
}

func thousands(v float64) int64 {
	return int64(v / 1000)
}
