package repair

import (
	"regexp"
	"strings"
)

// CurrencyRule attributes raw salary text to a currency when Pattern matches.
type CurrencyRule struct {
	Currency string
	Pattern  *regexp.Regexp
}

// DefaultCurrencyRules returns the built-in detection table. Order matters:
// qualified dollar prefixes come before the bare "$", which is USD.
func DefaultCurrencyRules() []CurrencyRule {
	rule := func(currency, pattern string) CurrencyRule {
		return CurrencyRule{Currency: currency, Pattern: regexp.MustCompile(pattern)}
	}
	return []CurrencyRule{
		rule("CAD", `(?i)(?:\bCA\$|\bC\$|\bCAD\b)`),
		rule("AUD", `(?i)(?:\bAU\$|\bA\$|\bAUD\b)`),
		rule("NZD", `(?i)(?:\bNZ\$|\bNZD\b)`),
		rule("SGD", `(?i)(?:\bS\$|\bSGD\b)`),
		rule("HKD", `(?i)(?:\bHK\$|\bHKD\b)`),
		rule("BRL", `(?i)(?:\bR\$|\bBRL\b)`),
		rule("MXN", `(?i)(?:\bMX\$|\bMXN\b)`),
		rule("GBP", `(?i)(?:£|\bGBP\b)`),
		rule("EUR", `(?i)(?:€|\bEUR\b|\beuros?\b)`),
		rule("INR", `(?i)(?:₹|\bINR\b|\bRs\.?\s?\d|\blakhs?\b|\bLPA\b|\bcrores?\b)`),
		rule("CHF", `(?i)\bCHF\b`),
		rule("SEK", `(?i)(?:\bSEK\b|\d\s?kr\b)`),
		rule("NOK", `(?i)\bNOK\b`),
		rule("DKK", `(?i)\bDKK\b`),
		rule("PLN", `(?i)(?:\bPLN\b|\bzł)`),
		rule("JPY", `(?i)(?:¥|\bJPY\b|\byen\b)`),
		rule("ILS", `(?i)(?:₪|\bILS\b|\bNIS\b)`),
		rule("USD", `(?i)(?:\bUS\$|\bUSD\b|\$)`),
	}
}

// DetectCurrency returns the currency of the first rule matching raw, or ""
// when none does.
func DetectCurrency(raw string, rules []CurrencyRule) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, r := range rules {
		if r.Pattern != nil && r.Pattern.MatchString(raw) {
			return r.Currency
		}
	}
	return ""
}
