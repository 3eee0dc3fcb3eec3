package salary

// USDHighSalary is the global "six figure" line in US dollars.
const USDHighSalary = 100_000

// Classification records the two independent salary facts stored on a job.
//
// HighSalary answers "is this well paid in absolute USD terms" and
// LocalHundredK answers "is this well paid locally". They are allowed to
// disagree: £80k clears the UK table but not $100k.
type Classification struct {
	HighSalary    bool    `json:"is_high_salary"`
	LocalHundredK bool    `json:"is_hundred_k_local"`
	Band          string  `json:"salary_band,omitempty"`
	Threshold     float64 `json:"local_threshold"`
	TableCurrency string  `json:"table_currency"`
	USDEquivalent float64 `json:"usd_equivalent,omitempty"`
}

// Classify decides whether a resolved range qualifies as a premium listing.
// A job qualifies when either bound reaches the lowest band of its market.
// HighSalary stays false when the range's currency has no FX rate.
func (r *Registry) Classify(rng Range, country string) Classification {
	table := r.Lookup(country, rng.Currency)
	c := Classification{
		Threshold:     table.Threshold(),
		TableCurrency: table.Currency,
	}

	for _, v := range []*float64{rng.Min, rng.Max} {
		if v == nil {
			continue
		}
		if *v >= c.Threshold {
			c.LocalHundredK = true
		}
		if usd, ok := r.ToUSD(*v, rng.Currency); ok && usd > c.USDEquivalent {
			c.USDEquivalent = usd
		}
	}
	c.HighSalary = c.USDEquivalent >= USDHighSalary

	if top := rng.Top(); top != nil {
		c.Band = table.BandFor(*top)
	}
	return c
}
