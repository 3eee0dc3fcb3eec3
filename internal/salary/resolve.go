package salary

// Default plausibility gate for persisted annual figures, in the posting's
// own currency. Values outside it are unit-confusion corruption: monthly
// figures stored as annual, or cents stored as whole units.
const (
	DefaultFloor   = 50_000
	DefaultCeiling = 5_000_000
)

// Annualize derives annual figures from in without applying the validity gate.
//
// Authoritative MinAnnual/MaxAnnual values win and are returned untouched.
// Otherwise SalaryMin/SalaryMax are multiplied by the period multiplier, where
// a missing or unrecognized period counts as annual. ok is false when neither
// source yields a usable number.
func Annualize(in Input) (lo, hi *float64, ok bool) {
	lo, hi = usable(in.MinAnnual), usable(in.MaxAnnual)
	if lo != nil || hi != nil {
		return lo, hi, true
	}

	lo, hi = usable(in.SalaryMin), usable(in.SalaryMax)
	if lo == nil && hi == nil {
		return nil, nil, false
	}

	m := ParsePeriod(in.SalaryPeriod).Multiplier()
	if lo != nil {
		*lo *= m
	}
	if hi != nil {
		*hi *= m
	}
	return lo, hi, true
}

// Resolve produces the best-effort annual range for in: Annualize followed by
// the registry's validity gate. Each bound outside [Floor, Ceiling] is nulled
// on its own, and inverted bounds are swapped. A Range with no bounds means
// the posting must be treated as having no salary.
//
// Resolve is idempotent: feeding a resolved range back in as
// MinAnnual/MaxAnnual returns the same range.
func (r *Registry) Resolve(in Input) Range {
	currency := r.currencyFor(in)
	lo, hi, ok := Annualize(in)
	if !ok {
		return Range{Currency: currency}
	}
	return r.gate(lo, hi, currency)
}

func (r *Registry) gate(lo, hi *float64, currency string) Range {
	rng := Range{
		Min:      r.withinGate(lo),
		Max:      r.withinGate(hi),
		Currency: currency,
	}
	if rng.Min != nil && rng.Max != nil && *rng.Min > *rng.Max {
		rng.Min, rng.Max = rng.Max, rng.Min
	}
	return rng
}

func (r *Registry) withinGate(v *float64) *float64 {
	if v == nil || *v < r.Floor || *v > r.Ceiling {
		return nil
	}
	return v
}

// currencyFor picks the currency a posting's figures are quoted in: the
// stated code, else the country's default, else USD.
func (r *Registry) currencyFor(in Input) string {
	if c := normalizeCode(in.Currency); c != "" {
		return c
	}
	if c := DefaultCurrency(in.CountryCode); c != "" {
		return c
	}
	return "USD"
}
