// Package salary normalizes heterogeneous job-posting compensation into
// comparable annual ranges, classifies them against country salary bands and
// renders the short salary badge shown on job cards.
//
// Everything in this package is a pure function over its input. Malformed or
// missing data degrades to "no salary"; nothing here returns an error.
package salary

import (
	"math"
	"strings"
)

// Input is the raw, partially populated compensation record of one posting.
// Nil pointers and empty strings mean "absent".
type Input struct {
	SalaryMin    *float64 `json:"salary_min,omitempty"`
	SalaryMax    *float64 `json:"salary_max,omitempty"`
	MinAnnual    *float64 `json:"min_annual,omitempty"`
	MaxAnnual    *float64 `json:"max_annual,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	CountryCode  string   `json:"country_code,omitempty"`
	SalaryPeriod string   `json:"salary_period,omitempty"`
	SalaryRaw    string   `json:"salary_raw,omitempty"`
}

// Range is a resolved annual salary range in the posting's native currency.
type Range struct {
	Min      *float64 `json:"min_annual"`
	Max      *float64 `json:"max_annual"`
	Currency string   `json:"currency"`
}

// Known reports whether at least one bound survived resolution.
func (r Range) Known() bool {
	return r.Min != nil || r.Max != nil
}

// Top returns the highest known bound, or nil.
func (r Range) Top() *float64 {
	if r.Max != nil {
		return r.Max
	}
	return r.Min
}

// Float returns a pointer to v. Handy for building Inputs in callers and tests.
func Float(v float64) *float64 {
	return &v
}

// usable returns a copy of v when it is a finite positive number, nil otherwise.
func usable(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return nil
	}
	out := *v
	return &out
}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
