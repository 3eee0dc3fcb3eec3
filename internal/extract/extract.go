// Package extract pulls raw compensation figures out of job posting pages.
//
// Each applicant tracking system publishes pay differently, so extraction is
// keyed by provider. Extractors only report what the page states; turning
// those figures into annual ranges is the salary package's job.
package extract

import (
	"context"

	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

// Page is a fetched posting.
type Page struct {
	URL  string
	HTML string
	Text string
}

// Extracted is the compensation a page states, before any normalization.
type Extracted struct {
	Min      *float64 `json:"salary_min,omitempty"`
	Max      *float64 `json:"salary_max,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Period   string   `json:"period,omitempty"`
	Raw      string   `json:"raw,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// ToInput converts e into resolver input for a posting located in country.
func (e *Extracted) ToInput(country string) salary.Input {
	if e == nil {
		return salary.Input{CountryCode: country}
	}
	return salary.Input{
		SalaryMin:    e.Min,
		SalaryMax:    e.Max,
		Currency:     e.Currency,
		CountryCode:  country,
		SalaryPeriod: e.Period,
		SalaryRaw:    e.Raw,
	}
}

// Extractor finds the stated salary on a page. A nil result with a nil error
// means the page states no salary.
type Extractor interface {
	Provider() string
	Extract(ctx context.Context, page Page) (*Extracted, error)
}
