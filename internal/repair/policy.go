// Package repair re-normalizes persisted salary data. One configurable
// pipeline covers every known corruption: mislabeled currency, monthly pay
// stored as annual, cents stored as whole units and values outside the
// validity gate.
package repair

import (
	"github.com/go-playground/validator/v10"

	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

// DefaultBatchSize is the keyset page size of a repair scan.
const DefaultBatchSize = 500

// Policy configures one repair run. The gate may only narrow the
// [50,000, 5,000,000] range the jobs table enforces.
type Policy struct {
	MinThreshold float64  `json:"min_threshold" validate:"gte=50000,ltfield=MaxThreshold"`
	MaxThreshold float64  `json:"max_threshold" validate:"lte=5000000"`
	SourceFilter []string `json:"source_filter,omitempty" validate:"dive,required"`
	// RescaleCents divides figures above the ceiling by 100 when that lands
	// them inside the gate.
	RescaleCents bool `json:"rescale_cents"`
	// RescaleMonthly multiplies period-less figures below the floor by 12
	// when that lands them inside the gate.
	RescaleMonthly bool `json:"rescale_monthly"`
	// ScanAll visits every job with salary data instead of only rows that
	// visibly break the gate. Needed to catch mislabeled currencies.
	ScanAll   bool `json:"scan_all"`
	DryRun    bool `json:"dry_run"`
	BatchSize int  `json:"batch_size" validate:"gte=1,lte=10000"`

	CurrencyRules []CurrencyRule `json:"-"`
}

// DefaultPolicy returns the production gate of [50,000, 5,000,000] with
// currency correction on and both rescales off.
func DefaultPolicy() Policy {
	return Policy{
		MinThreshold:  salary.DefaultFloor,
		MaxThreshold:  salary.DefaultCeiling,
		BatchSize:     DefaultBatchSize,
		CurrencyRules: DefaultCurrencyRules(),
	}
}

// Validate checks the policy's bounds.
func (p *Policy) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return &PolicyError{Message: "validation failed", Cause: err}
	}
	return nil
}
