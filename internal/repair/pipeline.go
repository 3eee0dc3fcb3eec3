package repair

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/sixfigure-jobs/internal/db"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

// Store is the persistence the pipeline needs.
type Store interface {
	FindJobsNeedingRepair(ctx context.Context, q db.RepairQuery) ([]db.JobSalary, error)
	UpdateJobSalary(ctx context.Context, id uuid.UUID, u db.SalaryUpdate) error
}

// Fix names one correction applied to a row.
type Fix string

const (
	FixCurrency Fix = "currency"
	FixCents    Fix = "cents"
	FixMonthly  Fix = "monthly"
	FixSwapped  Fix = "swapped"
	FixCleared  Fix = "cleared"
	FixFlags    Fix = "flags"
)

// Change describes the outcome for one row.
type Change struct {
	ID      uuid.UUID       `json:"id"`
	Source  string          `json:"source"`
	Before  db.SalaryUpdate `json:"before"`
	After   db.SalaryUpdate `json:"after"`
	Fixes   []Fix           `json:"fixes,omitempty"`
	Changed bool            `json:"changed"`
}

// Report summarizes a run.
type Report struct {
	Scanned   int         `json:"scanned"`
	Changed   int         `json:"changed"`
	Updated   int         `json:"updated"`
	Failed    int         `json:"failed"`
	DryRun    bool        `json:"dry_run"`
	FixCounts map[Fix]int `json:"fix_counts"`
	Errors    []string    `json:"errors,omitempty"`
}

// Pipeline re-normalizes stored salaries under one policy.
type Pipeline struct {
	store    Store
	policy   Policy
	salaries *salary.Registry
	onRow    func(Change)
}

// NewPipeline validates policy and builds a pipeline. salaries supplies the
// band tables; its gate is replaced by the policy thresholds.
func NewPipeline(store Store, policy Policy, salaries *salary.Registry) (*Pipeline, error) {
	if store == nil {
		return nil, &Error{Message: "store is required"}
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if salaries == nil {
		salaries = salary.DefaultRegistry()
	}
	if policy.CurrencyRules == nil {
		policy.CurrencyRules = DefaultCurrencyRules()
	}
	return &Pipeline{
		store:    store,
		policy:   policy,
		salaries: salaries.WithGate(policy.MinThreshold, policy.MaxThreshold),
	}, nil
}

// OnRow registers a callback invoked after every scanned row.
func (p *Pipeline) OnRow(fn func(Change)) {
	p.onRow = fn
}

// Run scans matching jobs in ID order and rewrites rows whose normalized
// salary differs from what is stored. Row failures are counted and logged;
// only a failed page query aborts the run. Running twice changes nothing the
// second time.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{DryRun: p.policy.DryRun, FixCounts: map[Fix]int{}}
	q := db.RepairQuery{
		Limit:   p.policy.BatchSize,
		Sources: p.policy.SourceFilter,
		Floor:   p.policy.MinThreshold,
		Ceiling: p.policy.MaxThreshold,
		All:     p.policy.ScanAll,
	}

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rows, err := p.store.FindJobsNeedingRepair(ctx, q)
		if err != nil {
			return report, &Error{Message: "failed to load jobs", Cause: err}
		}

		for i := range rows {
			change := p.Plan(&rows[i])
			report.Scanned++
			if change.Changed {
				report.Changed++
				for _, f := range change.Fixes {
					report.FixCounts[f]++
				}
				if !p.policy.DryRun {
					if err := p.store.UpdateJobSalary(ctx, change.ID, change.After); err != nil {
						report.Failed++
						report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", change.ID, err))
						log.Printf("[repair] failed to update job %s: %v", change.ID, err)
					} else {
						report.Updated++
					}
				}
			}
			if p.onRow != nil {
				p.onRow(change)
			}
		}

		if len(rows) < q.Limit {
			return report, nil
		}
		q.AfterID = rows[len(rows)-1].ID
	}
}

// Plan computes the normalized salary columns for one row without writing.
func (p *Pipeline) Plan(row *db.JobSalary) Change {
	change := Change{ID: row.ID, Source: row.Source, Before: currentState(row)}
	in := row.Input()

	if detected := DetectCurrency(in.SalaryRaw, p.policy.CurrencyRules); detected != "" && detected != in.Currency {
		in.Currency = detected
		change.Fixes = append(change.Fixes, FixCurrency)
	}

	// Stored annual values inside the gate are authoritative. Anything else is
	// re-derived from the stated figures when there are any.
	if !p.allWithin(1, in.MinAnnual, in.MaxAnnual) || (in.MinAnnual == nil && in.MaxAnnual == nil) {
		if in.SalaryMin != nil || in.SalaryMax != nil {
			in.MinAnnual, in.MaxAnnual = nil, nil
		}
	}
	lo, hi, ok := salary.Annualize(in)

	if ok {
		period := salary.ParsePeriod(in.SalaryPeriod)
		switch {
		case p.policy.RescaleCents && p.anyAbove(lo, hi) && p.allWithin(0.01, lo, hi):
			lo, hi = scale(lo, 0.01), scale(hi, 0.01)
			change.Fixes = append(change.Fixes, FixCents)
		case p.policy.RescaleMonthly && (period == salary.PeriodUnknown || period == salary.PeriodYear) &&
			p.anyBelow(lo, hi) && p.allWithin(12, lo, hi):
			lo, hi = scale(lo, 12), scale(hi, 12)
			change.Fixes = append(change.Fixes, FixMonthly)
		}
		if lo != nil && hi != nil && *lo > *hi {
			change.Fixes = append(change.Fixes, FixSwapped)
		}
	}

	rng := p.salaries.Resolve(salary.Input{
		MinAnnual:   lo,
		MaxAnnual:   hi,
		Currency:    in.Currency,
		CountryCode: in.CountryCode,
	})
	if ok && !rng.Known() {
		change.Fixes = append(change.Fixes, FixCleared)
	}
	class := p.salaries.Classify(rng, in.CountryCode)

	change.After = db.SalaryUpdate{
		Currency:        db.StringPtr(in.Currency),
		MinAnnual:       rng.Min,
		MaxAnnual:       rng.Max,
		IsHighSalary:    class.HighSalary,
		IsHundredKLocal: class.LocalHundredK,
		SalaryBand:      db.StringPtr(class.Band),
	}
	change.Changed = !sameState(change.Before, change.After)
	if change.Changed && len(change.Fixes) == 0 {
		change.Fixes = append(change.Fixes, FixFlags)
	}
	return change
}

func (p *Pipeline) anyAbove(vals ...*float64) bool {
	for _, v := range vals {
		if v != nil && *v > p.policy.MaxThreshold {
			return true
		}
	}
	return false
}

func (p *Pipeline) anyBelow(vals ...*float64) bool {
	for _, v := range vals {
		if v != nil && *v < p.policy.MinThreshold {
			return true
		}
	}
	return false
}

// allWithin reports whether every known value lands inside the gate once
// multiplied by factor.
func (p *Pipeline) allWithin(factor float64, vals ...*float64) bool {
	for _, v := range vals {
		if v == nil {
			continue
		}
		if x := *v * factor; x < p.policy.MinThreshold || x > p.policy.MaxThreshold {
			return false
		}
	}
	return true
}

func scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	x := *v * factor
	return &x
}

func currentState(row *db.JobSalary) db.SalaryUpdate {
	return db.SalaryUpdate{
		Currency:        row.Currency,
		MinAnnual:       row.MinAnnual,
		MaxAnnual:       row.MaxAnnual,
		IsHighSalary:    row.IsHighSalary,
		IsHundredKLocal: row.IsHundredKLocal,
		SalaryBand:      row.SalaryBand,
	}
}

func sameState(a, b db.SalaryUpdate) bool {
	return sameString(a.Currency, b.Currency) &&
		sameFloat(a.MinAnnual, b.MinAnnual) &&
		sameFloat(a.MaxAnnual, b.MaxAnnual) &&
		a.IsHighSalary == b.IsHighSalary &&
		a.IsHundredKLocal == b.IsHundredKLocal &&
		sameString(a.SalaryBand, b.SalaryBand)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
