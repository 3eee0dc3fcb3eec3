package db

import (
	"fmt"
	"strings"
)

// Listing limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Sort orders accepted by ListJobs.
const (
	SortDate   = "date"
	SortSalary = "salary"
)

const jobColumns = `id, url, source, title, company, location, country_code, currency,
       salary_min, salary_max, salary_period, salary_raw, min_annual, max_annual,
       is_high_salary, is_hundred_k_local, salary_band, posted_at, created_at, updated_at`

const salaryColumns = `id, source, country_code, currency, salary_min, salary_max, salary_period,
       salary_raw, min_annual, max_annual, is_high_salary, is_hundred_k_local, salary_band`

// ListJobsOptions filters and pages ListJobs.
type ListJobsOptions struct {
	// MinSalary keeps jobs whose higher annual bound reaches it.
	MinSalary         *float64
	Country           string
	Company           string
	Source            string
	HighSalaryOnly    bool
	LocalHundredKOnly bool
	Sort              string
	Limit             int
	Offset            int
}

// normalized returns a copy with defaults and limits applied.
func (o ListJobsOptions) normalized() ListJobsOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.Sort != SortSalary {
		o.Sort = SortDate
	}
	o.Country = strings.ToUpper(strings.TrimSpace(o.Country))
	o.Company = strings.TrimSpace(o.Company)
	return o
}

// queryBuilder accumulates WHERE clauses with numbered placeholders.
type queryBuilder struct {
	where []string
	args  []any
}

func (b *queryBuilder) add(clause string, args ...any) {
	for _, a := range args {
		b.args = append(b.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.where = append(b.where, clause)
}

func (b *queryBuilder) whereSQL() string {
	if len(b.where) == 0 {
		return ""
	}
	return "\nWHERE " + strings.Join(b.where, "\n  AND ")
}

// buildListJobsQuery renders the listing query. The last selected column is
// the total match count before paging.
func buildListJobsQuery(opts ListJobsOptions) (string, []any) {
	opts = opts.normalized()
	b := &queryBuilder{}

	if opts.MinSalary != nil {
		b.add("GREATEST(min_annual, max_annual) >= ?", *opts.MinSalary)
	}
	if opts.Country != "" {
		b.add("country_code = ?", opts.Country)
	}
	if opts.Company != "" {
		b.add("company ILIKE ?", "%"+opts.Company+"%")
	}
	if opts.Source != "" {
		b.add("source = ?", opts.Source)
	}
	if opts.HighSalaryOnly {
		b.add("is_high_salary")
	}
	if opts.LocalHundredKOnly {
		b.add("is_hundred_k_local")
	}

	order := "COALESCE(posted_at, created_at) DESC, id"
	if opts.Sort == SortSalary {
		order = "GREATEST(min_annual, max_annual) DESC NULLS LAST, COALESCE(posted_at, created_at) DESC, id"
	}

	b.args = append(b.args, opts.Limit, opts.Offset)
	query := fmt.Sprintf("SELECT %s, COUNT(*) OVER() AS total\nFROM jobs%s\nORDER BY %s\nLIMIT $%d OFFSET $%d",
		jobColumns, b.whereSQL(), order, len(b.args)-1, len(b.args))
	return query, b.args
}

// buildRepairQuery renders one keyset page of the repair scan.
func buildRepairQuery(q RepairQuery) (string, []any) {
	if q.Limit <= 0 {
		q.Limit = 500
	}
	b := &queryBuilder{}
	b.add("id > ?", q.AfterID)
	if len(q.Sources) > 0 {
		b.add("source = ANY(?)", q.Sources)
	}

	if q.All {
		b.add("(salary_min IS NOT NULL OR salary_max IS NOT NULL OR min_annual IS NOT NULL OR max_annual IS NOT NULL OR is_high_salary OR is_hundred_k_local)")
	} else {
		b.add(`(min_annual < ? OR max_annual < ?
       OR min_annual > ? OR max_annual > ?
       OR min_annual > max_annual
       OR (min_annual IS NULL AND max_annual IS NULL AND (salary_min IS NOT NULL OR salary_max IS NOT NULL))
       OR (min_annual IS NULL AND max_annual IS NULL AND (is_high_salary OR is_hundred_k_local))
       OR (currency IS NULL AND salary_raw IS NOT NULL))`,
			q.Floor, q.Floor, q.Ceiling, q.Ceiling)
	}

	b.args = append(b.args, q.Limit)
	query := fmt.Sprintf("SELECT %s\nFROM jobs%s\nORDER BY id\nLIMIT $%d", salaryColumns, b.whereSQL(), len(b.args))
	return query, b.args
}
