package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

// Job is one persisted posting. MinAnnual and MaxAnnual only ever hold
// values that passed the salary validity gate.
type Job struct {
	ID              uuid.UUID  `json:"id"`
	URL             string     `json:"url"`
	Source          string     `json:"source"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Location        *string    `json:"location,omitempty"`
	CountryCode     *string    `json:"country_code,omitempty"`
	Currency        *string    `json:"currency,omitempty"`
	SalaryMin       *float64   `json:"salary_min,omitempty"`
	SalaryMax       *float64   `json:"salary_max,omitempty"`
	SalaryPeriod    *string    `json:"salary_period,omitempty"`
	SalaryRaw       *string    `json:"salary_raw,omitempty"`
	MinAnnual       *float64   `json:"min_annual,omitempty"`
	MaxAnnual       *float64   `json:"max_annual,omitempty"`
	IsHighSalary    bool       `json:"is_high_salary"`
	IsHundredKLocal bool       `json:"is_hundred_k_local"`
	SalaryBand      *string    `json:"salary_band,omitempty"`
	PostedAt        *time.Time `json:"posted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SalaryInput returns the job's compensation as resolver input.
func (j *Job) SalaryInput() salary.Input {
	return salary.Input{
		SalaryMin:    j.SalaryMin,
		SalaryMax:    j.SalaryMax,
		MinAnnual:    j.MinAnnual,
		MaxAnnual:    j.MaxAnnual,
		Currency:     deref(j.Currency),
		CountryCode:  deref(j.CountryCode),
		SalaryPeriod: deref(j.SalaryPeriod),
		SalaryRaw:    deref(j.SalaryRaw),
	}
}

// JobUpsertInput is the write model for UpsertJob, keyed by URL.
type JobUpsertInput struct {
	URL             string
	Source          string
	Title           string
	Company         string
	Location        *string
	CountryCode     *string
	Currency        *string
	SalaryMin       *float64
	SalaryMax       *float64
	SalaryPeriod    *string
	SalaryRaw       *string
	MinAnnual       *float64
	MaxAnnual       *float64
	IsHighSalary    bool
	IsHundredKLocal bool
	SalaryBand      *string
	PostedAt        *time.Time
}

// JobSalary is the salary projection of a job scanned by the repair
// pipeline.
type JobSalary struct {
	ID              uuid.UUID
	Source          string
	CountryCode     *string
	Currency        *string
	SalaryMin       *float64
	SalaryMax       *float64
	SalaryPeriod    *string
	SalaryRaw       *string
	MinAnnual       *float64
	MaxAnnual       *float64
	IsHighSalary    bool
	IsHundredKLocal bool
	SalaryBand      *string
}

// Input returns the row as resolver input.
func (s *JobSalary) Input() salary.Input {
	return salary.Input{
		SalaryMin:    s.SalaryMin,
		SalaryMax:    s.SalaryMax,
		MinAnnual:    s.MinAnnual,
		MaxAnnual:    s.MaxAnnual,
		Currency:     deref(s.Currency),
		CountryCode:  deref(s.CountryCode),
		SalaryPeriod: deref(s.SalaryPeriod),
		SalaryRaw:    deref(s.SalaryRaw),
	}
}

// SalaryUpdate holds the normalized columns the repair pipeline rewrites.
type SalaryUpdate struct {
	Currency        *string
	MinAnnual       *float64
	MaxAnnual       *float64
	IsHighSalary    bool
	IsHundredKLocal bool
	SalaryBand      *string
}

// RepairQuery selects one keyset page of jobs for the repair pipeline.
type RepairQuery struct {
	AfterID uuid.UUID
	Limit   int
	Sources []string
	Floor   float64
	Ceiling float64
	// All scans every job with salary data rather than only rows that
	// visibly violate the gate.
	All bool
}

// SalaryViolationCounts summarizes persisted salary data against the gate.
type SalaryViolationCounts struct {
	TotalJobs         int `json:"total_jobs"`
	WithSalary        int `json:"with_salary"`
	BelowFloor        int `json:"below_floor"`
	AboveCeiling      int `json:"above_ceiling"`
	Inverted          int `json:"inverted"`
	Unresolved        int `json:"unresolved"`
	FlaggedWithoutPay int `json:"flagged_without_pay"`
}

// Violations is the number of rows breaking a hard invariant.
func (c *SalaryViolationCounts) Violations() int {
	return c.BelowFloor + c.AboveCeiling + c.Inverted + c.FlaggedWithoutPay
}

// CachedPage is a fetched posting kept between ingestion runs.
type CachedPage struct {
	URL        string
	HTML       string
	Text       string
	StatusCode int
	Rendered   bool
	FetchedAt  time.Time
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for an empty string and a pointer otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
