package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrJobNotFound is returned by updates that match no row.
var ErrJobNotFound = errors.New("job not found")

func scanJob(row pgx.Row, extra ...any) (*Job, error) {
	var j Job
	dest := []any{
		&j.ID, &j.URL, &j.Source, &j.Title, &j.Company, &j.Location, &j.CountryCode, &j.Currency,
		&j.SalaryMin, &j.SalaryMax, &j.SalaryPeriod, &j.SalaryRaw, &j.MinAnnual, &j.MaxAnnual,
		&j.IsHighSalary, &j.IsHundredKLocal, &j.SalaryBand, &j.PostedAt, &j.CreatedAt, &j.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &j, nil
}

// UpsertJob creates or updates a job keyed by URL.
func (db *DB) UpsertJob(ctx context.Context, input *JobUpsertInput) (*Job, error) {
	source := input.Source
	if source == "" {
		source = "unknown"
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (url, source, title, company, location, country_code, currency,
		                   salary_min, salary_max, salary_period, salary_raw, min_annual, max_annual,
		                   is_high_salary, is_hundred_k_local, salary_band, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 ON CONFLICT (url) DO UPDATE SET
		     source = $2,
		     title = $3,
		     company = $4,
		     location = $5,
		     country_code = $6,
		     currency = $7,
		     salary_min = $8,
		     salary_max = $9,
		     salary_period = $10,
		     salary_raw = $11,
		     min_annual = $12,
		     max_annual = $13,
		     is_high_salary = $14,
		     is_hundred_k_local = $15,
		     salary_band = $16,
		     posted_at = COALESCE($17, jobs.posted_at),
		     updated_at = NOW()
		 RETURNING `+jobColumns,
		input.URL, source, input.Title, input.Company, input.Location, input.CountryCode, input.Currency,
		input.SalaryMin, input.SalaryMax, input.SalaryPeriod, input.SalaryRaw, input.MinAnnual, input.MaxAnnual,
		input.IsHighSalary, input.IsHundredKLocal, input.SalaryBand, input.PostedAt,
	)
	job, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert job: %w", err)
	}
	return job, nil
}

// GetJobByID retrieves a job by ID. It returns nil, nil when none exists.
func (db *DB) GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs returns one page of jobs and the total number of matches.
func (db *DB) ListJobs(ctx context.Context, opts ListJobsOptions) ([]Job, int, error) {
	query, args := buildListJobsQuery(opts)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var (
		jobs  []Job
		total int
	)
	for rows.Next() {
		job, err := scanJob(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating jobs: %w", err)
	}
	return jobs, total, nil
}

// FindJobsNeedingRepair returns the next keyset page of jobs for the repair
// pipeline, ordered by ID.
func (db *DB) FindJobsNeedingRepair(ctx context.Context, q RepairQuery) ([]JobSalary, error) {
	query, args := buildRepairQuery(q)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find jobs needing repair: %w", err)
	}
	defer rows.Close()

	var out []JobSalary
	for rows.Next() {
		var s JobSalary
		if err := rows.Scan(&s.ID, &s.Source, &s.CountryCode, &s.Currency, &s.SalaryMin, &s.SalaryMax,
			&s.SalaryPeriod, &s.SalaryRaw, &s.MinAnnual, &s.MaxAnnual, &s.IsHighSalary,
			&s.IsHundredKLocal, &s.SalaryBand); err != nil {
			return nil, fmt.Errorf("failed to scan job salary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job salaries: %w", err)
	}
	return out, nil
}

// UpdateJobSalary rewrites the normalized salary columns of one job.
func (db *DB) UpdateJobSalary(ctx context.Context, id uuid.UUID, u SalaryUpdate) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs SET
		     currency = COALESCE($2, currency),
		     min_annual = $3,
		     max_annual = $4,
		     is_high_salary = $5,
		     is_hundred_k_local = $6,
		     salary_band = $7,
		     updated_at = NOW()
		 WHERE id = $1`,
		id, u.Currency, u.MinAnnual, u.MaxAnnual, u.IsHighSalary, u.IsHundredKLocal, u.SalaryBand,
	)
	if err != nil {
		return fmt.Errorf("failed to update job salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return nil
}

// CountSalaryViolations counts persisted rows breaking the [floor, ceiling]
// gate and related invariants.
func (db *DB) CountSalaryViolations(ctx context.Context, floor, ceiling float64) (*SalaryViolationCounts, error) {
	var c SalaryViolationCounts
	err := db.pool.QueryRow(ctx,
		`SELECT
		     COUNT(*),
		     COUNT(*) FILTER (WHERE min_annual IS NOT NULL OR max_annual IS NOT NULL),
		     COUNT(*) FILTER (WHERE min_annual < $1 OR max_annual < $1),
		     COUNT(*) FILTER (WHERE min_annual > $2 OR max_annual > $2),
		     COUNT(*) FILTER (WHERE min_annual > max_annual),
		     COUNT(*) FILTER (WHERE min_annual IS NULL AND max_annual IS NULL
		                        AND (salary_min IS NOT NULL OR salary_max IS NOT NULL)),
		     COUNT(*) FILTER (WHERE min_annual IS NULL AND max_annual IS NULL
		                        AND (is_high_salary OR is_hundred_k_local))
		 FROM jobs`,
		floor, ceiling,
	).Scan(&c.TotalJobs, &c.WithSalary, &c.BelowFloor, &c.AboveCeiling, &c.Inverted, &c.Unresolved, &c.FlaggedWithoutPay)
	if err != nil {
		return nil, fmt.Errorf("failed to count salary violations: %w", err)
	}
	return &c, nil
}

// DeleteJob removes a job by URL.
func (db *DB) DeleteJob(ctx context.Context, url string) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE url = $1`, url); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// GetCachedPage returns a page fetched within maxAge, or nil.
func (db *DB) GetCachedPage(ctx context.Context, url string, maxAge time.Duration) (*CachedPage, error) {
	var p CachedPage
	err := db.pool.QueryRow(ctx,
		`SELECT url, html, text, status_code, rendered, fetched_at
		 FROM page_cache WHERE url = $1 AND fetched_at >= $2`,
		url, time.Now().Add(-maxAge),
	).Scan(&p.URL, &p.HTML, &p.Text, &p.StatusCode, &p.Rendered, &p.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached page: %w", err)
	}
	return &p, nil
}

// PutCachedPage stores or replaces a cached page.
func (db *DB) PutCachedPage(ctx context.Context, page *CachedPage) error {
	fetchedAt := page.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO page_cache (url, html, text, status_code, rendered, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (url) DO UPDATE SET
		     html = $2, text = $3, status_code = $4, rendered = $5, fetched_at = $6`,
		page.URL, page.HTML, page.Text, page.StatusCode, page.Rendered, fetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}
