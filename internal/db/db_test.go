package db

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_Sorted(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_jobs.sql", names[0])
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestMigrations_AnnualGate(t *testing.T) {
	sql, err := migrations.ReadFile("migrations/003_annual_gate.sql")
	require.NoError(t, err)
	assert.Contains(t, string(sql), "min_annual BETWEEN 50000 AND 5000000")
	assert.Contains(t, string(sql), "max_annual BETWEEN 50000 AND 5000000")
}

func TestJob_SalaryInput(t *testing.T) {
	job := &Job{
		SalaryMin:    salary.Float(10_000),
		SalaryMax:    salary.Float(15_000),
		Currency:     StringPtr("USD"),
		CountryCode:  StringPtr("US"),
		SalaryPeriod: StringPtr("month"),
	}

	in := job.SalaryInput()
	assert.Equal(t, "USD", in.Currency)
	assert.Equal(t, "US", in.CountryCode)
	assert.Equal(t, "month", in.SalaryPeriod)
	assert.Empty(t, in.SalaryRaw)
	assert.Equal(t, 10_000.0, *in.SalaryMin)
	assert.Nil(t, in.MinAnnual)
}

func TestSalaryViolationCounts_Violations(t *testing.T) {
	c := &SalaryViolationCounts{TotalJobs: 100, WithSalary: 60, BelowFloor: 2, AboveCeiling: 1, Inverted: 3, Unresolved: 7, FlaggedWithoutPay: 4}
	assert.Equal(t, 10, c.Violations())
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	assert.Equal(t, "x", *StringPtr("x"))
}

func TestBuildListJobsQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		query, args := buildListJobsQuery(ListJobsOptions{})
		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY COALESCE(posted_at, created_at) DESC")
		assert.Contains(t, query, "LIMIT $1 OFFSET $2")
		assert.Equal(t, []any{DefaultListLimit, 0}, args)
	})

	t.Run("all filters", func(t *testing.T) {
		query, args := buildListJobsQuery(ListJobsOptions{
			MinSalary:         salary.Float(150_000),
			Country:           " gb ",
			Company:           "Acme",
			Source:            "greenhouse",
			HighSalaryOnly:    true,
			LocalHundredKOnly: true,
			Sort:              SortSalary,
			Limit:             500,
			Offset:            20,
		})
		assert.Contains(t, query, "GREATEST(min_annual, max_annual) >= $1")
		assert.Contains(t, query, "country_code = $2")
		assert.Contains(t, query, "company ILIKE $3")
		assert.Contains(t, query, "source = $4")
		assert.Contains(t, query, "AND is_high_salary")
		assert.Contains(t, query, "AND is_hundred_k_local")
		assert.Contains(t, query, "ORDER BY GREATEST(min_annual, max_annual) DESC NULLS LAST")
		assert.Contains(t, query, "LIMIT $5 OFFSET $6")
		assert.Equal(t, []any{150_000.0, "GB", "%Acme%", "greenhouse", MaxListLimit, 20}, args)
	})

	t.Run("unknown sort falls back to date", func(t *testing.T) {
		query, _ := buildListJobsQuery(ListJobsOptions{Sort: "random"})
		assert.Contains(t, query, "ORDER BY COALESCE(posted_at, created_at) DESC")
	})
}

func TestBuildRepairQuery(t *testing.T) {
	after := uuid.New()

	t.Run("violations only", func(t *testing.T) {
		query, args := buildRepairQuery(RepairQuery{AfterID: after, Limit: 10, Floor: 50_000, Ceiling: 5_000_000})
		assert.Contains(t, query, "id > $1")
		assert.Contains(t, query, "min_annual < $2")
		assert.Contains(t, query, "max_annual > $5")
		assert.True(t, strings.HasSuffix(query, "ORDER BY id\nLIMIT $6"))
		assert.Equal(t, []any{after, 50_000.0, 50_000.0, 5_000_000.0, 5_000_000.0, 10}, args)
	})

	t.Run("all rows for sources", func(t *testing.T) {
		query, args := buildRepairQuery(RepairQuery{Sources: []string{"lever"}, All: true})
		assert.Contains(t, query, "source = ANY($2)")
		assert.NotContains(t, query, "min_annual < ")
		assert.Equal(t, []any{uuid.Nil, []string{"lever"}, 500}, args)
	})
}
