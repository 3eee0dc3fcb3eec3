package observability

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/sixfigure-jobs/internal/db"
	"github.com/jonathan/sixfigure-jobs/internal/extract"
	"github.com/jonathan/sixfigure-jobs/internal/ingestion"
	"github.com/jonathan/sixfigure-jobs/internal/repair"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "£85,000", Money(salary.Float(85_000.9), "GBP"))
	assert.Equal(t, "CHF 150,000", Money(salary.Float(150_000), "CHF"))
	assert.Equal(t, "-", Money(nil, "USD"))
}

func TestPrintNormalization(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	in := salary.Input{
		SalaryMin:    salary.Float(80_000),
		SalaryMax:    salary.Float(95_000),
		Currency:     "GBP",
		CountryCode:  "GB",
		SalaryPeriod: "year",
		SalaryRaw:    "£80,000 - £95,000",
	}
	p.PrintNormalization(in, salary.Normalize(in))
	output := buf.String()

	assert.Contains(t, output, "SALARY NORMALIZATION")
	assert.Contains(t, output, "£80,000 - £95,000")
	assert.Contains(t, output, "75,000")
	assert.Contains(t, output, salary.Tier100)
	assert.Contains(t, output, "£80K - £95K")
}

func TestPrintNormalization_Hidden(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	in := salary.Input{SalaryMin: salary.Float(20_000), Currency: "USD", CountryCode: "US"}
	p.PrintNormalization(in, salary.Normalize(in))

	assert.Contains(t, buf.String(), "(hidden)")
	assert.Contains(t, buf.String(), "Band:       none")
}

func TestPrintRepairReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRepairReport(&repair.Report{
		Scanned: 12_500,
		Changed: 40,
		Updated: 38,
		Failed:  2,
		DryRun:  true,
		FixCounts: map[repair.Fix]int{
			repair.FixCents:    30,
			repair.FixCurrency: 10,
		},
		Errors: []string{"row a: boom", "row b: boom"},
	})
	output := buf.String()

	assert.Contains(t, output, "SALARY REPAIR")
	assert.Contains(t, output, "dry run")
	assert.Contains(t, output, "12,500")
	assert.Less(t, strings.Index(output, "cents"), strings.Index(output, "currency"))
	assert.Contains(t, output, "row b: boom")
}

func TestPrintRepairReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRepairReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintAuditReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAuditReport(&repair.AuditReport{
		Floor:   50_000,
		Ceiling: 5_000_000,
		Counts:  db.SalaryViolationCounts{TotalJobs: 1000, WithSalary: 600, BelowFloor: 3},
	})
	output := buf.String()

	assert.Contains(t, output, "[50,000, 5,000,000]")
	assert.Contains(t, output, "3 VIOLATIONS")

	buf.Reset()
	p.PrintAuditReport(&repair.AuditReport{Floor: 50_000, Ceiling: 5_000_000, Clean: true})
	assert.Contains(t, buf.String(), "CLEAN")
}

func TestPrintIngestOutcome(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintIngestOutcome(&ingestion.Outcome{
		URL:       "https://jobs.lever.co/acme/1",
		Platform:  "lever",
		Metadata:  &ingestion.Metadata{Title: "Staff Engineer", Company: "Acme", Location: "London", CountryCode: "GB"},
		Extracted: &extract.Extracted{Raw: "£90k - £110k", Source: "lever"},
		Salary:    salary.Result{Text: "£90K - £110K", HasText: true},
	})
	output := buf.String()

	assert.Contains(t, output, "INGESTED JOB")
	assert.Contains(t, output, "Staff Engineer")
	assert.Contains(t, output, "London (GB)")
	assert.Contains(t, output, "£90K - £110K")

	buf.Reset()
	p.PrintIngestOutcome(&ingestion.Outcome{URL: "https://x", Err: errors.New("fetch failed")})
	assert.Contains(t, buf.String(), "Stated:   none")
	assert.Contains(t, buf.String(), "fetch failed")
}

func TestPrintIngestReport_TruncatesFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &ingestion.Report{Total: 10, Succeeded: 3, Failed: 7}
	for i := 0; i < 7; i++ {
		report.Failures = append(report.Failures, ingestion.Failure{URL: fmt.Sprintf("u%d", i), Error: "bad"})
	}
	p.PrintIngestReport(report)

	assert.Contains(t, buf.String(), "... and 2 more")
	assert.NotContains(t, buf.String(), "u6")
}

func TestPrintBox_AlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("T", "₹25,00,000 and "+strings.Repeat("x", 100))
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}
