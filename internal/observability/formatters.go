// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/jonathan/sixfigure-jobs/internal/ingestion"
	"github.com/jonathan/sixfigure-jobs/internal/repair"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad fits s to the box's inner width, counting runes so currency symbols
// don't skew the border.
func pad(s string) string {
	width := boxWidth - 4
	if utf8.RuneCountInString(s) > width {
		s = string([]rune(s)[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-utf8.RuneCountInString(s))
}

// Money renders v in currency with thousands separators, or "-" when nil.
func Money(v *float64, currency string) string {
	if v == nil {
		return "-"
	}
	return salary.CurrencySymbol(currency) + humanize.Commaf(float64(int64(*v)))
}

// PrintNormalization outputs a resolved, classified salary.
func (p *Printer) PrintNormalization(in salary.Input, res salary.Result) {
	var sb strings.Builder

	if in.SalaryRaw != "" {
		sb.WriteString(fmt.Sprintf("Raw:        %s\n", in.SalaryRaw))
	}
	sb.WriteString(fmt.Sprintf("Annual:     %s - %s\n",
		Money(res.Range.Min, res.Range.Currency), Money(res.Range.Max, res.Range.Currency)))
	sb.WriteString(fmt.Sprintf("Table:      %s (threshold %s)\n",
		res.TableCurrency, humanize.Commaf(res.Threshold)))
	if res.USDEquivalent > 0 {
		sb.WriteString(fmt.Sprintf("USD equiv:  $%s\n", humanize.Commaf(float64(int64(res.USDEquivalent)))))
	}

	band := res.Band
	if band == "" {
		band = "none"
	}
	sb.WriteString(fmt.Sprintf("Band:       %s\n", band))
	sb.WriteString(fmt.Sprintf("High salary: %s   Local 100k: %s\n", yesNo(res.HighSalary), yesNo(res.LocalHundredK)))

	if res.HasText {
		sb.WriteString(fmt.Sprintf("Display:    %s\n", res.Text))
	} else {
		sb.WriteString("Display:    (hidden)\n")
	}

	p.printBox("SALARY NORMALIZATION", sb.String())
}

// PrintRepairReport outputs a repair run summary and its most common fixes.
func (p *Printer) PrintRepairReport(report *repair.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	if report.DryRun {
		sb.WriteString("Mode:     dry run (no writes)\n")
	}
	sb.WriteString(fmt.Sprintf("Scanned:  %s\n", humanize.Comma(int64(report.Scanned))))
	sb.WriteString(fmt.Sprintf("Changed:  %s\n", humanize.Comma(int64(report.Changed))))
	sb.WriteString(fmt.Sprintf("Updated:  %s\n", humanize.Comma(int64(report.Updated))))
	sb.WriteString(fmt.Sprintf("Failed:   %s\n", humanize.Comma(int64(report.Failed))))

	if len(report.FixCounts) > 0 {
		sb.WriteString("\nFixes:\n")
		fixes := make([]repair.Fix, 0, len(report.FixCounts))
		for f := range report.FixCounts {
			fixes = append(fixes, f)
		}
		sort.Slice(fixes, func(i, j int) bool {
			if report.FixCounts[fixes[i]] != report.FixCounts[fixes[j]] {
				return report.FixCounts[fixes[i]] > report.FixCounts[fixes[j]]
			}
			return fixes[i] < fixes[j]
		})
		for _, f := range fixes {
			sb.WriteString(fmt.Sprintf("  • %-10s %s\n", f, humanize.Comma(int64(report.FixCounts[f]))))
		}
	}

	writeErrors(&sb, report.Errors)
	p.printBox("SALARY REPAIR", sb.String())
}

// PrintAuditReport outputs invariant violation counts.
func (p *Printer) PrintAuditReport(report *repair.AuditReport) {
	if report == nil {
		return
	}

	c := report.Counts
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Gate:          [%s, %s]\n", humanize.Commaf(report.Floor), humanize.Commaf(report.Ceiling)))
	sb.WriteString(fmt.Sprintf("Jobs:          %s (%s with salary)\n", humanize.Comma(int64(c.TotalJobs)), humanize.Comma(int64(c.WithSalary))))
	sb.WriteString(fmt.Sprintf("Below floor:   %d\n", c.BelowFloor))
	sb.WriteString(fmt.Sprintf("Above ceiling: %d\n", c.AboveCeiling))
	sb.WriteString(fmt.Sprintf("Inverted:      %d\n", c.Inverted))
	sb.WriteString(fmt.Sprintf("Flagged w/o pay: %d\n", c.FlaggedWithoutPay))
	sb.WriteString(fmt.Sprintf("Unresolved:    %d\n", c.Unresolved))

	status := "CLEAN"
	if !report.Clean {
		status = fmt.Sprintf("%d VIOLATIONS", c.Violations())
	}
	sb.WriteString(fmt.Sprintf("\nStatus: %s\n", status))

	p.printBox("SALARY AUDIT", sb.String())
}

// PrintIngestOutcome outputs what one posting produced.
func (p *Printer) PrintIngestOutcome(o *ingestion.Outcome) {
	if o == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:      %s\n", o.URL))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", o.Platform))
	if o.Metadata != nil {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", o.Metadata.Title))
		sb.WriteString(fmt.Sprintf("Company:  %s\n", o.Metadata.Company))
		if o.Metadata.Location != "" {
			sb.WriteString(fmt.Sprintf("Location: %s (%s)\n", o.Metadata.Location, o.Metadata.CountryCode))
		}
	}
	if o.Extracted != nil {
		sb.WriteString(fmt.Sprintf("Stated:   %s [%s]\n", o.Extracted.Raw, o.Extracted.Source))
	} else {
		sb.WriteString("Stated:   none\n")
	}
	if o.Salary.HasText {
		sb.WriteString(fmt.Sprintf("Display:  %s\n", o.Salary.Text))
	}
	if o.Err != nil {
		sb.WriteString(fmt.Sprintf("Error:    %v\n", o.Err))
	}

	p.printBox("INGESTED JOB", sb.String())
}

// PrintIngestReport outputs a batch summary.
func (p *Printer) PrintIngestReport(report *ingestion.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URLs:        %s\n", humanize.Comma(int64(report.Total))))
	sb.WriteString(fmt.Sprintf("Succeeded:   %s\n", humanize.Comma(int64(report.Succeeded))))
	sb.WriteString(fmt.Sprintf("Failed:      %s\n", humanize.Comma(int64(report.Failed))))
	sb.WriteString(fmt.Sprintf("With salary: %s\n", humanize.Comma(int64(report.WithSalary))))
	sb.WriteString(fmt.Sprintf("High salary: %s\n", humanize.Comma(int64(report.HighSalary))))
	sb.WriteString(fmt.Sprintf("Local 100k:  %s\n", humanize.Comma(int64(report.LocalHundredK))))

	msgs := make([]string, len(report.Failures))
	for i, f := range report.Failures {
		msgs[i] = f.URL + ": " + f.Error
	}
	writeErrors(&sb, msgs)

	p.printBox("INGESTION", sb.String())
}

func writeErrors(sb *strings.Builder, errs []string) {
	if len(errs) == 0 {
		return
	}
	sb.WriteString("\nErrors:\n")
	count := min(len(errs), maxItemsToShow)
	for _, e := range errs[:count] {
		sb.WriteString(fmt.Sprintf("  ✗ %s\n", e))
	}
	if len(errs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(errs)-maxItemsToShow))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
