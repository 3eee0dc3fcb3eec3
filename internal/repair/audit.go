package repair

import (
	"context"

	"github.com/jonathan/sixfigure-jobs/internal/db"
)

// Auditor counts persisted salary violations.
type Auditor interface {
	CountSalaryViolations(ctx context.Context, floor, ceiling float64) (*db.SalaryViolationCounts, error)
}

// AuditReport is the result of checking stored data against the gate.
type AuditReport struct {
	Floor   float64                  `json:"floor"`
	Ceiling float64                  `json:"ceiling"`
	Counts  db.SalaryViolationCounts `json:"counts"`
	Clean   bool                     `json:"clean"`
}

// Audit verifies that no stored annual value sits outside [floor, ceiling],
// no range is inverted and no job is flagged without pay.
func Audit(ctx context.Context, a Auditor, floor, ceiling float64) (*AuditReport, error) {
	if floor <= 0 || ceiling <= floor {
		return nil, &PolicyError{Message: "audit bounds must satisfy 0 < floor < ceiling"}
	}
	counts, err := a.CountSalaryViolations(ctx, floor, ceiling)
	if err != nil {
		return nil, &Error{Message: "failed to count violations", Cause: err}
	}
	return &AuditReport{
		Floor:   floor,
		Ceiling: ceiling,
		Counts:  *counts,
		Clean:   counts.Violations() == 0,
	}, nil
}
