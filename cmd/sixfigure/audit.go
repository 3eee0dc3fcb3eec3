package main

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jonathan/sixfigure-jobs/internal/repair"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check stored salaries against the validity gate",
	Long:  "Count stored jobs whose annual salary sits outside [floor, ceiling], whose range is inverted, or that are flagged as high salary without pay data.",
	RunE:  runAudit,
}

var (
	auditMin    float64
	auditMax    float64
	auditStrict bool
)

func init() {
	auditCmd.Flags().Float64Var(&auditMin, "min", salary.DefaultFloor, "Lowest plausible annual salary")
	auditCmd.Flags().Float64Var(&auditMax, "max", salary.DefaultCeiling, "Highest plausible annual salary")
	auditCmd.Flags().BoolVar(&auditStrict, "strict", false, "Exit with an error when violations exist")

	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	report, err := repair.Audit(ctx, database, auditMin, auditMax)
	if err != nil {
		return err
	}

	if err := renderAudit(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if auditStrict && !report.Clean {
		return fmt.Errorf("%d salary violations found", report.Counts.Violations())
	}
	return nil
}

func renderAudit(out io.Writer, report *repair.AuditReport) error {
	c := report.Counts
	data := pterm.TableData{
		{"Check", "Jobs"},
		{"Total jobs", fmt.Sprint(c.TotalJobs)},
		{"With salary", fmt.Sprint(c.WithSalary)},
		{fmt.Sprintf("Below %.0f", report.Floor), fmt.Sprint(c.BelowFloor)},
		{fmt.Sprintf("Above %.0f", report.Ceiling), fmt.Sprint(c.AboveCeiling)},
		{"Inverted range", fmt.Sprint(c.Inverted)},
		{"Flagged without pay", fmt.Sprint(c.FlaggedWithoutPay)},
		{"Unresolved", fmt.Sprint(c.Unresolved)},
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render audit table: %w", err)
	}
	fmt.Fprintln(out, table)

	if report.Clean {
		fmt.Fprintln(out, pterm.Success.Sprint("All stored salaries satisfy the gate"))
	} else {
		fmt.Fprintln(out, pterm.Warning.Sprintf("%d violations; run `sixfigure repair` to fix", c.Violations()))
	}
	return nil
}
