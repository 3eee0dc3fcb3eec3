package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/jonathan/sixfigure-jobs/internal/config"
	"github.com/jonathan/sixfigure-jobs/internal/observability"
	"github.com/jonathan/sixfigure-jobs/internal/repair"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Re-normalize stored salaries under a repair policy",
	Long: `Scan stored jobs and rewrite salaries that break the [floor, ceiling] gate,
carry a mislabeled currency, or were stored in cents or as monthly figures.
Running it twice changes nothing the second time.`,
	RunE: runRepair,
}

var (
	repairMin            float64
	repairMax            float64
	repairSources        []string
	repairRescaleCents   bool
	repairRescaleMonthly bool
	repairAll            bool
	repairDryRun         bool
	repairBatch          int
	repairJSON           bool
)

func init() {
	repairCmd.Flags().Float64Var(&repairMin, "min", 0, "Lowest plausible annual salary (default 50000)")
	repairCmd.Flags().Float64Var(&repairMax, "max", 0, "Highest plausible annual salary (default 5000000)")
	repairCmd.Flags().StringSliceVar(&repairSources, "source", nil, "Only repair jobs from these sources")
	repairCmd.Flags().BoolVar(&repairRescaleCents, "rescale-cents", false, "Divide figures stored in cents by 100")
	repairCmd.Flags().BoolVar(&repairRescaleMonthly, "rescale-monthly", false, "Multiply monthly figures stored as annual by 12")
	repairCmd.Flags().BoolVar(&repairAll, "all", false, "Scan every job with salary data, not only gate violations")
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "Report changes without writing them")
	repairCmd.Flags().IntVar(&repairBatch, "batch-size", repair.DefaultBatchSize, "Rows per query page")
	repairCmd.Flags().BoolVar(&repairJSON, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	merged := (&config.Config{
		MinThreshold: repairMin,
		MaxThreshold: repairMax,
		Sources:      repairSources,
	}).MergeWithDefaults(*cfg)
	merged.Verbose = cfg.Verbose

	policy := buildPolicy(merged)
	if err := policy.Validate(); err != nil {
		return err
	}

	registry, err := config.LoadBands(merged.BandsFile)
	if err != nil {
		return err
	}

	database, err := openDB(ctx, &merged)
	if err != nil {
		return err
	}
	defer database.Close()

	pipeline, err := repair.NewPipeline(database, policy, registry)
	if err != nil {
		return err
	}

	bar := pb.New(0)
	bar.SetWriter(os.Stderr)
	bar.Start()
	pipeline.OnRow(func(c repair.Change) {
		bar.Increment()
		if merged.Verbose && c.Changed {
			fmt.Fprintf(os.Stderr, "[repair] %s %v\n", c.ID, c.Fixes)
		}
	})

	report, err := pipeline.Run(ctx)
	bar.Finish()
	if err != nil {
		return err
	}

	if repairJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRepairReport(report)
	return nil
}

// buildPolicy layers flags over the default policy.
func buildPolicy(cfg config.Config) repair.Policy {
	policy := repair.DefaultPolicy()
	if cfg.MinThreshold > 0 {
		policy.MinThreshold = cfg.MinThreshold
	}
	if cfg.MaxThreshold > 0 {
		policy.MaxThreshold = cfg.MaxThreshold
	}
	policy.SourceFilter = cfg.Sources
	policy.RescaleCents = repairRescaleCents
	policy.RescaleMonthly = repairRescaleMonthly
	policy.ScanAll = repairAll
	policy.DryRun = repairDryRun
	policy.BatchSize = repairBatch
	return policy
}
