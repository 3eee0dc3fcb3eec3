package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/sixfigure-jobs/internal/config"
	"github.com/jonathan/sixfigure-jobs/internal/extract"
	"github.com/jonathan/sixfigure-jobs/internal/observability"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [salary text]",
	Short: "Resolve, classify and format one salary",
	Long: `Resolve a salary into an annual range, classify it against the market's bands
and render its display text. Give the figures as flags, or free text such as
"£80,000 - £95,000 per year" as the argument.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

var (
	normMin       float64
	normMax       float64
	normMinAnnual float64
	normMaxAnnual float64
	normCurrency  string
	normCountry   string
	normPeriod    string
	normJSON      bool
)

func init() {
	normalizeCmd.Flags().Float64Var(&normMin, "min", 0, "Stated minimum")
	normalizeCmd.Flags().Float64Var(&normMax, "max", 0, "Stated maximum")
	normalizeCmd.Flags().Float64Var(&normMinAnnual, "min-annual", 0, "Stored annual minimum")
	normalizeCmd.Flags().Float64Var(&normMaxAnnual, "max-annual", 0, "Stored annual maximum")
	normalizeCmd.Flags().StringVar(&normCurrency, "currency", "", "ISO 4217 currency code")
	normalizeCmd.Flags().StringVar(&normCountry, "country", "", "ISO 3166-1 alpha-2 country code")
	normalizeCmd.Flags().StringVar(&normPeriod, "period", "", "Pay period: hour, day, week, month or year")
	normalizeCmd.Flags().BoolVar(&normJSON, "json", false, "Print the result as JSON")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	in, err := normalizeInput(cmd.Flags(), args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := config.LoadBands(cfg.BandsFile)
	if err != nil {
		return err
	}

	return printNormalization(cmd.OutOrStdout(), in, registry.Normalize(in), normJSON)
}

// normalizeInput builds resolver input from free text and flags. Flags win
// over figures parsed from the text.
func normalizeInput(flags *pflag.FlagSet, args []string) (salary.Input, error) {
	var in salary.Input
	if len(args) == 1 {
		x := extract.ParseText(args[0])
		if x == nil {
			return in, fmt.Errorf("no salary found in %q", args[0])
		}
		in = x.ToInput("")
	}

	set := func(name string, v float64, dst **float64) {
		if flags.Changed(name) {
			*dst = salary.Float(v)
		}
	}
	set("min", normMin, &in.SalaryMin)
	set("max", normMax, &in.SalaryMax)
	set("min-annual", normMinAnnual, &in.MinAnnual)
	set("max-annual", normMaxAnnual, &in.MaxAnnual)

	if normCurrency != "" {
		in.Currency = strings.ToUpper(normCurrency)
	}
	if normCountry != "" {
		in.CountryCode = strings.ToUpper(normCountry)
	}
	if normPeriod != "" {
		in.SalaryPeriod = normPeriod
	}

	if in.SalaryMin == nil && in.SalaryMax == nil && in.MinAnnual == nil && in.MaxAnnual == nil {
		return in, fmt.Errorf("provide salary text or at least one of --min, --max, --min-annual, --max-annual")
	}
	return in, nil
}

func printNormalization(out io.Writer, in salary.Input, res salary.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	observability.NewPrinter(out).PrintNormalization(in, res)
	return nil
}
