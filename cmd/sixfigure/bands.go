package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jonathan/sixfigure-jobs/internal/config"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

var bandsCmd = &cobra.Command{
	Use:   "bands [country]",
	Short: "Show the salary band tables",
	Long:  "Show each market's local-currency bands and the threshold a job must reach to count as \"$100k+ equivalent\".",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBands,
}

func init() {
	rootCmd.AddCommand(bandsCmd)
}

func runBands(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := config.LoadBands(cfg.BandsFile)
	if err != nil {
		return err
	}

	countries := registry.Countries()
	if len(args) == 1 {
		countries = []string{strings.ToUpper(args[0])}
	}
	return renderBands(cmd.OutOrStdout(), registry, countries)
}

func renderBands(out io.Writer, registry *salary.Registry, countries []string) error {
	data := pterm.TableData{{"Country", "Currency", "Threshold", "Bands"}}
	for _, country := range countries {
		table := registry.Lookup(country, salary.DefaultCurrency(country))
		symbol := salary.CurrencySymbol(table.Currency)

		bands := make([]string, len(table.Bands))
		for i, b := range table.Bands {
			if b.Max == nil {
				bands[i] = fmt.Sprintf("%s %s%s+", b.ID, symbol, humanize.Comma(int64(b.Min)))
			} else {
				bands[i] = fmt.Sprintf("%s %s%s-%s", b.ID, symbol, humanize.Comma(int64(b.Min)), humanize.Comma(int64(*b.Max)))
			}
		}

		data = append(data, []string{
			country,
			table.Currency,
			symbol + humanize.Comma(int64(table.Threshold())),
			strings.Join(bands, ", "),
		})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render bands table: %w", err)
	}
	fmt.Fprintln(out, rendered)
	return nil
}
