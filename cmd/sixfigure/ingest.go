package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/jonathan/sixfigure-jobs/internal/config"
	"github.com/jonathan/sixfigure-jobs/internal/extract"
	"github.com/jonathan/sixfigure-jobs/internal/fetch"
	"github.com/jonathan/sixfigure-jobs/internal/ingestion"
	"github.com/jonathan/sixfigure-jobs/internal/llm"
	"github.com/jonathan/sixfigure-jobs/internal/observability"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [url...]",
	Short: "Fetch job postings, normalize their salaries and store them",
	Long:  "Fetch each posting, extract title, company, location and stated pay, resolve and classify the salary, then upsert the job.",
	RunE:  runIngest,
}

var (
	ingestFile        string
	ingestConcurrency int
	ingestCountry     string
	ingestDryRun      bool
	ingestBrowser     bool
	ingestNoCache     bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "File with one URL per line")
	ingestCmd.Flags().IntVar(&ingestConcurrency, "concurrency", 0, "Maximum concurrent fetches")
	ingestCmd.Flags().StringVar(&ingestCountry, "country", "", "Country assumed when a posting names none")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Compute outcomes without writing to the database")
	ingestCmd.Flags().BoolVar(&ingestBrowser, "browser", false, "Render client-side job boards in a headless browser")
	ingestCmd.Flags().BoolVar(&ingestNoCache, "no-cache", false, "Ignore cached pages")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	urls := append([]string{}, args...)
	if ingestFile != "" {
		f, err := os.Open(ingestFile)
		if err != nil {
			return fmt.Errorf("failed to open URL file: %w", err)
		}
		fromFile, err := readURLs(f)
		f.Close()
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("provide at least one URL or --file")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	merged := (&config.Config{
		DefaultCountry: strings.ToUpper(ingestCountry),
		Concurrency:    ingestConcurrency,
	}).MergeWithDefaults(*cfg)
	merged.Verbose, merged.UseBrowser = cfg.Verbose, cfg.UseBrowser
	if err := merged.Validate(); err != nil {
		return err
	}

	registry, err := config.LoadBands(merged.BandsFile)
	if err != nil {
		return err
	}

	extractors := extract.DefaultRegistry()
	if merged.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), merged.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close()
		extractors = extractors.WithLLM(extract.NewLLMExtractor(client))
	}

	fetcherConfig := fetch.DefaultFetcherConfig()
	fetcherConfig.UseBrowser = ingestBrowser || merged.UseBrowser
	fetcherConfig.SkipCache = ingestNoCache
	fetcherConfig.Verbose = merged.Verbose

	var store ingestion.Store
	var cache fetch.PageCache
	if !ingestDryRun {
		database, err := openDB(ctx, &merged)
		if err != nil {
			return err
		}
		defer database.Close()
		store, cache = database, database
	}

	ingester := ingestion.NewIngester(
		fetch.NewFetcher(cache, fetcherConfig),
		extractors,
		registry,
		store,
		ingestion.Config{DefaultCountry: merged.DefaultCountry, DryRun: ingestDryRun, Verbose: merged.Verbose},
	)

	return ingestURLs(ctx, cmd.OutOrStdout(), ingester, urls, merged.Concurrency, merged.Verbose)
}

func ingestURLs(ctx context.Context, out io.Writer, ingester *ingestion.Ingester, urls []string, concurrency int, verbose bool) error {
	printer := observability.NewPrinter(out)

	bar := pb.New(len(urls))
	bar.SetWriter(os.Stderr)
	bar.Start()

	var mu sync.Mutex
	report, err := ingester.IngestAll(ctx, urls, concurrency, func(o *ingestion.Outcome, err error) {
		bar.Increment()
		if !verbose || o == nil {
			return
		}
		o.Err = err
		mu.Lock()
		printer.PrintIngestOutcome(o)
		mu.Unlock()
	})
	bar.Finish()
	if err != nil {
		return err
	}

	printer.PrintIngestReport(report)
	if report.Failed == report.Total {
		return fmt.Errorf("all %d URLs failed", report.Total)
	}
	return nil
}

// readURLs returns the non-blank, non-comment lines of r.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	return urls, nil
}
