// Package ingestion turns posting URLs into persisted job records: fetch the
// page, read its metadata, extract the stated salary, normalize it and store
// the result.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/sixfigure-jobs/internal/db"
	"github.com/jonathan/sixfigure-jobs/internal/extract"
	"github.com/jonathan/sixfigure-jobs/internal/fetch"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

// DefaultConcurrency bounds parallel fetches in IngestAll.
const DefaultConcurrency = 4

// Fetcher retrieves a posting page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Store persists ingested jobs.
type Store interface {
	UpsertJob(ctx context.Context, input *db.JobUpsertInput) (*db.Job, error)
}

// Config holds ingestion settings.
type Config struct {
	// DefaultCountry applies when a page gives no usable location.
	DefaultCountry string
	// DryRun skips persistence; outcomes are still computed.
	DryRun  bool
	Verbose bool
}

// Ingester runs the fetch, extract, normalize and store pipeline.
type Ingester struct {
	fetcher    Fetcher
	extractors *extract.Registry
	salaries   *salary.Registry
	store      Store
	config     Config
}

// NewIngester creates an ingester. Nil extractors or salaries fall back to
// the built-in registries. store may be nil only in dry-run mode.
func NewIngester(fetcher Fetcher, extractors *extract.Registry, salaries *salary.Registry, store Store, config Config) *Ingester {
	if extractors == nil {
		extractors = extract.DefaultRegistry()
	}
	if salaries == nil {
		salaries = salary.DefaultRegistry()
	}
	return &Ingester{
		fetcher:    fetcher,
		extractors: extractors,
		salaries:   salaries,
		store:      store,
		config:     config,
	}
}

// Outcome is the result of ingesting one URL.
type Outcome struct {
	URL       string             `json:"url"`
	Platform  fetch.Platform     `json:"platform"`
	Metadata  *Metadata          `json:"metadata,omitempty"`
	Extracted *extract.Extracted `json:"extracted,omitempty"`
	Salary    salary.Result      `json:"salary"`
	Job       *db.Job            `json:"job,omitempty"`
	Err       error              `json:"-"`
}

// IngestURL processes one posting. The resolver runs immediately after
// extraction, so only gated annual figures ever reach the store.
func (i *Ingester) IngestURL(ctx context.Context, rawURL string) (*Outcome, error) {
	url, err := CanonicalURL(rawURL)
	if err != nil {
		return nil, err
	}
	out := &Outcome{URL: url, Platform: fetch.DetectPlatform(url)}

	page, err := i.fetcher.Fetch(ctx, url)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	out.Metadata = ExtractMetadata(page.HTML, url)
	country := out.Metadata.CountryCode
	if country == "" {
		country = i.config.DefaultCountry
	}

	extracted, err := i.extractors.Extract(ctx, string(out.Platform), extract.Page{
		URL:  url,
		HTML: page.HTML,
		Text: CleanText(page.Text),
	})
	if err != nil {
		// Extraction failures degrade to "no salary"; the job is still listed.
		log.Printf("[ingest] salary extraction failed for %s: %v", url, err)
	}
	out.Extracted = extracted
	out.Salary = i.salaries.Normalize(extracted.ToInput(country))

	if i.config.Verbose {
		log.Printf("[ingest] %s platform=%s country=%q salary=%q high=%v local=%v",
			url, out.Platform, country, out.Salary.Text, out.Salary.HighSalary, out.Salary.LocalHundredK)
	}

	if i.config.DryRun {
		return out, nil
	}
	if i.store == nil {
		return out, fmt.Errorf("%w: no store configured", ErrStoreFailed)
	}

	job, err := i.store.UpsertJob(ctx, buildUpsertInput(url, out, country))
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	out.Job = job
	return out, nil
}

func buildUpsertInput(url string, out *Outcome, country string) *db.JobUpsertInput {
	res := out.Salary
	input := &db.JobUpsertInput{
		URL:             url,
		Source:          string(out.Platform),
		Title:           out.Metadata.Title,
		Company:         out.Metadata.Company,
		Location:        db.StringPtr(out.Metadata.Location),
		CountryCode:     db.StringPtr(country),
		Currency:        currencyOf(res.Range),
		MinAnnual:       res.Range.Min,
		MaxAnnual:       res.Range.Max,
		IsHighSalary:    res.HighSalary,
		IsHundredKLocal: res.LocalHundredK,
		SalaryBand:      db.StringPtr(res.Band),
		PostedAt:        out.Metadata.PostedAt,
	}
	if x := out.Extracted; x != nil {
		input.SalaryMin = x.Min
		input.SalaryMax = x.Max
		input.SalaryPeriod = db.StringPtr(x.Period)
		input.SalaryRaw = db.StringPtr(x.Raw)
		if !res.Range.Known() {
			input.Currency = db.StringPtr(x.Currency)
		}
	}
	return input
}

func currencyOf(r salary.Range) *string {
	if !r.Known() {
		return nil
	}
	return db.StringPtr(r.Currency)
}

// Failure records one URL that could not be ingested.
type Failure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// Report summarizes a batch.
type Report struct {
	Total         int       `json:"total"`
	Succeeded     int       `json:"succeeded"`
	Failed        int       `json:"failed"`
	WithSalary    int       `json:"with_salary"`
	HighSalary    int       `json:"high_salary"`
	LocalHundredK int       `json:"local_hundred_k"`
	Failures      []Failure `json:"failures,omitempty"`
}

// IngestAll processes urls with at most concurrency fetches in flight. One
// bad URL never aborts the batch; only context cancellation stops it early.
// progress, when set, is called once per URL from worker goroutines.
func (i *Ingester) IngestAll(ctx context.Context, urls []string, concurrency int, progress func(*Outcome, error)) (*Report, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	report := &Report{Total: len(urls)}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, u := range urls {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			out, err := i.IngestURL(gCtx, u)

			mu.Lock()
			record(report, u, out, err)
			mu.Unlock()

			if progress != nil {
				progress(out, err)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("ingestion interrupted: %w", err)
	}
	return report, nil
}

func record(r *Report, url string, out *Outcome, err error) {
	if err != nil {
		r.Failed++
		r.Failures = append(r.Failures, Failure{URL: url, Error: err.Error()})
		log.Printf("[ingest] %s: %v", url, err)
		return
	}
	r.Succeeded++
	if out.Salary.Range.Known() {
		r.WithSalary++
	}
	if out.Salary.HighSalary {
		r.HighSalary++
	}
	if out.Salary.LocalHundredK {
		r.LocalHundredK++
	}
}
