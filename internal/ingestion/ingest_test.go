package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sixfigure-jobs/internal/db"
	"github.com/jonathan/sixfigure-jobs/internal/fetch"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*fetch.Result, error) {
	html, ok := f.pages[url]
	if !ok {
		return nil, &fetch.Error{URL: url, Message: "HTTP 404"}
	}
	text, err := fetch.ExtractMainText(html, nil)
	if err != nil {
		return nil, err
	}
	return &fetch.Result{URL: url, HTML: html, Text: text, StatusCode: 200}, nil
}

type memoryStore struct {
	mu   sync.Mutex
	jobs map[string]*db.JobUpsertInput
	err  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{jobs: map[string]*db.JobUpsertInput{}}
}

func (s *memoryStore) UpsertJob(_ context.Context, input *db.JobUpsertInput) (*db.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[input.URL] = input
	return &db.Job{ID: uuid.New(), URL: input.URL, Title: input.Title, MinAnnual: input.MinAnnual, MaxAnnual: input.MaxAnnual}, nil
}

const greenhousePage = `<html><head><title>Senior Engineer - Acme</title></head><body>
<div id="content"><h1>Senior Engineer</h1><p>Location: Remote</p>
<div class="pay-range"><span>$150,000</span> - <span>$190,000 USD</span></div></div></body></html>`

const monthlyPage = `<html><body><h1>Backend Developer</h1>
<p>Compensation: $10,000 - $15,000 per month</p></body></html>`

const ukPage = `<html><head><script type="application/ld+json">
{"@type":"JobPosting","title":"Platform Engineer","hiringOrganization":{"name":"Brit Co"},
 "jobLocation":{"address":{"addressLocality":"London","addressCountry":"GB"}}}
</script></head><body><p>Salary: £80,000 - £95,000 per year</p></body></html>`

const centsPage = `<html><body><h1>Intern</h1><p>Salary: $20 per hour</p></body></html>`

func TestIngestURL_Greenhouse(t *testing.T) {
	url := "https://boards.greenhouse.io/acme/jobs/1"
	store := newMemoryStore()
	ing := NewIngester(&fakeFetcher{pages: map[string]string{url: greenhousePage}}, nil, nil, store, Config{DefaultCountry: "US"})

	out, err := ing.IngestURL(context.Background(), url+"?gh_src=feed")
	require.NoError(t, err)
	require.NotNil(t, out.Job)

	assert.Equal(t, fetch.PlatformGreenhouse, out.Platform)
	assert.Equal(t, "$150K - $190K", out.Salary.Text)
	assert.True(t, out.Salary.HighSalary)
	assert.True(t, out.Salary.LocalHundredK)

	saved := store.jobs[url]
	require.NotNil(t, saved)
	assert.Equal(t, "greenhouse", saved.Source)
	assert.Equal(t, "Senior Engineer", saved.Title)
	assert.Equal(t, "Acme", saved.Company)
	assert.Equal(t, "US", *saved.CountryCode)
	assert.Equal(t, "USD", *saved.Currency)
	assert.Equal(t, 150_000.0, *saved.MinAnnual)
	assert.Equal(t, 190_000.0, *saved.MaxAnnual)
	assert.Equal(t, salary.Tier100, *saved.SalaryBand)
}

func TestIngestURL_MonthlyAnnualized(t *testing.T) {
	url := "https://careers.example.com/jobs/2"
	store := newMemoryStore()
	ing := NewIngester(&fakeFetcher{pages: map[string]string{url: monthlyPage}}, nil, nil, store, Config{DefaultCountry: "US"})

	out, err := ing.IngestURL(context.Background(), url)
	require.NoError(t, err)

	saved := store.jobs[url]
	require.NotNil(t, saved)
	assert.Equal(t, 10_000.0, *saved.SalaryMin)
	assert.Equal(t, "month", *saved.SalaryPeriod)
	assert.Equal(t, 120_000.0, *saved.MinAnnual)
	assert.Equal(t, 180_000.0, *saved.MaxAnnual)
	assert.Equal(t, "$120K - $180K", out.Salary.Text)
}

func TestIngestURL_LocalNotGlobal(t *testing.T) {
	url := "https://careers.example.co.uk/jobs/3"
	store := newMemoryStore()
	ing := NewIngester(&fakeFetcher{pages: map[string]string{url: ukPage}}, nil, nil, store, Config{DefaultCountry: "US"})

	out, err := ing.IngestURL(context.Background(), url)
	require.NoError(t, err)

	saved := store.jobs[url]
	require.NotNil(t, saved)
	assert.Equal(t, "GB", *saved.CountryCode)
	assert.Equal(t, "GBP", *saved.Currency)
	assert.True(t, saved.IsHundredKLocal)
	assert.True(t, out.Salary.HighSalary, "£95k is above $100k at the default rate")
	assert.Equal(t, "£80K - £95K", out.Salary.Text)
}

func TestIngestURL_BelowFloorNotPersisted(t *testing.T) {
	url := "https://careers.example.com/jobs/4"
	store := newMemoryStore()
	ing := NewIngester(&fakeFetcher{pages: map[string]string{url: centsPage}}, nil, nil, store, Config{DefaultCountry: "US"})

	out, err := ing.IngestURL(context.Background(), url)
	require.NoError(t, err)

	saved := store.jobs[url]
	require.NotNil(t, saved)
	assert.Nil(t, saved.MinAnnual, "hourly $20 annualizes to $41,600, below the floor")
	assert.Nil(t, saved.MaxAnnual)
	assert.False(t, saved.IsHighSalary)
	assert.False(t, saved.IsHundredKLocal)
	assert.Nil(t, saved.SalaryBand)
	assert.Equal(t, 20.0, *saved.SalaryMin)
	assert.False(t, out.Salary.HasText)
}

func TestIngestURL_Errors(t *testing.T) {
	store := newMemoryStore()
	ing := NewIngester(&fakeFetcher{pages: map[string]string{}}, nil, nil, store, Config{})

	_, err := ing.IngestURL(context.Background(), "ftp://nope")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = ing.IngestURL(context.Background(), "https://example.com/missing")
	assert.ErrorIs(t, err, ErrFetchFailed)
	var fetchErr *fetch.Error
	assert.True(t, errors.As(err, &fetchErr))

	url := "https://careers.example.com/jobs/5"
	failing := &memoryStore{err: errors.New("connection refused")}
	ing = NewIngester(&fakeFetcher{pages: map[string]string{url: monthlyPage}}, nil, nil, failing, Config{})
	_, err = ing.IngestURL(context.Background(), url)
	assert.ErrorIs(t, err, ErrStoreFailed)
}

func TestIngestURL_DryRun(t *testing.T) {
	url := "https://careers.example.com/jobs/6"
	ing := NewIngester(&fakeFetcher{pages: map[string]string{url: monthlyPage}}, nil, nil, nil, Config{DryRun: true, DefaultCountry: "US"})

	out, err := ing.IngestURL(context.Background(), url)
	require.NoError(t, err)
	assert.Nil(t, out.Job)
	assert.True(t, out.Salary.HighSalary)
}

func TestIngestAll(t *testing.T) {
	pages := map[string]string{}
	var urls []string
	for i := 0; i < 10; i++ {
		u := fmt.Sprintf("https://careers.example.com/jobs/%d", 100+i)
		pages[u] = monthlyPage
		urls = append(urls, u)
	}
	urls = append(urls, "https://careers.example.com/jobs/missing", "mailto:someone")

	store := newMemoryStore()
	ing := NewIngester(&fakeFetcher{pages: pages}, nil, nil, store, Config{DefaultCountry: "US"})

	var mu sync.Mutex
	calls := 0
	report, err := ing.IngestAll(context.Background(), urls, 3, func(*Outcome, error) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)

	assert.Equal(t, 12, report.Total)
	assert.Equal(t, 10, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 10, report.WithSalary)
	assert.Equal(t, 10, report.HighSalary)
	assert.Len(t, report.Failures, 2)
	assert.Equal(t, 12, calls)
	assert.Len(t, store.jobs, 10)
}

func TestIngestAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ing := NewIngester(&fakeFetcher{pages: map[string]string{}}, nil, nil, newMemoryStore(), Config{})
	_, err := ing.IngestAll(ctx, []string{"https://example.com/a", "https://example.com/b"}, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
