package fetch

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/sixfigure-jobs/internal/db"
)

// DefaultCacheTTL is how long a fetched posting is reused before refetching.
const DefaultCacheTTL = 24 * time.Hour

// PageCache stores fetched pages between ingestion runs.
type PageCache interface {
	GetCachedPage(ctx context.Context, url string, maxAge time.Duration) (*db.CachedPage, error)
	PutCachedPage(ctx context.Context, page *db.CachedPage) error
}

// Renderer renders a page in a browser and returns its HTML.
type Renderer func(ctx context.Context, url string) (string, error)

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	CacheTTL       time.Duration
	SkipCache      bool
	UseBrowser     bool
	BrowserTimeout time.Duration
	Verbose        bool
	Options        *Options
}

// DefaultFetcherConfig returns sensible defaults: cache on, browser off.
func DefaultFetcherConfig() *FetcherConfig {
	return &FetcherConfig{
		CacheTTL:       DefaultCacheTTL,
		BrowserTimeout: 45 * time.Second,
		Options:        DefaultOptions(),
	}
}

// Fetcher retrieves posting pages, consulting an optional cache and falling
// back to a headless browser for client-rendered boards.
type Fetcher struct {
	cache   PageCache
	config  *FetcherConfig
	render  Renderer
	nowFunc func() time.Time
}

// NewFetcher creates a fetcher. cache may be nil.
func NewFetcher(cache PageCache, config *FetcherConfig) *Fetcher {
	if config == nil {
		config = DefaultFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.BrowserTimeout == 0 {
		config.BrowserTimeout = 45 * time.Second
	}
	f := &Fetcher{cache: cache, config: config, nowFunc: time.Now}
	f.render = func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, config.BrowserTimeout, config.Verbose)
	}
	return f
}

// WithRenderer replaces the browser renderer, mainly for tests.
func (f *Fetcher) WithRenderer(r Renderer) *Fetcher {
	f.render = r
	return f
}

// Fetch returns the page at url with its main text extracted.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	useCache := f.cache != nil && !f.config.SkipCache

	if useCache {
		page, err := f.cache.GetCachedPage(ctx, url, f.config.CacheTTL)
		if err != nil {
			log.Printf("[fetch] cache lookup failed for %s: %v", url, err)
		} else if page != nil {
			return &Result{
				URL:        page.URL,
				HTML:       page.HTML,
				Text:       page.Text,
				StatusCode: page.StatusCode,
				Rendered:   page.Rendered,
			}, nil
		}
	}

	result, err := URL(ctx, url, f.config.Options)
	if err != nil {
		return nil, err
	}

	platform := DetectPlatform(url)
	text, err := ExtractMainText(result.HTML, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	if err != nil {
		return nil, &Error{URL: url, Message: "failed to extract text", Cause: err}
	}
	result.Text = text

	if f.config.UseBrowser && f.render != nil && (platform.RendersClientSide() || ShouldUseBrowser(text)) {
		html, err := f.render(ctx, url)
		if err != nil {
			log.Printf("[fetch] browser fallback failed for %s: %v", url, err)
		} else if rendered, err := ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...); err == nil {
			result.HTML, result.Text, result.Rendered = html, rendered, true
		}
	}

	if useCache {
		page := &db.CachedPage{
			URL:        url,
			HTML:       result.HTML,
			Text:       result.Text,
			StatusCode: result.StatusCode,
			Rendered:   result.Rendered,
			FetchedAt:  f.nowFunc(),
		}
		if err := f.cache.PutCachedPage(ctx, page); err != nil {
			log.Printf("[fetch] failed to cache %s: %v", url, err)
		}
	}

	return result, nil
}
