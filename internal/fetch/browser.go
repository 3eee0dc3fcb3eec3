package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text still treated as a real
// server-rendered posting.
const MinContentLength = 500

// hydrationWait bounds how long a render waits for a board's posting markup.
const hydrationWait = 10 * time.Second

// readySelectors mark a hydrated posting on boards that render client-side.
var readySelectors = map[Platform]string{
	PlatformAshby:   `[class*="_descriptionText"], [class*="ashby-job-posting"]`,
	PlatformWorkday: `[data-automation-id="jobPostingDescription"]`,
	PlatformLever:   `.posting-page`,
}

// ShouldUseBrowser reports whether extracted text is too short to be a
// posting, which usually means a JavaScript shell.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser renders url in headless Chrome and returns the resulting HTML.
// Chrome or Chromium must be installed.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	platform := DetectPlatform(url)
	if verbose {
		log.Printf("[browser] rendering %s (%s)", url, platform)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("blink-settings", "imagesEnabled=false"),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(url), chromedp.WaitReady("body")); err != nil {
		return "", fmt.Errorf("browser navigation failed: %w", err)
	}

	// A board that never shows its marker still gets whatever rendered.
	if sel, ok := readySelectors[platform]; ok {
		var found bool
		js := fmt.Sprintf("document.querySelector(%q) !== null", sel)
		if err := chromedp.Run(browserCtx, chromedp.Poll(js, &found, chromedp.WithPollingTimeout(hydrationWait))); err != nil && verbose {
			log.Printf("[browser] %s: posting markup not found: %v", url, err)
		}
	} else {
		_ = chromedp.Run(browserCtx, chromedp.Sleep(2*time.Second))
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if verbose {
		log.Printf("[browser] rendered %s: %d bytes", url, len(html))
	}
	return html, nil
}
