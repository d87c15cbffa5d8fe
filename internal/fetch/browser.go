package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultBrowserTimeout bounds a single headless render.
const DefaultBrowserTimeout = 30 * time.Second

// BrowserOptions configures headless rendering.
type BrowserOptions struct {
	Timeout    time.Duration
	ChromePath string        // optional Chrome/Chromium binary; chromedp searches PATH when empty
	Settle     time.Duration // wait after body is ready so client-side scripts can render
	Verbose    bool
}

// AllocatorOptions returns the exec allocator flags used for every headless Chrome instance.
func AllocatorOptions(chromePath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	return opts
}

// ShouldUseBrowser reports whether HTTP-extracted text is short enough that
// the page is likely rendered client-side.
func ShouldUseBrowser(extractedText string, minLength int) bool {
	return len(strings.TrimSpace(extractedText)) < minLength
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, opts BrowserOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultBrowserTimeout
	}
	if opts.Settle <= 0 {
		opts.Settle = 2 * time.Second
	}
	if opts.Verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(opts.ChromePath)...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(opts.Settle),
		// Expand truncated descriptions ("Show more") when the button exists; ignore failures.
		chromedp.ActionFunc(func(ctx context.Context) error {
			_ = chromedp.Evaluate(`document.querySelectorAll('button.show-more-less-html__button--more, button[aria-label*="more"]').forEach(b => b.click())`, nil).Do(ctx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}

	return html, nil
}
