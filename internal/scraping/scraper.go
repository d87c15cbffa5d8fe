// Package scraping extracts job descriptions from job board pages.
//
// Scraping is best-effort: every outcome, including network failures and
// blocked requests, is reported as a types.ExtractionResult with a diagnostic
// and a human-readable message rather than as an error.
package scraping

import (
	"context"
	"errors"
	"log"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/types"
)

// MinJobDescriptionLength is the minimum cleaned length of an accepted job description.
const MinJobDescriptionLength = 50

// DefaultPoliteDelay is waited before every outbound request.
const DefaultPoliteDelay = time.Second

// Extractor is implemented by anything that can resolve a posting URL to text.
type Extractor interface {
	ExtractJobDescription(ctx context.Context, rawURL string) types.ExtractionResult
}

// Options configures a Scraper.
type Options struct {
	Timeout     time.Duration
	PoliteDelay time.Duration
	MinLength   int
	UserAgent   string
	// UseBrowser enables a headless Chrome retry when HTTP extraction is short.
	UseBrowser bool
	Browser    fetch.BrowserOptions
	Verbose    bool
}

// DefaultOptions returns the production scraping configuration.
func DefaultOptions() Options {
	return Options{
		Timeout:     fetch.DefaultTimeout,
		PoliteDelay: DefaultPoliteDelay,
		MinLength:   MinJobDescriptionLength,
		UserAgent:   fetch.DefaultUserAgent,
	}
}

type (
	pageFetcher  func(ctx context.Context, url string, opts *fetch.Options) (*fetch.Result, error)
	pageRenderer func(ctx context.Context, url string, opts fetch.BrowserOptions) (string, error)
)

// Scraper resolves job posting URLs using the registry's site strategies and
// a generic content fallback.
type Scraper struct {
	registry *Registry
	opts     Options
	fetch    pageFetcher
	render   pageRenderer
}

// New creates a Scraper. A nil registry uses DefaultRegistry.
func New(registry *Registry, opts Options) *Scraper {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if opts.MinLength <= 0 {
		opts.MinLength = MinJobDescriptionLength
	}
	if opts.Timeout <= 0 {
		opts.Timeout = fetch.DefaultTimeout
	}
	if opts.PoliteDelay < 0 {
		opts.PoliteDelay = 0
	}
	return &Scraper{
		registry: registry,
		opts:     opts,
		fetch:    fetch.URL,
		render:   fetch.WithBrowser,
	}
}

// ExtractJobDescription fetches a posting and returns its description text.
// It never panics or returns an error; failures are described by the result.
func (s *Scraper) ExtractJobDescription(ctx context.Context, rawURL string) types.ExtractionResult {
	target := NormalizeURL(rawURL)
	strategy, matched := s.registry.Lookup(target)
	site := GenericStrategy
	if matched {
		site = strategy.Name
	}
	if s.opts.Verbose {
		log.Printf("[scrape] %s -> %s (strategy %s)", rawURL, target, site)
	}

	if err := s.wait(ctx); err != nil {
		return failure(target, site, types.DiagnosticNetworkError)
	}

	result, err := s.fetch(ctx, target, &fetch.Options{
		Timeout:   s.opts.Timeout,
		UserAgent: s.opts.UserAgent,
		Headers:   strategy.Headers,
	})
	if err != nil {
		status := 0
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) {
			status = fetchErr.StatusCode
		}
		if s.opts.Verbose {
			log.Printf("[scrape] fetch failed: %v", err)
		}
		return failure(target, site, DiagnosticForStatus(status))
	}

	ext := s.extract(result.HTML, strategy)
	if s.opts.UseBrowser && utf8.RuneCountInString(ext.Text) < s.opts.MinLength {
		browserOpts := s.opts.Browser
		browserOpts.Verbose = s.opts.Verbose
		if html, renderErr := s.render(ctx, target, browserOpts); renderErr == nil {
			if rendered := s.extract(html, strategy); utf8.RuneCountInString(rendered.Text) > utf8.RuneCountInString(ext.Text) {
				ext = rendered
			}
		} else if s.opts.Verbose {
			log.Printf("[scrape] browser fallback failed: %v", renderErr)
		}
	}

	return s.classify(target, site, ext)
}

// extract runs the site selectors, then the generic strategy.
func (s *Scraper) extract(html string, strategy Strategy) extraction {
	doc, err := parseHTML(html)
	if err != nil {
		return extraction{}
	}

	site := extractWithSelectors(doc, strategy.Selectors)
	if site.Text != "" {
		return site
	}

	generic := extractGeneric(doc)
	generic.Matched = generic.Matched || site.Matched
	return generic
}

func (s *Scraper) classify(target, site string, ext extraction) types.ExtractionResult {
	switch {
	case ext.Text == "" && !ext.Matched:
		return failure(target, site, types.DiagnosticNotFound)
	case utf8.RuneCountInString(ext.Text) < s.opts.MinLength:
		return failure(target, site, types.DiagnosticTooShort)
	}

	if s.opts.Verbose {
		log.Printf("[scrape] extracted %d chars using %s", utf8.RuneCountInString(ext.Text), ext.Strategy)
	}
	return types.ExtractionResult{
		Success:       true,
		Text:          ext.Text,
		Diagnostic:    types.DiagnosticOK,
		SourceURLUsed: target,
		Message:       "Successfully extracted job description",
		Strategy:      site + ":" + ext.Strategy,
	}
}

// wait sleeps for the polite delay unless the context ends first.
func (s *Scraper) wait(ctx context.Context) error {
	if s.opts.PoliteDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.opts.PoliteDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func failure(target, site string, diagnostic types.Diagnostic) types.ExtractionResult {
	return types.ExtractionResult{
		Success:       false,
		Diagnostic:    diagnostic,
		SourceURLUsed: target,
		Message:       FailureMessage(site, diagnostic),
	}
}
