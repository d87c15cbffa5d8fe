package rendering

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/resume-tailor/internal/fetch"
)

// Page geometry in inches: US letter with fixed margins.
const (
	PageWidth  = 8.5
	PageHeight = 11.0
	PageMargin = 0.75
)

const printTimeout = 60 * time.Second

// Engine converts a standalone HTML page into PDF bytes.
type Engine interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeEngine prints HTML through headless Chrome. Page breaks are left to the browser.
type ChromeEngine struct {
	ChromePath string
	Timeout    time.Duration
}

// NewChromeEngine creates an engine that launches Chrome from chromePath, or
// from the system default when empty.
func NewChromeEngine(chromePath string) *ChromeEngine {
	return &ChromeEngine{ChromePath: chromePath, Timeout: printTimeout}
}

// PrintPDF writes html to a temporary file, loads it in a fresh browser and prints it.
func (e *ChromeEngine) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "resume-render-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write page: %w", err)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, fetch.AllocatorOptions(e.ChromePath)...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = printTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var buf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(PageWidth).
				WithPaperHeight(PageHeight).
				WithMarginTop(PageMargin).
				WithMarginBottom(PageMargin).
				WithMarginLeft(PageMargin).
				WithMarginRight(PageMargin).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print failed: %w", err)
	}
	return buf, nil
}
