package scraping

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Extraction thresholds, in characters of cleaned text.
const (
	// MinSelectorLength is the length a site selector's text must exceed to be accepted.
	MinSelectorLength = 100
	// MinBlockLength is the length a generic text block must exceed to be collected.
	MinBlockLength = 50
	// MinGenericLength is the length combined generic content must exceed to be accepted.
	MinGenericLength = 200
	// MinLineLength is the length a raw text line must exceed in the last-resort pass.
	MinLineLength = 30
)

// Strategy names reported by the generic extractor.
const (
	strategyMainContent = "main-content"
	strategyAllLines    = "all-lines"
)

// noiseSelector lists elements that never hold posting content.
const noiseSelector = "script, style, nav, header, footer, aside, noscript, form, iframe"

// mainContainers are searched in order by the generic extractor.
var mainContainers = []string{
	"main",
	"article",
	`[role="main"]`,
	"div.main-content",
	"div.content",
	"div.container",
	"body",
}

// extraction is the outcome of running strategies against one document.
type extraction struct {
	Text     string
	Strategy string
	// Matched is true when some selector or container matched, even if its
	// text fell below the acceptance threshold.
	Matched bool
}

// parseHTML builds a goquery document from raw HTML.
func parseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// extractWithSelectors returns the cleaned text of the first selector whose
// matches, joined with spaces, exceed MinSelectorLength.
func extractWithSelectors(doc *goquery.Document, selectors []string) extraction {
	var out extraction
	for _, selector := range selectors {
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			continue
		}
		out.Matched = true

		parts := make([]string, 0, selection.Length())
		selection.Each(func(_ int, s *goquery.Selection) {
			if text := CleanText(blockText(s)); text != "" {
				parts = append(parts, text)
			}
		})
		text := strings.Join(parts, " ")
		if utf8.RuneCountInString(text) > MinSelectorLength {
			out.Text = text
			out.Strategy = selector
			return out
		}
	}
	return out
}

// extractGeneric looks for substantial text blocks inside the main content
// container, then falls back to long raw text lines. It mutates doc by
// removing noise elements.
func extractGeneric(doc *goquery.Document) extraction {
	doc.Find(noiseSelector).Remove()

	var out extraction
	for _, selector := range mainContainers {
		container := doc.Find(selector).First()
		if container.Length() == 0 || strings.TrimSpace(container.Text()) == "" {
			continue
		}
		out.Matched = true

		blocks := collectBlocks(container)
		content := strings.Join(blocks, "\n\n")
		if utf8.RuneCountInString(content) > MinGenericLength {
			out.Text = content
			out.Strategy = strategyMainContent
			return out
		}
	}

	lines := meaningfulLines(doc.Text())
	if len(lines) > 0 {
		out.Matched = true
		content := strings.Join(lines, "\n")
		if utf8.RuneCountInString(content) > MinGenericLength {
			out.Text = content
			out.Strategy = strategyAllLines
		}
	}
	return out
}

// collectBlocks gathers cleaned p/div/li/span text longer than MinBlockLength.
// A block already contained in a previously collected ancestor is skipped.
func collectBlocks(container *goquery.Selection) []string {
	var blocks []string
	container.Find("p, div, li, span").Each(func(_ int, s *goquery.Selection) {
		text := CleanText(blockText(s))
		if utf8.RuneCountInString(text) <= MinBlockLength {
			return
		}
		for _, existing := range blocks {
			if strings.Contains(existing, text) {
				return
			}
		}
		blocks = append(blocks, text)
	})
	return blocks
}

var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true, "br": true,
	"section": true, "article": true, "table": true, "tr": true, "td": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// blockText is Selection.Text with a space at every block element boundary,
// so minified markup like <p>a.</p><p>b</p> does not read "a.b".
func blockText(s *goquery.Selection) string {
	var sb strings.Builder
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			name := goquery.NodeName(c)
			switch {
			case name == "#text":
				sb.WriteString(c.Text())
			case blockTags[name]:
				sb.WriteByte(' ')
				walk(c)
				sb.WriteByte(' ')
			default:
				walk(c)
			}
		})
	}
	walk(s)
	return sb.String()
}

func meaningfulLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = CleanText(line)
		if utf8.RuneCountInString(line) > MinLineLength {
			lines = append(lines, line)
		}
	}
	return lines
}
