// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewLines is how many lines of extracted text are shown
	previewLines = 6
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to limit items as bullets with an overflow note.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", truncate(items[i], 50)))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintExtraction outputs the outcome of scraping a job posting.
func (p *Printer) PrintExtraction(result types.ExtractionResult) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("URL:        %s\n", result.SourceURLUsed))
	sb.WriteString(fmt.Sprintf("Diagnostic: %s\n", result.Diagnostic))
	if result.Strategy != "" {
		sb.WriteString(fmt.Sprintf("Strategy:   %s\n", result.Strategy))
	}

	if !result.Success {
		sb.WriteString("\n")
		sb.WriteString(wrap(result.Message, boxWidth-4))
		p.printBox("JOB EXTRACTION FAILED", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Length:     %d characters\n\n", utf8.RuneCountInString(result.Text)))
	lines := strings.Split(result.Text, "\n")
	count := min(len(lines), previewLines)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i] + "\n")
	}
	if len(lines) > previewLines {
		sb.WriteString(fmt.Sprintf("... and %d more lines", len(lines)-previewLines))
	}

	p.printBox("EXTRACTED JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSections outputs the document structure inferred before rendering.
func (p *Printer) PrintSections(sections []types.Section) {
	if len(sections) == 0 {
		return
	}

	counts := map[types.SectionKind]int{}
	var titles []string
	for _, s := range sections {
		counts[s.Kind]++
		if s.Kind == types.SectionTitle {
			titles = append(titles, s.Text)
		}
	}

	var sb strings.Builder
	for _, s := range sections {
		if s.Kind == types.SectionHeader {
			sb.WriteString(fmt.Sprintf("Header:   %s\n", s.Text))
			break
		}
	}
	sb.WriteString(fmt.Sprintf("Contact:  %d line(s)\n", counts[types.SectionContact]))
	sb.WriteString(fmt.Sprintf("Body:     %d line(s)\n", counts[types.SectionBody]))
	sb.WriteString(fmt.Sprintf("Bullets:  %d\n\n", counts[types.SectionBullet]))
	writeList(&sb, "Sections", titles, maxItemsToShow*2)

	p.printBox("DOCUMENT STRUCTURE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFitAnalysis outputs a fit score with skill gaps and keyword overlap.
func (p *Printer) PrintFitAnalysis(fit *types.FitAnalysis, keywords *analysis.KeywordReport) {
	if fit == nil && keywords == nil {
		return
	}

	var sb strings.Builder
	if fit != nil {
		sb.WriteString(fmt.Sprintf("Match score: %d/100\n\n", fit.MatchScore))
		writeList(&sb, "Matching skills", fit.MatchingSkills, maxItemsToShow)
		writeList(&sb, "Missing skills", fit.MissingSkills, maxItemsToShow)
		writeList(&sb, "Recommendations", fit.Recommendations, 3)
		if fit.Summary != "" {
			sb.WriteString(wrap(fit.Summary, boxWidth-4) + "\n\n")
		}
	}
	if keywords != nil {
		sb.WriteString(fmt.Sprintf("Keyword overlap: %.1f%%\n", keywords.MatchPercentage))
		if len(keywords.MatchingKeywords) > 0 {
			sb.WriteString(fmt.Sprintf("  [%s]\n", truncate(strings.Join(keywords.MatchingKeywords, ", "), 50)))
		}
	}

	p.printBox("RESUME FIT ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunResult outputs the final state of a pipeline run.
func (p *Printer) PrintRunResult(result *pipeline.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if result.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run:      %s\n", result.RunID))
	}
	sb.WriteString(fmt.Sprintf("Stage:    %s\n", result.Stage))

	if !result.Success {
		sb.WriteString(fmt.Sprintf("Failed at %s (%s)\n\n", result.FailedAt, result.ErrorKind))
		sb.WriteString(wrap(result.Message, boxWidth-4))
		if result.NeedsManualInput {
			sb.WriteString("\n\nPaste the job description with --job instead.")
		}
		p.printBox("❌ RUN FAILED", sb.String())
		return
	}

	sb.WriteString("\n")
	writeDocument(&sb, "Resume", result.Resume)
	writeDocument(&sb, "Cover letter", result.CoverLetter)

	p.printBox("✅ RUN COMPLETE", strings.TrimSuffix(sb.String(), "\n"))
}

func writeDocument(sb *strings.Builder, label string, doc *pipeline.DocumentResult) {
	if doc == nil {
		return
	}
	switch {
	case !doc.Success:
		sb.WriteString(fmt.Sprintf("⚠ %s: %s\n", label, doc.ErrorKind))
		sb.WriteString(fmt.Sprintf("  %s\n", doc.Message))
	case doc.Document != nil:
		note := ""
		if doc.UsedFallback {
			note = " (text fallback)"
		}
		sb.WriteString(fmt.Sprintf("• %s: %s%s\n", label, doc.Document.Filename, note))
	default:
		sb.WriteString(fmt.Sprintf("• %s: %d characters\n", label, utf8.RuneCountInString(doc.Content)))
	}
}
