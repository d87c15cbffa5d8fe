package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	innerSpaceRegex  = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankLinesRegex  = regexp.MustCompile(`\n\n\n+`)
	bulletLinePrefix = []string{"- ", "* ", "\u2022 ", "\u00b7 ", "\u25e6 "}
)

// CleanText normalizes extracted text while preserving line structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = removeExcessiveBlankLines(result)

	return strings.TrimSpace(result)
}

// cleanLine trims a single line and collapses inner runs of spaces.
// Markdown headings lose their indentation; bullets keep it.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return innerSpaceRegex.ReplaceAllString(trimmed, " ")
	}

	indent := len(line) - len(trimmed)
	body := innerSpaceRegex.ReplaceAllString(trimmed, " ")
	if indent > 0 && isBulletLine(trimmed) {
		return strings.Repeat(" ", indent) + body
	}
	return body
}

func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	for _, prefix := range bulletLinePrefix {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// removeExcessiveBlankLines keeps at most one blank line between blocks.
func removeExcessiveBlankLines(content string) string {
	return blankLinesRegex.ReplaceAllString(content, "\n\n")
}

// MeetsMinimumLength reports whether cleaned text has at least min characters.
func MeetsMinimumLength(text string, min int) bool {
	return len([]rune(strings.TrimSpace(text))) >= min
}

// IngestFromFile extracts a document from disk, cleans it, and returns the text with metadata.
func IngestFromFile(path string) (string, *Metadata, error) {
	raw, err := ExtractFile(path)
	if err != nil {
		return "", nil, err
	}

	cleanedText := CleanText(raw)
	metadata := NewMetadata(cleanedText, "")
	metadata.Source = filepath.Base(path)

	return cleanedText, metadata, nil
}

// WriteOutput writes cleaned text and its metadata side by side using the given base name,
// e.g. base "job_posting" produces job_posting.cleaned.txt and job_posting.meta.json.
func WriteOutput(outDir, base, cleanedText string, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cleanedPath := filepath.Join(outDir, base+".cleaned.txt")
	if err := os.WriteFile(cleanedPath, []byte(cleanedText), 0644); err != nil {
		return fmt.Errorf("failed to write cleaned text file: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return err
	}
	metaPath := filepath.Join(outDir, base+".meta.json")
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
