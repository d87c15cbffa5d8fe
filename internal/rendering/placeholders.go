package rendering

import (
	"regexp"
	"strings"
)

// resumePlaceholders are unfilled template markers removed wherever they occur in a resume.
var resumePlaceholders = []string{
	"[Your Name]",
	"[Company Name]",
	"[Location]",
	"[Dates]",
	"[City, State, Zip Code]",
	"[Email Address]",
	"[Phone Number]",
	"[Your Address]",
	"[Degree Earned]",
	"[Graduation Year]",
}

// standaloneLetterPlaceholder matches cover letter lines consisting only of an unfilled marker.
var standaloneLetterPlaceholder = regexp.MustCompile(`^\[(Your Name|Your Address|City, State, Zip Code|Email Address|Phone Number|Date|Company Name)\]$`)

const (
	letterMetadataMarker = "---"
	letterCommentaryLead = "This cover letter"
)

// RemoveResumePlaceholders strips known placeholders anywhere in the text and
// drops lines left empty.
func RemoveResumePlaceholders(content string) string {
	for _, p := range resumePlaceholders {
		content = strings.ReplaceAll(content, p, "")
	}

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// CleanCoverLetter removes only placeholders that occupy a whole line, so
// salutations and date lines that mention a marker mid-sentence survive.
// Everything from a line consisting of "---" onward is model commentary and
// is dropped, as are lines starting "This cover letter". Dashes inside a
// sentence are letter text.
func CleanCoverLetter(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == letterMetadataMarker {
			break
		}
		if standaloneLetterPlaceholder.MatchString(trimmed) || strings.HasPrefix(trimmed, letterCommentaryLead) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// Paragraphs splits a cover letter on blank lines and collapses the
// whitespace inside each paragraph.
func Paragraphs(content string) []string {
	var paragraphs []string
	for _, block := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n") {
		para := strings.Join(strings.Fields(block), " ")
		if para != "" {
			paragraphs = append(paragraphs, para)
		}
	}
	return paragraphs
}
