package scraping

import (
	"regexp"
	"strings"
)

// ChromePhrases are UI labels that leak into scraped text from job board page chrome.
var ChromePhrases = []string{
	"Sign in",
	"Create account",
	"Apply now",
	"Save job",
	"Share",
	"Report job",
	"Cookie policy",
	"Privacy policy",
	"Accept cookies",
	"Show more",
	"Show less",
}

var chromePhraseRegex = buildPhraseRegex(ChromePhrases)

func buildPhraseRegex(phrases []string) *regexp.Regexp {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// CleanText collapses all whitespace (including non-breaking spaces) to single
// spaces and strips page chrome phrases. CleanText(CleanText(s)) == CleanText(s).
func CleanText(text string) string {
	text = collapseWhitespace(text)
	for {
		stripped := collapseWhitespace(chromePhraseRegex.ReplaceAllString(text, " "))
		if stripped == text {
			return text
		}
		text = stripped
	}
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
