// Package analysis computes a deterministic keyword overlap report between a resume and a job description.
package analysis

import (
	"sort"
	"strings"
	"unicode"
)

const (
	// TopKeywords bounds every keyword list in a report.
	TopKeywords = 10
	// minKeywordLength excludes short tokens; a keyword must be longer than this.
	minKeywordLength = 3
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true, "could": true, "should": true,
}

// KeywordReport summarizes word counts and keyword overlap.
type KeywordReport struct {
	ResumeWordCount  int      `json:"resume_word_count"`
	JobWordCount     int      `json:"job_word_count"`
	JobKeywords      []string `json:"job_keywords"`
	ResumeKeywords   []string `json:"resume_keywords"`
	MatchingKeywords []string `json:"matching_keywords"`
	MatchPercentage  float64  `json:"match_percentage"`
}

// Compare builds a KeywordReport. MatchPercentage is the share of all distinct
// job keywords that also appear in the resume.
func Compare(resumeText, jobDescription string) KeywordReport {
	jobKeywords := Keywords(jobDescription)
	resumeKeywords := Keywords(resumeText)

	inResume := make(map[string]bool, len(resumeKeywords))
	for _, k := range resumeKeywords {
		inResume[k] = true
	}

	var matching []string
	for _, k := range jobKeywords {
		if inResume[k] {
			matching = append(matching, k)
		}
	}

	report := KeywordReport{
		ResumeWordCount:  len(strings.Fields(resumeText)),
		JobWordCount:     len(strings.Fields(jobDescription)),
		JobKeywords:      top(jobKeywords),
		ResumeKeywords:   top(resumeKeywords),
		MatchingKeywords: top(matching),
	}
	if len(jobKeywords) > 0 {
		report.MatchPercentage = float64(len(matching)) / float64(len(jobKeywords)) * 100
	}
	return report
}

// Keywords returns the distinct keywords of text, most frequent first. Ties
// keep first-appearance order.
func Keywords(text string) []string {
	freq := make(map[string]int)
	var order []string

	for _, word := range strings.Fields(strings.ToLower(text)) {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
				return r
			}
			return -1
		}, word)
		if len([]rune(clean)) <= minKeywordLength || stopWords[clean] {
			continue
		}
		if freq[clean] == 0 {
			order = append(order, clean)
		}
		freq[clean]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	return order
}

func top(keywords []string) []string {
	if len(keywords) > TopKeywords {
		keywords = keywords[:TopKeywords]
	}
	if keywords == nil {
		return []string{}
	}
	return keywords
}
