package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveResumePlaceholders_StandaloneLineRemoved(t *testing.T) {
	content := "Jane Roe\n[Company Name]\nSenior Engineer"
	assert.Equal(t, "Jane Roe\nSenior Engineer", RemoveResumePlaceholders(content))
}

func TestRemoveResumePlaceholders_InlineRemoved(t *testing.T) {
	content := "Engineer at [Company Name], [Location]\nGraduated [Graduation Year]"
	result := RemoveResumePlaceholders(content)
	assert.NotContains(t, result, "[")
	assert.Contains(t, result, "Engineer at")
}

func TestRemoveResumePlaceholders_DropsBlankLines(t *testing.T) {
	content := "Jane Roe\n\n\nSummary\n   \nDid things"
	assert.Equal(t, "Jane Roe\nSummary\nDid things", RemoveResumePlaceholders(content))
}

func TestRemoveResumePlaceholders_UnknownBracketsKept(t *testing.T) {
	content := "Skills [advanced]"
	assert.Equal(t, content, RemoveResumePlaceholders(content))
}

func TestCleanCoverLetter_MidSentencePlaceholderPreserved(t *testing.T) {
	content := "Dear Hiring Manager,\n\nI am excited to join [Company Name] as an engineer."
	assert.Equal(t, content, CleanCoverLetter(content))
}

func TestCleanCoverLetter_StandalonePlaceholdersRemoved(t *testing.T) {
	content := "[Your Name]\n[Date]\n  [Email Address]  \nDear Hiring Manager,\n\nBody text."
	result := CleanCoverLetter(content)
	assert.Equal(t, "Dear Hiring Manager,\n\nBody text.", result)
}

func TestCleanCoverLetter_TrailingMetadataCut(t *testing.T) {
	content := "Dear Team,\n\nI would love to help.\n\nSincerely,\nJane\n---\nNotes: tailored for tone"
	result := CleanCoverLetter(content)
	assert.Equal(t, "Dear Team,\n\nI would love to help.\n\nSincerely,\nJane", result)
}

func TestCleanCoverLetter_InlineDashesKept(t *testing.T) {
	content := "Dear Hiring Manager,\n\nFrom 2019---2021 I led the payments team --- and shipped weekly.\n\nSincerely,\nJane"
	assert.Equal(t, content, CleanCoverLetter(content))

	withNotes := content + "\n  ---  \nWord count: 42"
	assert.Equal(t, content, CleanCoverLetter(withNotes))
}

func TestCleanCoverLetter_CommentaryLinesDropped(t *testing.T) {
	content := "Dear Team,\nThis cover letter highlights my fit.\nRegards"
	assert.Equal(t, "Dear Team,\nRegards", CleanCoverLetter(content))
}

func TestParagraphs(t *testing.T) {
	content := "Dear Team,\n\nFirst line\nwrapped here.\n\n\n  Second   paragraph.  \n"
	assert.Equal(t, []string{"Dear Team,", "First line wrapped here.", "Second paragraph."}, Paragraphs(content))
}
