package rendering

import (
	"regexp"
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
)

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+_(Resume|Cover_Letter)_\d{8}_\d{6}_[0-9a-f]{8}\.(pdf|txt)$`)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "John Doe", "John_Doe"},
		{"punctuation stripped", "Dr. Jane O'Neil, PhD", "Dr_Jane_ONeil_PhD"},
		{"hyphens and runs", "Mary-Jane   Watson", "Mary_Jane_Watson"},
		{"surrounding space", "  Ada  ", "Ada"},
		{"empty falls back", "", "Resume"},
		{"only symbols falls back", "!!!", "Resume"},
		{"non ascii dropped", "José Núñez", "Jos_Nez"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestFilename_Pattern(t *testing.T) {
	name := Filename("John Doe", types.DocKindResume, types.FormatPDF, fixedNow, "0a1b2c3d")
	assert.Equal(t, "John_Doe_Resume_20240305_143045_0a1b2c3d.pdf", name)
	assert.Regexp(t, filenamePattern, name)

	letter := Filename("Jane", types.DocKindCoverLetter, types.FormatText, fixedNow, RandomSuffix())
	assert.Regexp(t, filenamePattern, letter)
}

func TestRandomSuffix(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := RandomSuffix()
		assert.Regexp(t, `^[0-9a-f]{8}$`, s)
		seen[s] = true
	}
	assert.Greater(t, len(seen), 45)
}
