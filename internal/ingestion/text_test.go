package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \n  \n  ", ""},
		{"headings kept", "# Title\n## Subtitle\nContent here", "# Title\n## Subtitle\nContent here"},
		{"bullets kept", "- Item 1\n- Item 2\n* Item 3", "- Item 1\n- Item 2\n* Item 3"},
		{"inner spaces collapsed", "Line    with \t multiple    spaces", "Line with multiple spaces"},
		{"blank runs capped at one", "Line 1\n\n\n\n\nLine 2", "Line 1\n\nLine 2"},
		{"line endings normalized", "Line 1\r\nLine 2\rLine 3\nLine 4", "Line 1\nLine 2\nLine 3\nLine 4"},
		{"plain indentation dropped", "    Indented line\n  Less indented", "Indented line\nLess indented"},
		{"nested bullet keeps indent", "Skills\n    - Go\n  # Heading", "Skills\n    - Go\n# Heading"},
		{"unicode untouched", "Test with \u00e9mojis \U0001F680 and sp\u00e9ci\u00e0l", "Test with \u00e9mojis \U0001F680 and sp\u00e9ci\u00e0l"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_CollapsesNonBreakingSpaces(t *testing.T) {
	result := CleanText("Senior\u00a0\u00a0Engineer\u00a0role")
	assert.Equal(t, "Senior Engineer role", result)
}

func TestCleanText_Idempotent(t *testing.T) {
	input := "  # Heading  \n\n\n\n  - bullet   one\r\nplain    text\t\there  "
	once := CleanText(input)
	assert.Equal(t, once, CleanText(once))
}

func TestMeetsMinimumLength(t *testing.T) {
	assert.True(t, MeetsMinimumLength(strings.Repeat("a", MinResumeLength), MinResumeLength))
	assert.False(t, MeetsMinimumLength(strings.Repeat("a", MinResumeLength-1), MinResumeLength))
	assert.False(t, MeetsMinimumLength("   \n  ", 1))
}

func TestIngestFromFile_Success(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "resume.txt")
	err := os.WriteFile(testFile, []byte("# Jane Doe\n\n\n\nBackend   engineer"), 0644)
	require.NoError(t, err)

	cleanedText, metadata, err := IngestFromFile(testFile)
	require.NoError(t, err)

	assert.Equal(t, "# Jane Doe\n\nBackend engineer", cleanedText)
	require.NotNil(t, metadata)
	assert.Equal(t, "resume.txt", metadata.Source)
	assert.Len(t, metadata.Hash, 64)
	assert.NotEmpty(t, metadata.Timestamp)
}

func TestIngestFromFile_FileNotFound(t *testing.T) {
	cleanedText, metadata, err := IngestFromFile("/nonexistent/file.txt")

	assert.Error(t, err)
	assert.Empty(t, cleanedText)
	assert.Nil(t, metadata)
	assert.Contains(t, err.Error(), "file not found")
}

func TestIngestFromFile_UnsupportedExtension(t *testing.T) {
	_, _, err := IngestFromFile("/tmp/resume.odt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestIngestFromFile_HashFollowsCleanedText(t *testing.T) {
	dir := t.TempDir()
	var hashes []string
	for i, content := range []string{"Content   1", "Content 1\r\n", "Content 2"} {
		path := filepath.Join(dir, fmt.Sprintf("resume%d.txt", i))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, metadata, err := IngestFromFile(path)
		require.NoError(t, err)
		hashes = append(hashes, metadata.Hash)
	}

	assert.Equal(t, hashes[0], hashes[1], "whitespace differences clean to the same text")
	assert.NotEqual(t, hashes[0], hashes[2])
}

func TestWriteOutput_CreatesFiles(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested", "out")
	metadata := NewMetadata("Job content", "https://example.com/job")
	metadata.Strategy = "linkedin"

	require.NoError(t, WriteOutput(outDir, "job_posting", "Job content", metadata))

	text, err := os.ReadFile(filepath.Join(outDir, "job_posting.cleaned.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Job content", string(text))

	meta, err := os.ReadFile(filepath.Join(outDir, "job_posting.meta.json"))
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"strategy": "linkedin"`)
	assert.Contains(t, string(meta), `"url": "https://example.com/job"`)
}
