package ingestion

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

// buildPDF assembles a minimal single-font PDF with one page per entry.
// Empty entries produce pages with an empty content stream.
func buildPDF(t *testing.T, pages []string) []byte {
	t.Helper()

	n := len(pages)
	fontID := 3 + 2*n
	objects := make([]string, 0, fontID)

	kids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
	)
	for i, text := range pages {
		pageID := 3 + 2*i
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>",
			pageID+1, fontID))
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	return buf.Bytes()
}

// buildDOCX zips a word/document.xml whose paragraphs hold the given runs.
func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestExtract_PDF(t *testing.T) {
	data := buildPDF(t, []string{"Hello PDF World"})

	text, err := Extract(types.SourceDocument{Data: data, Extension: "pdf", Filename: "resume.pdf"})
	require.NoError(t, err)
	assert.Contains(t, text, "Hello PDF World")
}

func TestExtract_PDFEmptyPageIsNotAnError(t *testing.T) {
	data := buildPDF(t, []string{"First page", ""})

	text, err := Extract(types.SourceDocument{Data: data, Extension: "pdf"})
	require.NoError(t, err)
	assert.Contains(t, text, "First page")
}

func TestExtract_PDFCorrupt(t *testing.T) {
	_, err := Extract(types.SourceDocument{Data: []byte("this is not a pdf"), Extension: "pdf"})

	var corrupt *CorruptDocumentError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, ExtPDF, corrupt.Format)
}

func TestExtract_DOCX(t *testing.T) {
	data := buildDOCX(t, "Jane Doe", "Senior Engineer", "Built things")

	text, err := Extract(types.SourceDocument{Data: data, Extension: ".DOCX"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Engineer\nBuilt things", text)
}

func TestExtract_DOCXCorrupt(t *testing.T) {
	_, err := Extract(types.SourceDocument{Data: []byte("PK but not really"), Extension: "docx"})

	var corrupt *CorruptDocumentError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, ExtDOCX, corrupt.Format)
}

func TestExtract_DOCXMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Extract(types.SourceDocument{Data: buf.Bytes(), Extension: "docx"})

	var corrupt *CorruptDocumentError
	require.ErrorAs(t, err, &corrupt)
	assert.Contains(t, corrupt.Error(), "document.xml not found")
}

func TestExtract_TXT(t *testing.T) {
	text, err := Extract(types.SourceDocument{Data: []byte("plain résumé\nsecond line"), Extension: "txt"})
	require.NoError(t, err)
	assert.Equal(t, "plain résumé\nsecond line", text)
}

func TestExtract_TXTInvalidUTF8(t *testing.T) {
	_, err := Extract(types.SourceDocument{Data: []byte{0xff, 0xfe, 0xfd}, Extension: "txt"})

	var corrupt *CorruptDocumentError
	assert.ErrorAs(t, err, &corrupt)
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	for _, ext := range []string{"odt", "", "rtf", "pdf.exe"} {
		_, err := Extract(types.SourceDocument{Data: []byte("data"), Extension: ext})
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "extension %q", ext)
	}
}

func TestExtractFile_DOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.docx")
	require.NoError(t, os.WriteFile(path, buildDOCX(t, "Line one", "Line two"), 0644))

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", text)
}

func TestNewSourceDocument(t *testing.T) {
	doc := NewSourceDocument("My Resume.PDF", []byte("x"))
	assert.Equal(t, "pdf", doc.Extension)
	assert.Equal(t, "My Resume.PDF", doc.Filename)
	assert.True(t, IsSupported("a.docx"))
	assert.False(t, IsSupported("a.doc"))
}
