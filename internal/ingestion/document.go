// Package ingestion turns uploaded resumes and job posting text into normalized plain text.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/types"
)

// MinResumeLength is the minimum number of characters an extracted resume must
// contain before it is worth sending to the generation stage.
const MinResumeLength = 50

// Supported extensions, without the leading dot.
const (
	ExtPDF  = "pdf"
	ExtDOCX = "docx"
	ExtTXT  = "txt"
)

// NormalizeExtension lowercases an extension and strips the leading dot.
func NormalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// IsSupported reports whether a filename has an extractable extension.
func IsSupported(filename string) bool {
	switch NormalizeExtension(filepath.Ext(filename)) {
	case ExtPDF, ExtDOCX, ExtTXT:
		return true
	}
	return false
}

// NewSourceDocument builds a SourceDocument, deriving the extension from the filename.
func NewSourceDocument(filename string, data []byte) types.SourceDocument {
	return types.SourceDocument{
		Data:      data,
		Extension: NormalizeExtension(filepath.Ext(filename)),
		Filename:  filename,
	}
}

// Extract pulls raw text out of a document. It has no side effects beyond reading the input.
func Extract(doc types.SourceDocument) (string, error) {
	switch NormalizeExtension(doc.Extension) {
	case ExtPDF:
		return extractPDF(doc.Data)
	case ExtDOCX:
		return extractDOCX(doc.Data)
	case ExtTXT:
		return extractTXT(doc.Data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, doc.Extension)
	}
}

// ExtractFile reads a file from disk and extracts its text.
func ExtractFile(path string) (string, error) {
	if !IsSupported(path) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return Extract(NewSourceDocument(filepath.Base(path), data))
}

func extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &CorruptDocumentError{Format: ExtTXT, Message: "content is not valid UTF-8"}
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
