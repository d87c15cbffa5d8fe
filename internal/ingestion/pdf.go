package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates per-page text with newlines. Pages that yield no
// text contribute an empty line rather than an error.
func extractPDF(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", &CorruptDocumentError{Format: ExtPDF, Message: "empty document"}
	}

	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &CorruptDocumentError{Format: ExtPDF, Message: fmt.Sprintf("parser panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &CorruptDocumentError{Format: ExtPDF, Message: "failed to open document", Cause: err}
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			pageText = ""
		}
		pages = append(pages, strings.TrimRight(pageText, " \n"))
	}

	return strings.Join(pages, "\n"), nil
}
