package ingestion

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when a document extension is not pdf, docx or txt.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// CorruptDocumentError is returned when the underlying parser cannot read the document structure.
type CorruptDocumentError struct {
	Format  string
	Message string
	Cause   error
}

func (e *CorruptDocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt %s document: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("corrupt %s document: %s", e.Format, e.Message)
}

func (e *CorruptDocumentError) Unwrap() error {
	return e.Cause
}
