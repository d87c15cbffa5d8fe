// Package rendering turns generated resume and cover letter text into downloadable documents.
package rendering

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ErrEmptyContent is returned when there is nothing left to render after cleanup.
var ErrEmptyContent = errors.New("no content to render")

// TemplateError reports a problem loading, parsing or executing the layout template.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := "template error"
	if e.Template != "" {
		msg += " in " + e.Template
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError is any failure to produce a document. The pipeline treats it
// as the signal to switch to the plain-text fallback.
type RenderError struct {
	Format  types.DocumentFormat
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := "render error"
	if e.Format != "" {
		msg += " (" + strings.ToLower(string(e.Format)) + ")"
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
