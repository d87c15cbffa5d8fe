package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnsupportedUpload indicates an uploaded file with an unsupported extension
type ErrUnsupportedUpload struct {
	Filename string
}

func (e *ErrUnsupportedUpload) Error() string {
	return fmt.Sprintf("unsupported file type: %s. Please upload a PDF, DOCX, or TXT file", e.Filename)
}

// HTTPStatus returns the appropriate HTTP status code for a request parsing error
func HTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	var validation *ErrValidation
	var unsupported *ErrUnsupportedUpload
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusForKind maps a pipeline failure kind to a response status.
func HTTPStatusForKind(kind types.ErrorKind) int {
	switch kind {
	case types.ErrorKindNone:
		return http.StatusOK
	case types.ErrorKindValidation:
		return http.StatusBadRequest
	case types.ErrorKindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case types.ErrorKindCorruptDocument, types.ErrorKindTooShort, types.ErrorKindNotFound, types.ErrorKindBlocked:
		return http.StatusUnprocessableEntity
	case types.ErrorKindNetworkError, types.ErrorKindUpstream:
		return http.StatusBadGateway
	case types.ErrorKindUpstreamTimeout:
		return http.StatusGatewayTimeout
	case types.ErrorKindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		// Return first validation error for simplicity
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
