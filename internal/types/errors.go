// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ErrorKind classifies a failure so callers can react to it without parsing messages.
type ErrorKind string

// Failure kinds reported by the extraction, scraping, generation and rendering stages.
const (
	ErrorKindNone               ErrorKind = ""
	ErrorKindUnsupportedFormat  ErrorKind = "UnsupportedFormat"
	ErrorKindCorruptDocument    ErrorKind = "CorruptDocument"
	ErrorKindNetworkError       ErrorKind = "NetworkError"
	ErrorKindNotFound           ErrorKind = "NotFound"
	ErrorKindTooShort           ErrorKind = "TooShort"
	ErrorKindBlocked            ErrorKind = "Blocked"
	ErrorKindValidation         ErrorKind = "ValidationError"
	ErrorKindUpstream           ErrorKind = "UpstreamError"
	ErrorKindUpstreamTimeout    ErrorKind = "UpstreamTimeout"
	ErrorKindRender             ErrorKind = "RenderError"
	ErrorKindServiceUnavailable ErrorKind = "ServiceUnavailable"
)
