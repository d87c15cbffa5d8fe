package types

// Diagnostic describes the outcome of a job posting extraction.
type Diagnostic string

// Extraction diagnostics.
const (
	DiagnosticOK           Diagnostic = "OK"
	DiagnosticTooShort     Diagnostic = "TOO_SHORT"
	DiagnosticBlocked      Diagnostic = "BLOCKED"
	DiagnosticNotFound     Diagnostic = "NOT_FOUND"
	DiagnosticNetworkError Diagnostic = "NETWORK_ERROR"
)

// ExtractionResult is the structured outcome of scraping a job posting URL.
// Success implies Text is at least the configured minimum length; a failed
// result never carries text.
type ExtractionResult struct {
	Success       bool       `json:"success"`
	Text          string     `json:"job_description"`
	Diagnostic    Diagnostic `json:"diagnostic"`
	SourceURLUsed string     `json:"url_used"`
	Message       string     `json:"message"`
	Strategy      string     `json:"strategy,omitempty"`
}

// ErrorKind maps the diagnostic to the shared failure taxonomy.
func (r ExtractionResult) ErrorKind() ErrorKind {
	switch r.Diagnostic {
	case DiagnosticOK:
		return ErrorKindNone
	case DiagnosticTooShort:
		return ErrorKindTooShort
	case DiagnosticBlocked:
		return ErrorKindBlocked
	case DiagnosticNotFound:
		return ErrorKindNotFound
	default:
		return ErrorKindNetworkError
	}
}
