package scraping

import (
	"fmt"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ManualPasteSuggestion is appended to every failure message.
const ManualPasteSuggestion = "Please copy and paste the job description in the text area instead."

// siteLabels maps strategy names to display names used in messages.
var siteLabels = map[string]string{
	"linkedin":  "LinkedIn",
	"indeed":    "Indeed",
	"glassdoor": "Glassdoor",
}

// DiagnosticForStatus maps an HTTP status code from a failed fetch to a diagnostic.
// A zero status means no response was received.
func DiagnosticForStatus(status int) types.Diagnostic {
	switch status {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusUnavailableForLegalReasons, 999:
		return types.DiagnosticBlocked
	case http.StatusNotFound, http.StatusGone:
		return types.DiagnosticNotFound
	default:
		return types.DiagnosticNetworkError
	}
}

// FailureMessage builds the human-readable explanation for a failed scrape.
func FailureMessage(site string, diagnostic types.Diagnostic) string {
	label, known := siteLabels[site]
	if !known {
		label = "this site"
	}

	var reason string
	switch diagnostic {
	case types.DiagnosticBlocked:
		if known {
			reason = fmt.Sprintf("%s is blocking automated access.", label)
		} else {
			reason = "The site is blocking automated access."
		}
	case types.DiagnosticNotFound:
		if known {
			reason = fmt.Sprintf("%s job posting not found. Please check the URL and try again.", label)
		} else {
			reason = "Could not find a job description on this page."
		}
	case types.DiagnosticTooShort:
		reason = fmt.Sprintf("The text extracted from %s is too short to be a job description.", label)
	default:
		if known {
			reason = fmt.Sprintf("%s job extraction failed.", label)
		} else {
			reason = "Could not extract the job description from this site."
		}
	}
	return reason + " " + ManualPasteSuggestion
}
