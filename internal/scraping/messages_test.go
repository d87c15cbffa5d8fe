package scraping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-tailor/internal/types"
)

func TestDiagnosticForStatus(t *testing.T) {
	tests := map[int]types.Diagnostic{
		0:   types.DiagnosticNetworkError,
		403: types.DiagnosticBlocked,
		429: types.DiagnosticBlocked,
		999: types.DiagnosticBlocked,
		404: types.DiagnosticNotFound,
		410: types.DiagnosticNotFound,
		500: types.DiagnosticNetworkError,
		502: types.DiagnosticNetworkError,
	}
	for status, want := range tests {
		assert.Equal(t, want, DiagnosticForStatus(status), "status %d", status)
	}
}

func TestFailureMessage(t *testing.T) {
	msg := FailureMessage("linkedin", types.DiagnosticBlocked)
	assert.Contains(t, msg, "LinkedIn is blocking automated access")
	assert.Contains(t, msg, ManualPasteSuggestion)

	msg = FailureMessage(GenericStrategy, types.DiagnosticNetworkError)
	assert.Contains(t, msg, "Could not extract the job description")
	assert.Contains(t, msg, "copy and paste")

	msg = FailureMessage("indeed", types.DiagnosticTooShort)
	assert.Contains(t, msg, "Indeed")
}
