package rendering

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	filenameTimeLayout = "20060102_150405"
	defaultBaseName    = "Resume"
)

var (
	unsafeNameChars = regexp.MustCompile(`[^\w\s-]`)
	nameSeparators  = regexp.MustCompile(`[-\s]+`)
)

// SanitizeName reduces a display name to letters, digits and underscores.
// Empty results fall back to "Resume".
func SanitizeName(name string) string {
	safe := strings.TrimSpace(unsafeNameChars.ReplaceAllString(name, ""))
	safe = strings.Trim(nameSeparators.ReplaceAllString(safe, "_"), "_")
	if safe == "" {
		return defaultBaseName
	}
	return safe
}

// Filename builds <SanitizedName>_<Kind>_<YYYYMMDD_HHMMSS>_<suffix>.<ext>.
func Filename(name string, kind types.DocKind, format types.DocumentFormat, now time.Time, suffix string) string {
	return fmt.Sprintf("%s_%s_%s_%s.%s", SanitizeName(name), kind, now.Format(filenameTimeLayout), suffix, format.Extension())
}

// RandomSuffix returns 8 lowercase hex characters so two documents rendered
// in the same second get distinct names.
func RandomSuffix() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
