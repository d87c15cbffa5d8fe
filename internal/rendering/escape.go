package rendering

import "strings"

// EscapeText escapes characters that are significant to the HTML layout engine.
// Special characters: & < > " ' plus the bullet glyph and em/en dashes, which
// are written as numeric entities so the output survives any page encoding.
func EscapeText(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + len(text)/4)

	for _, r := range text {
		switch r {
		case '&':
			result.WriteString("&amp;")
		case '<':
			result.WriteString("&lt;")
		case '>':
			result.WriteString("&gt;")
		case '"':
			result.WriteString("&quot;")
		case '\'':
			result.WriteString("&#39;")
		case '•':
			result.WriteString("&#8226;")
		case '—':
			result.WriteString("&#8212;")
		case '–':
			result.WriteString("&#8211;")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
