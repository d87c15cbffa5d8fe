package rendering

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// maxHeaderLength is the longest first line still treated as the candidate's name.
	maxHeaderLength = 100
	// contactScanLines bounds how far below the header contact details are looked for.
	contactScanLines = 10
	// maxHeadingLength is the longest line that can open a new section.
	maxHeadingLength = 60
	// contactSeparator joins contact lines into one subtitle.
	contactSeparator = " | "
)

// SectionRule maps a resume section to the keywords that identify its heading line.
type SectionRule struct {
	Name     string
	Keywords []string
}

// SectionRules is evaluated top to bottom; the first rule with a matching keyword wins.
// Append to it to recognize additional heading styles.
var SectionRules = []SectionRule{
	{Name: "Professional Summary", Keywords: []string{"summary", "objective", "profile", "professional summary"}},
	{Name: "Work Experience", Keywords: []string{"experience", "employment", "work history", "work experience", "professional experience"}},
	{Name: "Education", Keywords: []string{"education", "academic", "qualifications"}},
	{Name: "Skills", Keywords: []string{"skills", "technical skills", "competencies", "technologies"}},
}

// DefaultSectionName collects lines seen before any recognized heading.
const DefaultSectionName = "Other"

// headerExclusions are words that disqualify the first line from being the name.
var headerExclusions = []string{"experience", "education", "skills", "summary"}

var contactIndicators = []string{"@", "phone", "email", "linkedin", "github", ".com"}

var bulletGlyphs = []string{"-", "•", "*", "◦"}

// ParseSections infers the structure of generated resume text. Sections are
// returned in source line order.
func ParseSections(content string) []types.Section {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var sections []types.Section

	i := skipBlank(lines, 0)
	if i < len(lines) {
		first := strings.TrimSpace(lines[i])
		if len(first) < maxHeaderLength && !containsAny(strings.ToLower(first), headerExclusions) {
			sections = append(sections, types.Section{Kind: types.SectionHeader, Text: first})
			i++
		}
	}

	contact, next := scanContact(lines, i)
	if len(contact) > 0 {
		sections = append(sections, types.Section{Kind: types.SectionContact, Text: strings.Join(contact, contactSeparator)})
		i = next
	}

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if _, ok := MatchSection(line); ok {
			sections = append(sections, types.Section{Kind: types.SectionTitle, Text: headingText(line)})
			continue
		}
		if isBullet(line) {
			text := strings.TrimSpace(strings.TrimLeft(line, "-•*◦ "))
			if text == "" {
				continue
			}
			sections = append(sections, types.Section{Kind: types.SectionBullet, Text: "• " + text})
			continue
		}
		sections = append(sections, types.Section{Kind: types.SectionBody, Text: line})
	}

	return sections
}

// MatchSection reports which rule, if any, treats line as a section heading.
func MatchSection(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || len(line) > maxHeadingLength || isBullet(line) {
		return "", false
	}
	lower := strings.ToLower(line)
	for _, rule := range SectionRules {
		if lower == strings.ToLower(rule.Name) || containsAny(lower, rule.Keywords) {
			return rule.Name, true
		}
	}
	return "", false
}

// scanContact collects contiguous contact lines starting at start. Blank lines
// are skipped; the first non-blank line without an indicator ends the scan.
func scanContact(lines []string, start int) ([]string, int) {
	var contact []string
	next := start
	limit := start + contactScanLines
	for j := start; j < len(lines) && j < limit; j++ {
		line := strings.TrimSpace(lines[j])
		if line == "" {
			continue
		}
		if !containsAny(strings.ToLower(line), contactIndicators) {
			break
		}
		contact = append(contact, line)
		next = j + 1
	}
	return contact, next
}

func headingText(line string) string {
	return strings.ToUpper(strings.TrimRight(strings.TrimSpace(line), ":"))
}

func isBullet(line string) bool {
	for _, g := range bulletGlyphs {
		if strings.HasPrefix(line, g) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func skipBlank(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return i
}
