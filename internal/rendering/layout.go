package rendering

import (
	"embed"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
)

//go:embed templates/document.html.tmpl
var templateFS embed.FS

const (
	documentTemplate = "templates/document.html.tmpl"
	letterDateLayout = "January 02, 2006"
)

// LayoutData represents the data structure passed to the HTML document template
type LayoutData struct {
	Title      string
	Letter     bool
	Date       string
	Blocks     []Block
	Paragraphs []string
}

// Block is one rendered element of a resume page
type Block struct {
	Tag   string
	Class string
	Text  string
}

// blockStyles maps each section kind to its element and CSS class
var blockStyles = map[types.SectionKind]Block{
	types.SectionHeader:  {Tag: "h1", Class: "header"},
	types.SectionContact: {Tag: "p", Class: "contact"},
	types.SectionTitle:   {Tag: "h2", Class: "section-title"},
	types.SectionBody:    {Tag: "p", Class: "body"},
	types.SectionBullet:  {Tag: "p", Class: "bullet"},
}

// BuildHTML lays out generated content as a standalone HTML page. Resumes are
// placeholder-stripped and segmented into sections; cover letters are cleaned
// and laid out as a dated sequence of paragraphs.
func BuildHTML(content string, kind types.DocKind, title string, now time.Time) (string, error) {
	tmpl, err := parseTemplate()
	if err != nil {
		return "", err
	}

	data := buildLayoutData(content, kind, title, now)

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Template: documentTemplate,
			Message:  "failed to execute template",
			Cause:    err,
		}
	}

	return result.String(), nil
}

// parseTemplate parses the embedded document template
func parseTemplate() (*template.Template, error) {
	content, err := templateFS.ReadFile(documentTemplate)
	if err != nil {
		return nil, &TemplateError{
			Template: documentTemplate,
			Message:  "template file not found",
			Cause:    err,
		}
	}

	// Parse template with the custom escape function
	tmpl, err := template.New("document").Funcs(template.FuncMap{
		"escape": EscapeText,
	}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Template: documentTemplate,
			Message:  "failed to parse template",
			Cause:    err,
		}
	}

	return tmpl, nil
}

func buildLayoutData(content string, kind types.DocKind, title string, now time.Time) *LayoutData {
	data := &LayoutData{Title: title}

	if kind == types.DocKindCoverLetter {
		data.Letter = true
		data.Date = now.Format(letterDateLayout)
		data.Paragraphs = Paragraphs(CleanCoverLetter(content))
		return data
	}

	for _, section := range ParseSections(RemoveResumePlaceholders(content)) {
		style, ok := blockStyles[section.Kind]
		if !ok {
			continue
		}
		style.Text = section.Text
		data.Blocks = append(data.Blocks, style)
	}
	return data
}
