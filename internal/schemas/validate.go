// Package schemas provides JSON Schema validation for structured model output and API payloads.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/types"
)

//go:embed *.schema.json
var schemaFS embed.FS

// Embedded schema names.
const (
	FitAnalysisSchema      = "fit_analysis.schema.json"
	ExtractionResultSchema = "extraction_result.schema.json"
)

// FieldError is one schema violation at a JSON field path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// SchemaLoadError is returned when a schema cannot be read or compiled.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	msg := fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// compiled holds embedded schemas keyed by name after first use.
var compiled sync.Map

// Schema returns the raw content of an embedded schema.
func Schema(name string) (string, error) {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return "", &SchemaLoadError{Path: name, Message: "schema not embedded", Cause: err}
	}
	return string(data), nil
}

func compile(path, content string) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "invalid schema", Cause: err}
	}
	return schema, nil
}

func embedded(name string) (*gojsonschema.Schema, error) {
	if schema, ok := compiled.Load(name); ok {
		return schema.(*gojsonschema.Schema), nil
	}
	content, err := Schema(name)
	if err != nil {
		return nil, err
	}
	schema, err := compile(name, content)
	if err != nil {
		return nil, err
	}
	actual, _ := compiled.LoadOrStore(name, schema)
	return actual.(*gojsonschema.Schema), nil
}

// ValidateJSONString validates JSON content against an ad hoc schema.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := compile("(string schema)", schemaContent)
	if err != nil {
		return err
	}
	return check(schema, jsonContent)
}

// ValidateEmbedded validates JSON content against one of the embedded schemas.
func ValidateEmbedded(name, jsonContent string) error {
	schema, err := embedded(name)
	if err != nil {
		return err
	}
	return check(schema, jsonContent)
}

// ParseFitAnalysis cleans raw ANALYZE output, validates it against the fit
// analysis schema and decodes it.
func ParseFitAnalysis(raw string) (*types.FitAnalysis, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := ValidateEmbedded(FitAnalysisSchema, cleaned); err != nil {
		return nil, err
	}

	var analysis types.FitAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode fit analysis: %w", err)
	}
	return &analysis, nil
}

func check(schema *gojsonschema.Schema, jsonContent string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := result.Errors()
	verr := &ValidationError{Errors: make([]FieldError, 0, len(violations))}
	for _, desc := range violations {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}
