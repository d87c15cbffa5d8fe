// Package prompts builds generation requests from externalized prompt templates.
// Templates are stored as JSON files and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Templates is one parsed prompt file keyed by template name.
type Templates map[string]string

// loadTasks parses TasksFile on first use. The file is embedded, so a failure
// here is a build defect and is reported by every call.
var loadTasks = sync.OnceValues(func() (Templates, error) {
	return parseFile(TasksFile)
})

func parseFile(filename string) (Templates, error) {
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var templates Templates
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}
	return templates, nil
}

// Lookup returns the template stored under key.
func (t Templates) Lookup(key string) (string, error) {
	tmpl, ok := t[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, TasksFile)
	}
	return tmpl, nil
}

// Keys lists template names in sorted order.
func (t Templates) Keys() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Missing reports task template keys that are not defined.
func (t Templates) Missing() []string {
	var missing []string
	for _, spec := range taskSpecs {
		for _, key := range []string{spec.system, spec.user} {
			if _, ok := t[key]; !ok {
				missing = append(missing, key)
			}
		}
	}
	sort.Strings(missing)
	return missing
}

// Tasks returns the embedded task templates.
func Tasks() (Templates, error) {
	return loadTasks()
}

var placeholderRegex = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Format replaces {{.Key}} placeholders with values from data in a single pass,
// so placeholder-like text inside substituted values is left alone. Unknown
// placeholders are kept verbatim.
func Format(template string, data map[string]string) string {
	return placeholderRegex.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderRegex.FindStringSubmatch(match)[1]
		if value, ok := data[key]; ok {
			return value
		}
		return match
	})
}
