package prompts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// TasksFile holds the templates for every generation task.
const TasksFile = "tasks.json"

// DefaultTone is used for cover letters when no tone is requested.
const DefaultTone = "professional"

// Build errors
var (
	ErrUnknownTask = errors.New("unknown generation task")
	ErrEmptyInput  = errors.New("missing input text")
)

// taskSpec binds a task to its template keys and default parameters.
type taskSpec struct {
	system      string
	user        string
	temperature float32
	maxTokens   int32
	json        bool
}

var taskSpecs = map[types.Task]taskSpec{
	types.TaskTailor:              {system: "tailor-system", user: "tailor-user", temperature: 0.7, maxTokens: 1000},
	types.TaskGenerateResume:      {system: "generate-resume-system", user: "generate-resume-user", temperature: 0.7, maxTokens: 1500},
	types.TaskGenerateCoverLetter: {system: "cover-letter-system", user: "cover-letter-user", temperature: 0.7, maxTokens: 800},
	types.TaskAnalyze:             {system: "analyze-system", user: "analyze-user", temperature: 0.3, maxTokens: 1000, json: true},
}

// Extra carries optional inputs and parameter overrides.
type Extra struct {
	CompanyName string
	Tone        string
	Model       string
	Temperature *float32
	MaxTokens   *int32
}

// Build assembles the generation request for a task. contextText is the
// candidate material (resume text or formatted profile) and targetText is the
// job description. Build is pure; it only reads embedded templates.
func Build(task types.Task, contextText, targetText string, extra Extra) (types.GenerationRequest, error) {
	spec, ok := taskSpecs[task]
	if !ok {
		return types.GenerationRequest{}, fmt.Errorf("%w: %q", ErrUnknownTask, task)
	}

	contextText = strings.TrimSpace(contextText)
	targetText = strings.TrimSpace(targetText)
	if contextText == "" {
		return types.GenerationRequest{}, fmt.Errorf("%w: resume or profile text is empty", ErrEmptyInput)
	}
	if targetText == "" {
		return types.GenerationRequest{}, fmt.Errorf("%w: job description is empty", ErrEmptyInput)
	}

	templates, err := Tasks()
	if err != nil {
		return types.GenerationRequest{}, err
	}
	system, err := templates.Lookup(spec.system)
	if err != nil {
		return types.GenerationRequest{}, err
	}
	user, err := templates.Lookup(spec.user)
	if err != nil {
		return types.GenerationRequest{}, err
	}

	tone := strings.TrimSpace(extra.Tone)
	if tone == "" {
		tone = DefaultTone
	}
	companyClause := ""
	if company := strings.TrimSpace(extra.CompanyName); company != "" {
		companyClause = " at " + company
	}

	prompt := Format(user, map[string]string{
		"JobDescription": targetText,
		"Resume":         contextText,
		"Tone":           tone,
		"CompanyClause":  companyClause,
	})

	params := types.GenerationParams{
		Model:       extra.Model,
		Temperature: spec.temperature,
		MaxTokens:   spec.maxTokens,
		JSON:        spec.json,
	}
	if extra.Temperature != nil {
		params.Temperature = *extra.Temperature
	}
	if extra.MaxTokens != nil && *extra.MaxTokens > 0 {
		params.MaxTokens = *extra.MaxTokens
	}

	return types.GenerationRequest{
		Task:         task,
		ContextText:  contextText,
		TargetText:   targetText,
		SystemPrompt: system,
		Prompt:       prompt,
		Params:       params,
	}, nil
}
