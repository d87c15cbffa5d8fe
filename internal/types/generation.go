package types

// Task identifies which generation prompt to build.
type Task string

// Generation tasks.
const (
	TaskTailor              Task = "TAILOR"
	TaskGenerateResume      Task = "GENERATE_RESUME"
	TaskGenerateCoverLetter Task = "GENERATE_COVER_LETTER"
	TaskAnalyze             Task = "ANALYZE"
)

// Valid reports whether t is a known task.
func (t Task) Valid() bool {
	switch t {
	case TaskTailor, TaskGenerateResume, TaskGenerateCoverLetter, TaskAnalyze:
		return true
	}
	return false
}

// GenerationParams are the model parameters sent with a request.
type GenerationParams struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int32   `json:"max_tokens"`
	JSON        bool    `json:"json,omitempty"`
}

// GenerationRequest is an immutable, fully built prompt for one task.
type GenerationRequest struct {
	Task         Task             `json:"task"`
	ContextText  string           `json:"context_text"`
	TargetText   string           `json:"target_text"`
	SystemPrompt string           `json:"system_prompt,omitempty"`
	Prompt       string           `json:"prompt"`
	Params       GenerationParams `json:"params"`
}

// GenerationResult is the outcome of a generation call.
type GenerationResult struct {
	Success     bool      `json:"success"`
	Content     string    `json:"content,omitempty"`
	ErrorKind   ErrorKind `json:"error_kind,omitempty"`
	ErrorDetail string    `json:"error_detail,omitempty"`
}
