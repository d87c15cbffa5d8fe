package pipeline

import "fmt"

// Stage is a state of the per-request pipeline machine.
type Stage string

// Pipeline stages. FAILED is absorbing and reachable from every non-terminal stage.
const (
	StageStart      Stage = "START"
	StageResolveJob Stage = "RESOLVE_JOB_DESCRIPTION"
	StageValidate   Stage = "VALIDATE"
	StageGenerate   Stage = "GENERATE"
	StageRender     Stage = "RENDER"
	StageDone       Stage = "DONE"
	StageFailed     Stage = "FAILED"
)

// StageDefinition lists the stages a stage may hand over to, besides FAILED.
type StageDefinition struct {
	Name Stage
	Next []Stage
}

// StageRegistry holds the transition table. GENERATE may finish directly for
// analysis and text-only runs. The cover letter of a combined run re-enters
// GENERATE after the resume.
var StageRegistry = map[Stage]StageDefinition{
	StageStart:      {Name: StageStart, Next: []Stage{StageResolveJob}},
	StageResolveJob: {Name: StageResolveJob, Next: []Stage{StageValidate}},
	StageValidate:   {Name: StageValidate, Next: []Stage{StageGenerate}},
	StageGenerate:   {Name: StageGenerate, Next: []Stage{StageRender, StageGenerate, StageDone}},
	StageRender:     {Name: StageRender, Next: []Stage{StageGenerate, StageDone}},
	StageDone:       {Name: StageDone},
	StageFailed:     {Name: StageFailed},
}

// TransitionError reports a transition the registry does not allow.
type TransitionError struct {
	From Stage
	To   Stage
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid stage transition: %s -> %s", e.From, e.To)
}

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// ValidateTransition checks that from may hand over to to.
func ValidateTransition(from, to Stage) error {
	def, ok := StageRegistry[from]
	if !ok {
		return fmt.Errorf("unknown stage: %s", from)
	}
	if to == StageFailed && !from.Terminal() {
		return nil
	}
	for _, next := range def.Next {
		if next == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}
