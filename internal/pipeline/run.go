// Package pipeline provides the high-level orchestration for the resume generation process.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/scraping"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Mode selects what a run produces.
type Mode string

// Run modes.
const (
	// ModeTailor rewrites an uploaded or pasted resume for the job.
	ModeTailor Mode = "TAILOR"
	// ModeGenerate writes a resume from a structured profile.
	ModeGenerate Mode = "GENERATE"
	// ModeCoverLetter writes only a cover letter.
	ModeCoverLetter Mode = "COVER_LETTER"
	// ModeAnalyze scores resume fit without rendering anything.
	ModeAnalyze Mode = "ANALYZE"
)

// Document labels used in progress events and results.
const (
	DocumentResume      = "resume"
	DocumentCoverLetter = "cover_letter"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Stage    Stage  `json:"stage"`
	Document string `json:"document,omitempty"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Generator produces text for a built prompt.
type Generator interface {
	Generate(ctx context.Context, req types.GenerationRequest) types.GenerationResult
}

// RunRecorder persists run history. Recording failures never fail a run.
type RunRecorder interface {
	CreateRun(ctx context.Context, mode, jobURL string) (uuid.UUID, error)
	CompleteRun(ctx context.Context, runID uuid.UUID, errorKind, errorMessage string, documents []string) error
}

// Dependencies are the collaborators a run may need. Any of them may be nil;
// a stage that needs a missing collaborator fails with ServiceUnavailable.
type Dependencies struct {
	Extractor scraping.Extractor
	Generator Generator
	Renderer  rendering.Renderer
	// Fallback is tried exactly once when Renderer is nil or fails.
	Fallback rendering.Renderer
	Recorder RunRecorder
}

// Options holds thresholds and logging switches.
type Options struct {
	MinJobDescriptionLength int
	MinResumeLength         int
	Verbose                 bool
}

// DefaultOptions returns the documented thresholds.
func DefaultOptions() Options {
	return Options{
		MinJobDescriptionLength: scraping.MinJobDescriptionLength,
		MinResumeLength:         ingestion.MinResumeLength,
	}
}

// Request is one caller submission.
type Request struct {
	Mode Mode
	// ResumeFile is an uploaded resume; ResumeText takes precedence when both are set.
	ResumeFile *types.SourceDocument
	ResumeText string
	UserInfo   *types.UserInfo

	JobDescription string
	JobURL         string

	// Name is used in output filenames; defaults to the profile name or "Resume".
	Name        string
	CompanyName string
	Tone        string
	Temperature *float32
	MaxTokens   *int32

	// IncludeCoverLetter adds a second GENERATE+RENDER pass after a resume.
	IncludeCoverLetter bool
	// TextOnly returns generated text without rendering a document.
	TextOnly bool

	OnProgress ProgressCallback
}

// DocumentResult is the outcome for one generated document.
type DocumentResult struct {
	Success      bool                    `json:"success"`
	Content      string                  `json:"content,omitempty"`
	Document     *types.RenderedDocument `json:"document,omitempty"`
	UsedFallback bool                    `json:"used_fallback,omitempty"`
	ErrorKind    types.ErrorKind         `json:"error_kind,omitempty"`
	Message      string                  `json:"message,omitempty"`
}

// Result is the descriptor returned for every run. Failures are reported in
// the result, never as a Go error.
type Result struct {
	Success bool  `json:"success"`
	Stage   Stage `json:"stage"`
	// FailedAt is the stage that was active when the run failed.
	FailedAt  Stage           `json:"failed_at,omitempty"`
	ErrorKind types.ErrorKind `json:"error_kind,omitempty"`
	Message   string          `json:"message,omitempty"`
	// NeedsManualInput tells the caller to ask the user to paste the job text.
	NeedsManualInput bool             `json:"needs_manual_input,omitempty"`
	Diagnostic       types.Diagnostic `json:"diagnostic,omitempty"`

	JobDescription string                  `json:"job_description,omitempty"`
	Resume         *DocumentResult         `json:"resume,omitempty"`
	CoverLetter    *DocumentResult         `json:"cover_letter,omitempty"`
	Analysis       *types.FitAnalysis      `json:"analysis,omitempty"`
	Keywords       *analysis.KeywordReport `json:"keywords,omitempty"`
	RunID          string                  `json:"run_id,omitempty"`
}

// Documents returns the filenames of every rendered document.
func (r *Result) Documents() []string {
	var names []string
	for _, d := range []*DocumentResult{r.Resume, r.CoverLetter} {
		if d != nil && d.Document != nil {
			names = append(names, d.Document.Filename)
		}
	}
	return names
}

// Orchestrator sequences the stages of a run. It keeps no state between runs
// and is safe for concurrent use.
type Orchestrator struct {
	deps Dependencies
	opts Options
}

// New creates an Orchestrator. Zero thresholds fall back to the defaults.
func New(deps Dependencies, opts Options) *Orchestrator {
	defaults := DefaultOptions()
	if opts.MinJobDescriptionLength <= 0 {
		opts.MinJobDescriptionLength = defaults.MinJobDescriptionLength
	}
	if opts.MinResumeLength <= 0 {
		opts.MinResumeLength = defaults.MinResumeLength
	}
	return &Orchestrator{deps: deps, opts: opts}
}

// run is the transient working state of one request.
type run struct {
	o         *Orchestrator
	req       Request
	stage     Stage
	result    Result
	runID     uuid.UUID
	candidate string
}

// Run executes a request to completion and returns its result descriptor.
func (o *Orchestrator) Run(ctx context.Context, req Request) Result {
	if req.Mode == "" {
		req.Mode = ModeTailor
	}
	r := &run{o: o, req: req, stage: StageStart}
	r.result.Stage = StageStart
	r.start(ctx)

	if r.resolveJobDescription(ctx) && r.validate() {
		r.execute(ctx)
	}

	r.finish(ctx)
	return r.result
}

func (r *run) start(ctx context.Context) {
	if rec := r.o.deps.Recorder; rec != nil {
		id, err := rec.CreateRun(ctx, string(r.req.Mode), r.req.JobURL)
		if err != nil {
			log.Printf("[pipeline] Warning: failed to record run: %v", err)
		} else {
			r.runID = id
			r.result.RunID = id.String()
		}
	}
	r.emit("", fmt.Sprintf("Starting %s run", strings.ToLower(string(r.req.Mode))), nil)
}

// advance moves to the next stage. An illegal transition is a programming error.
func (r *run) advance(to Stage) {
	if err := ValidateTransition(r.stage, to); err != nil {
		panic(err)
	}
	r.stage = to
	r.result.Stage = to
}

func (r *run) fail(kind types.ErrorKind, message string) bool {
	r.result.FailedAt = r.stage
	r.result.ErrorKind = kind
	r.result.Message = message
	r.result.Success = false
	r.advance(StageFailed)
	r.emit("", message, nil)
	log.Printf("[pipeline] %s failed at %s: %s", r.req.Mode, r.result.FailedAt, message)
	return false
}

func (r *run) emit(document, message string, content any) {
	if r.o.opts.Verbose {
		log.Printf("[VERBOSE] [pipeline] %s %s %s", r.stage, document, message)
	}
	if r.req.OnProgress == nil {
		return
	}
	event := ProgressEvent{Stage: r.stage, Document: document, Message: message, Content: content}
	if r.runID != uuid.Nil {
		event.RunID = r.runID.String()
	}
	r.req.OnProgress(event)
}

func (r *run) resolveJobDescription(ctx context.Context) bool {
	r.advance(StageResolveJob)

	if text := strings.TrimSpace(r.req.JobDescription); text != "" {
		r.result.JobDescription = text
		r.emit("", "Using provided job description", nil)
		return true
	}

	if strings.TrimSpace(r.req.JobURL) == "" {
		// Nothing to resolve; VALIDATE reports the missing description.
		return true
	}

	if r.o.deps.Extractor == nil {
		return r.fail(types.ErrorKindServiceUnavailable, "job scraping is not available. "+scraping.ManualPasteSuggestion)
	}

	r.emit("", "Extracting job description from "+r.req.JobURL, nil)
	extraction := r.o.deps.Extractor.ExtractJobDescription(ctx, r.req.JobURL)
	r.result.Diagnostic = extraction.Diagnostic
	if !extraction.Success {
		r.result.NeedsManualInput = true
		message := extraction.Message
		if message == "" {
			message = "Could not extract the job description. " + scraping.ManualPasteSuggestion
		}
		return r.fail(extraction.ErrorKind(), message)
	}

	r.result.JobDescription = extraction.Text
	r.emit("", fmt.Sprintf("Extracted %d characters using %s", utf8.RuneCountInString(extraction.Text), extraction.Strategy), nil)
	return true
}

func (r *run) validate() bool {
	r.advance(StageValidate)

	if utf8.RuneCountInString(r.result.JobDescription) < r.o.opts.MinJobDescriptionLength {
		return r.fail(types.ErrorKindValidation, fmt.Sprintf(
			"Please provide a job description (at least %d characters) or a valid job URL", r.o.opts.MinJobDescriptionLength))
	}

	switch r.req.Mode {
	case ModeGenerate:
		if r.req.UserInfo == nil {
			return r.fail(types.ErrorKindValidation, "Profile information is required to generate a resume")
		}
		if err := r.req.UserInfo.Validate(); err != nil {
			return r.fail(types.ErrorKindValidation, "Invalid profile information: "+err.Error())
		}
		r.candidate = r.req.UserInfo.Format()
	case ModeTailor, ModeAnalyze, ModeCoverLetter:
		text, ok := r.resumeText()
		if !ok {
			return false
		}
		r.candidate = text
	default:
		return r.fail(types.ErrorKindValidation, fmt.Sprintf("unknown mode %q", r.req.Mode))
	}

	r.emit("", "Inputs validated", nil)
	return true
}

// resumeText resolves the candidate text for modes built on an existing
// resume. A cover letter may fall back to the structured profile.
func (r *run) resumeText() (string, bool) {
	text := strings.TrimSpace(r.req.ResumeText)

	if text == "" && r.req.ResumeFile != nil {
		extracted, err := ingestion.Extract(*r.req.ResumeFile)
		if err != nil {
			var corrupt *ingestion.CorruptDocumentError
			switch {
			case errors.Is(err, ingestion.ErrUnsupportedFormat):
				return "", r.fail(types.ErrorKindUnsupportedFormat, "Unsupported resume format. Please upload a PDF, DOCX or TXT file.")
			case errors.As(err, &corrupt):
				return "", r.fail(types.ErrorKindCorruptDocument, "Could not read the resume file: "+err.Error())
			default:
				return "", r.fail(types.ErrorKindCorruptDocument, err.Error())
			}
		}
		text = ingestion.CleanText(extracted)
	}

	if text == "" && r.req.Mode == ModeCoverLetter && r.req.UserInfo != nil {
		if err := r.req.UserInfo.Validate(); err != nil {
			return "", r.fail(types.ErrorKindValidation, "Invalid profile information: "+err.Error())
		}
		return r.req.UserInfo.Format(), true
	}

	if text == "" {
		return "", r.fail(types.ErrorKindValidation, "Please upload a resume file or provide resume text")
	}
	if !ingestion.MeetsMinimumLength(text, r.o.opts.MinResumeLength) {
		return "", r.fail(types.ErrorKindValidation, fmt.Sprintf(
			"Resume text is too short (at least %d characters required)", r.o.opts.MinResumeLength))
	}
	return text, true
}

func (r *run) execute(ctx context.Context) {
	switch r.req.Mode {
	case ModeAnalyze:
		r.analyze(ctx)
		return
	case ModeCoverLetter:
		r.result.CoverLetter = &DocumentResult{}
		if !r.produce(ctx, types.TaskGenerateCoverLetter, types.DocKindCoverLetter, r.result.CoverLetter, true) {
			return
		}
	default:
		task := types.TaskTailor
		if r.req.Mode == ModeGenerate {
			task = types.TaskGenerateResume
		}
		r.result.Resume = &DocumentResult{}
		if !r.produce(ctx, task, types.DocKindResume, r.result.Resume, true) {
			return
		}
		if r.req.IncludeCoverLetter {
			// Cover letter failures are reported on the sub-result only.
			r.result.CoverLetter = &DocumentResult{}
			r.produce(ctx, types.TaskGenerateCoverLetter, types.DocKindCoverLetter, r.result.CoverLetter, false)
		}
	}

	r.advance(StageDone)
	r.result.Success = true
	r.emit("", "Done", r.result.Documents())
}

// produce runs GENERATE and RENDER for one document. When primary is true a
// failure fails the run; otherwise it is only recorded on doc.
func (r *run) produce(ctx context.Context, task types.Task, kind types.DocKind, doc *DocumentResult, primary bool) bool {
	label := documentLabel(kind)

	r.advance(StageGenerate)
	r.emit(label, "Generating "+strings.ReplaceAll(label, "_", " "), nil)

	content, kindErr, msg := r.generate(ctx, task)
	if kindErr != types.ErrorKindNone {
		return r.documentFailed(doc, kindErr, msg, primary)
	}
	doc.Content = content

	if r.req.TextOnly {
		doc.Success = true
		r.emit(label, fmt.Sprintf("Generated %d characters", utf8.RuneCountInString(content)), nil)
		return true
	}

	r.advance(StageRender)
	r.emit(label, "Rendering document", nil)

	if r.o.deps.Renderer == nil && r.o.deps.Fallback == nil {
		return r.documentFailed(doc, types.ErrorKindServiceUnavailable, "Document rendering service is not available.", primary)
	}
	rendered, usedFallback, err := r.render(ctx, content, kind)
	if err != nil {
		return r.documentFailed(doc, types.ErrorKindRender, "Failed to render document: "+err.Error(), primary)
	}

	doc.Success = true
	doc.Document = &rendered
	doc.UsedFallback = usedFallback
	r.emit(label, "Rendered "+rendered.Filename, rendered)
	return true
}

func (r *run) documentFailed(doc *DocumentResult, kind types.ErrorKind, message string, primary bool) bool {
	doc.Success = false
	doc.ErrorKind = kind
	doc.Message = message
	if primary {
		return r.fail(kind, message)
	}
	log.Printf("[pipeline] Warning: secondary document failed (%s): %s", kind, message)
	return false
}

func (r *run) generate(ctx context.Context, task types.Task) (string, types.ErrorKind, string) {
	if r.o.deps.Generator == nil {
		return "", types.ErrorKindServiceUnavailable, "AI generation service is not available. Please check your API key."
	}

	req, err := prompts.Build(task, r.candidate, r.result.JobDescription, prompts.Extra{
		CompanyName: r.req.CompanyName,
		Tone:        r.req.Tone,
		Temperature: r.req.Temperature,
		MaxTokens:   r.req.MaxTokens,
	})
	if err != nil {
		return "", types.ErrorKindValidation, err.Error()
	}

	gen := r.o.deps.Generator.Generate(ctx, req)
	if !gen.Success {
		kind := gen.ErrorKind
		if kind == types.ErrorKindNone {
			kind = types.ErrorKindUpstream
		}
		return "", kind, "AI generation failed: " + gen.ErrorDetail
	}
	return gen.Content, types.ErrorKindNone, ""
}

// render tries the primary renderer, then the fallback exactly once.
func (r *run) render(ctx context.Context, content string, kind types.DocKind) (types.RenderedDocument, bool, error) {
	id := rendering.Identity{Name: r.displayName(), Kind: kind}

	var primaryErr error
	if r.o.deps.Renderer != nil {
		doc, err := r.o.deps.Renderer.Render(ctx, content, id)
		if err == nil {
			return doc, false, nil
		}
		primaryErr = err
		log.Printf("[pipeline] Warning: primary renderer failed, using fallback: %v", err)
	} else {
		primaryErr = errors.New("no primary renderer configured")
	}

	if r.o.deps.Fallback == nil {
		return types.RenderedDocument{}, false, primaryErr
	}
	doc, err := r.o.deps.Fallback.Render(ctx, content, id)
	if err != nil {
		return types.RenderedDocument{}, true, fmt.Errorf("%v; fallback: %w", primaryErr, err)
	}
	return doc, true, nil
}

func (r *run) analyze(ctx context.Context) {
	r.advance(StageGenerate)
	r.emit("", "Analyzing resume fit", nil)

	report := analysis.Compare(r.candidate, r.result.JobDescription)
	r.result.Keywords = &report

	content, kind, msg := r.generate(ctx, types.TaskAnalyze)
	if kind != types.ErrorKindNone {
		r.fail(kind, msg)
		return
	}

	fit, err := schemas.ParseFitAnalysis(content)
	if err != nil {
		r.fail(types.ErrorKindUpstream, "AI returned an invalid analysis: "+err.Error())
		return
	}
	r.result.Analysis = fit

	r.advance(StageDone)
	r.result.Success = true
	r.emit("", fmt.Sprintf("Match score %d", fit.MatchScore), fit)
}

func (r *run) finish(ctx context.Context) {
	rec := r.o.deps.Recorder
	if rec == nil || r.runID == uuid.Nil {
		return
	}
	if err := rec.CompleteRun(ctx, r.runID, string(r.result.ErrorKind), r.result.Message, r.result.Documents()); err != nil {
		log.Printf("[pipeline] Warning: failed to complete run %s: %v", r.runID, err)
	}
}

func (r *run) displayName() string {
	if name := strings.TrimSpace(r.req.Name); name != "" {
		return name
	}
	if r.req.UserInfo != nil && strings.TrimSpace(r.req.UserInfo.Name) != "" {
		return r.req.UserInfo.Name
	}
	return "Resume"
}

func documentLabel(kind types.DocKind) string {
	if kind == types.DocKindCoverLetter {
		return DocumentCoverLetter
	}
	return DocumentResume
}
