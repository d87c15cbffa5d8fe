package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/scraping"
	"github.com/jonathan/resume-tailor/internal/types"
)

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+_(Resume|Cover_Letter)_\d{8}_\d{6}_[0-9a-f]{8}\.(pdf|txt)$`)

const sampleResume = `Jane Roe
jane@example.com | linkedin.com/in/janeroe
Summary
Backend engineer with eight years of experience building payment systems.
Experience
- Led migration of billing services to Go
- Cut p99 latency by 40 percent`

var sampleJob = strings.Repeat("We are hiring a senior Go engineer to build reliable payment APIs. ", 5)

type fakeGenerator struct {
	mu       sync.Mutex
	requests []types.GenerationRequest
	results  map[types.Task]types.GenerationResult
}

func (f *fakeGenerator) Generate(_ context.Context, req types.GenerationRequest) types.GenerationResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if res, ok := f.results[req.Task]; ok {
		return res
	}
	return types.GenerationResult{Success: true, Content: "Jane Roe\njane@example.com\nSummary\nGenerated " + string(req.Task)}
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeExtractor struct {
	result types.ExtractionResult
	called int
}

func (f *fakeExtractor) ExtractJobDescription(_ context.Context, url string) types.ExtractionResult {
	f.called++
	res := f.result
	res.SourceURLUsed = url
	return res
}

type fakeEngine struct {
	err error
}

func (f *fakeEngine) PrintPDF(_ context.Context, html string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4\n" + html), nil
}

type failingRenderer struct {
	calls int
}

func (f *failingRenderer) Render(context.Context, string, rendering.Identity) (types.RenderedDocument, error) {
	f.calls++
	return types.RenderedDocument{}, &rendering.RenderError{Message: "disk full"}
}

type fakeRecorder struct {
	id        uuid.UUID
	errorKind string
	documents []string
	completed bool
}

func (f *fakeRecorder) CreateRun(context.Context, string, string) (uuid.UUID, error) {
	f.id = uuid.New()
	return f.id, nil
}

func (f *fakeRecorder) CompleteRun(_ context.Context, id uuid.UUID, errorKind, _ string, documents []string) error {
	f.completed = id == f.id
	f.errorKind = errorKind
	f.documents = documents
	return nil
}

func newDeps(t *testing.T, gen *fakeGenerator) Dependencies {
	dir := t.TempDir()
	return Dependencies{
		Generator: gen,
		Renderer:  rendering.NewPDFRenderer(&fakeEngine{}, dir, false),
		Fallback:  rendering.NewTextRenderer(dir),
	}
}

func resumeFile() *types.SourceDocument {
	doc := types.SourceDocument{Filename: "resume.txt", Extension: "txt", Data: []byte(sampleResume)}
	return &doc
}

func TestRun_TailorEndToEnd(t *testing.T) {
	gen := &fakeGenerator{}
	var stages []Stage
	o := New(newDeps(t, gen), DefaultOptions())

	result := o.Run(context.Background(), Request{
		Mode:           ModeTailor,
		ResumeFile:     resumeFile(),
		JobDescription: strings.Repeat("x", 300),
		Name:           "Jane Roe",
		OnProgress:     func(e ProgressEvent) { stages = append(stages, e.Stage) },
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, StageDone, result.Stage)
	require.NotNil(t, result.Resume)
	require.NotNil(t, result.Resume.Document)
	assert.Equal(t, types.FormatPDF, result.Resume.Document.Format)
	assert.Regexp(t, filenamePattern, result.Resume.Document.Filename)
	assert.False(t, result.Resume.UsedFallback)
	assert.Nil(t, result.CoverLetter)

	require.Equal(t, 1, gen.calls())
	assert.Equal(t, types.TaskTailor, gen.requests[0].Task)
	assert.Contains(t, gen.requests[0].Prompt, "Led migration of billing services to Go")

	assert.Equal(t, []Stage{StageStart, StageResolveJob, StageValidate, StageGenerate, StageRender, StageRender, StageDone}, stages)
}

func TestRun_UnreachableJobURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := server.URL
	server.Close()

	opts := scraping.DefaultOptions()
	opts.PoliteDelay = 0
	gen := &fakeGenerator{}
	deps := newDeps(t, gen)
	deps.Extractor = scraping.New(scraping.NewRegistry(), opts)

	var result Result
	require.NotPanics(t, func() {
		result = New(deps, DefaultOptions()).Run(context.Background(), Request{
			Mode:       ModeTailor,
			ResumeText: sampleResume,
			JobURL:     addr + "/jobs/1",
		})
	})

	assert.False(t, result.Success)
	assert.Equal(t, StageFailed, result.Stage)
	assert.Equal(t, StageResolveJob, result.FailedAt)
	assert.Equal(t, types.ErrorKindNetworkError, result.ErrorKind)
	assert.Equal(t, types.DiagnosticNetworkError, result.Diagnostic)
	assert.True(t, result.NeedsManualInput)
	assert.Contains(t, strings.ToLower(result.Message), "paste")
	assert.Zero(t, gen.calls())
}

func TestRun_ShortJobDescriptionFailsValidationBeforeAnyCall(t *testing.T) {
	gen := &fakeGenerator{}
	extractor := &fakeExtractor{}
	deps := newDeps(t, gen)
	deps.Extractor = extractor

	result := New(deps, DefaultOptions()).Run(context.Background(), Request{
		Mode:           ModeTailor,
		ResumeText:     sampleResume,
		JobDescription: "too short!",
	})

	assert.False(t, result.Success)
	assert.Equal(t, StageFailed, result.Stage)
	assert.Equal(t, StageValidate, result.FailedAt)
	assert.Equal(t, types.ErrorKindValidation, result.ErrorKind)
	assert.Zero(t, extractor.called)
	assert.Zero(t, gen.calls())
}

func TestRun_JobDescriptionLengthCountsCharacters(t *testing.T) {
	// 30 two-byte characters: long enough in bytes, too short in characters.
	result := New(newDeps(t, &fakeGenerator{}), DefaultOptions()).Run(context.Background(), Request{
		ResumeText:     sampleResume,
		JobDescription: strings.Repeat("\u00e9", 30),
	})

	assert.False(t, result.Success)
	assert.Equal(t, StageValidate, result.FailedAt)
	assert.Equal(t, types.ErrorKindValidation, result.ErrorKind)
}

func TestRun_JobURLResolved(t *testing.T) {
	gen := &fakeGenerator{}
	extractor := &fakeExtractor{result: types.ExtractionResult{Success: true, Text: sampleJob, Diagnostic: types.DiagnosticOK, Strategy: "generic:main-content"}}
	deps := newDeps(t, gen)
	deps.Extractor = extractor

	result := New(deps, DefaultOptions()).Run(context.Background(), Request{
		Mode:       ModeTailor,
		ResumeText: sampleResume,
		JobURL:     "https://jobs.example.com/1",
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, 1, extractor.called)
	assert.Equal(t, sampleJob, result.JobDescription)
	assert.Equal(t, types.DiagnosticOK, result.Diagnostic)
}

func TestRun_ProvidedTextWinsOverURL(t *testing.T) {
	extractor := &fakeExtractor{}
	deps := newDeps(t, &fakeGenerator{})
	deps.Extractor = extractor

	result := New(deps, DefaultOptions()).Run(context.Background(), Request{
		ResumeText:     sampleResume,
		JobDescription: sampleJob,
		JobURL:         "https://jobs.example.com/1",
	})

	require.True(t, result.Success, result.Message)
	assert.Zero(t, extractor.called)
}

func TestRun_ScrapeFailureCarriesDiagnostic(t *testing.T) {
	deps := newDeps(t, &fakeGenerator{})
	deps.Extractor = &fakeExtractor{result: types.ExtractionResult{
		Diagnostic: types.DiagnosticBlocked,
		Message:    "LinkedIn is blocking automated access. " + scraping.ManualPasteSuggestion,
	}}

	result := New(deps, DefaultOptions()).Run(context.Background(), Request{ResumeText: sampleResume, JobURL: "https://www.linkedin.com/jobs/view/1"})

	assert.False(t, result.Success)
	assert.Equal(t, types.ErrorKindBlocked, result.ErrorKind)
	assert.Equal(t, types.DiagnosticBlocked, result.Diagnostic)
	assert.True(t, result.NeedsManualInput)
	assert.Contains(t, result.Message, "LinkedIn")
}

func TestRun_MissingCollaboratorsAreServiceUnavailable(t *testing.T) {
	t.Run("no extractor", func(t *testing.T) {
		result := New(Dependencies{}, DefaultOptions()).Run(context.Background(), Request{ResumeText: sampleResume, JobURL: "https://example.com/job"})
		assert.Equal(t, types.ErrorKindServiceUnavailable, result.ErrorKind)
		assert.Equal(t, StageResolveJob, result.FailedAt)
	})

	t.Run("no generator", func(t *testing.T) {
		result := New(Dependencies{}, DefaultOptions()).Run(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJob})
		assert.Equal(t, types.ErrorKindServiceUnavailable, result.ErrorKind)
		assert.Equal(t, StageGenerate, result.FailedAt)
	})

	t.Run("no renderers", func(t *testing.T) {
		result := New(Dependencies{Generator: &fakeGenerator{}}, DefaultOptions()).Run(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJob})
		assert.Equal(t, types.ErrorKindServiceUnavailable, result.ErrorKind)
		assert.Equal(t, StageRender, result.FailedAt)
		require.NotNil(t, result.Resume)
		assert.Equal(t, types.ErrorKindServiceUnavailable, result.Resume.ErrorKind)
	})
}

func TestRun_ResumeValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		wantKind types.ErrorKind
	}{
		{
			name:     "missing resume",
			req:      Request{Mode: ModeTailor, JobDescription: sampleJob},
			wantKind: types.ErrorKindValidation,
		},
		{
			name:     "resume too short",
			req:      Request{Mode: ModeTailor, ResumeText: "Jane Roe", JobDescription: sampleJob},
			wantKind: types.ErrorKindValidation,
		},
		{
			name: "unsupported file",
			req: Request{Mode: ModeTailor, JobDescription: sampleJob,
				ResumeFile: &types.SourceDocument{Filename: "resume.rtf", Extension: "rtf", Data: []byte(sampleResume)}},
			wantKind: types.ErrorKindUnsupportedFormat,
		},
		{
			name: "corrupt pdf",
			req: Request{Mode: ModeTailor, JobDescription: sampleJob,
				ResumeFile: &types.SourceDocument{Filename: "resume.pdf", Extension: "pdf", Data: []byte("not a pdf")}},
			wantKind: types.ErrorKindCorruptDocument,
		},
		{
			name:     "generate without profile",
			req:      Request{Mode: ModeGenerate, JobDescription: sampleJob},
			wantKind: types.ErrorKindValidation,
		},
		{
			name:     "invalid profile",
			req:      Request{Mode: ModeGenerate, JobDescription: sampleJob, UserInfo: &types.UserInfo{Name: "Jane"}},
			wantKind: types.ErrorKindValidation,
		},
		{
			name:     "unknown mode",
			req:      Request{Mode: "SUMMARIZE", ResumeText: sampleResume, JobDescription: sampleJob},
			wantKind: types.ErrorKindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			result := New(newDeps(t, gen), DefaultOptions()).Run(context.Background(), tt.req)

			assert.False(t, result.Success)
			assert.Equal(t, StageValidate, result.FailedAt)
			assert.Equal(t, tt.wantKind, result.ErrorKind)
			assert.Zero(t, gen.calls())
		})
	}
}

func TestRun_UpstreamFailureSurfaced(t *testing.T) {
	gen := &fakeGenerator{results: map[types.Task]types.GenerationResult{
		types.TaskTailor: {ErrorKind: types.ErrorKindUpstreamTimeout, ErrorDetail: "generation timed out after 1m0s"},
	}}

	result := New(newDeps(t, gen), DefaultOptions()).Run(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJob})

	assert.False(t, result.Success)
	assert.Equal(t, StageGenerate, result.FailedAt)
	assert.Equal(t, types.ErrorKindUpstreamTimeout, result.ErrorKind)
	assert.Contains(t, result.Message, "timed out")
	require.NotNil(t, result.Resume)
	assert.False(t, result.Resume.Success)
}

func TestRun_RenderFallbackUsedOnce(t *testing.T) {
	dir := t.TempDir()
	deps := Dependencies{
		Generator: &fakeGenerator{},
		Renderer:  rendering.NewPDFRenderer(&fakeEngine{err: errors.New("chrome missing")}, dir, false),
		Fallback:  rendering.NewTextRenderer(dir),
	}

	result := New(deps, DefaultOptions()).Run(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJob, Name: "Jane Roe"})

	require.True(t, result.Success, result.Message)
	require.NotNil(t, result.Resume.Document)
	assert.True(t, result.Resume.UsedFallback)
	assert.Equal(t, types.FormatText, result.Resume.Document.Format)
	assert.Regexp(t, filenamePattern, result.Resume.Document.Filename)
}

func TestRun_RenderFailsWhenFallbackFails(t *testing.T) {
	primary := &failingRenderer{}
	fallback := &failingRenderer{}
	deps := Dependencies{Generator: &fakeGenerator{}, Renderer: primary, Fallback: fallback}

	result := New(deps, DefaultOptions()).Run(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJob})

	assert.False(t, result.Success)
	assert.Equal(t, StageRender, result.FailedAt)
	assert.Equal(t, types.ErrorKindRender, result.ErrorKind)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestRun_CombinedFlow(t *testing.T) {
	gen := &fakeGenerator{}
	result := New(newDeps(t, gen), DefaultOptions()).Run(context.Background(), Request{
		Mode:               ModeGenerate,
		UserInfo:           &types.UserInfo{Name: "Jane Roe", Email: "jane@example.com", Experience: "Eight years building payment systems in Go."},
		JobDescription:     sampleJob,
		CompanyName:        "Acme",
		IncludeCoverLetter: true,
	})

	require.True(t, result.Success, result.Message)
	require.NotNil(t, result.Resume)
	require.NotNil(t, result.CoverLetter)
	assert.True(t, result.Resume.Success)
	assert.True(t, result.CoverLetter.Success)
	assert.Contains(t, result.Resume.Document.Filename, "Jane_Roe_Resume_")
	assert.Contains(t, result.CoverLetter.Document.Filename, "Jane_Roe_Cover_Letter_")
	assert.Len(t, result.Documents(), 2)

	require.Equal(t, 2, gen.calls())
	assert.Equal(t, types.TaskGenerateResume, gen.requests[0].Task)
	assert.Equal(t, types.TaskGenerateCoverLetter, gen.requests[1].Task)
	assert.Contains(t, gen.requests[1].Prompt, "Acme")
}

func TestRun_CombinedFlowCoverLetterFailureIsIndependent(t *testing.T) {
	gen := &fakeGenerator{results: map[types.Task]types.GenerationResult{
		types.TaskGenerateCoverLetter: {ErrorKind: types.ErrorKindUpstream, ErrorDetail: "quota exceeded"},
	}}
	rec := &fakeRecorder{}
	deps := newDeps(t, gen)
	deps.Recorder = rec

	result := New(deps, DefaultOptions()).Run(context.Background(), Request{
		ResumeText:         sampleResume,
		JobDescription:     sampleJob,
		IncludeCoverLetter: true,
	})

	assert.True(t, result.Success)
	assert.Equal(t, StageDone, result.Stage)
	assert.True(t, result.Resume.Success)
	require.NotNil(t, result.CoverLetter)
	assert.False(t, result.CoverLetter.Success)
	assert.Equal(t, types.ErrorKindUpstream, result.CoverLetter.ErrorKind)
	assert.Contains(t, result.CoverLetter.Message, "quota exceeded")

	assert.True(t, rec.completed)
	assert.Empty(t, rec.errorKind)
	assert.Len(t, rec.documents, 1)
	assert.Equal(t, rec.id.String(), result.RunID)
}

func TestRun_CoverLetterOnly(t *testing.T) {
	gen := &fakeGenerator{}
	result := New(newDeps(t, gen), DefaultOptions()).Run(context.Background(), Request{
		Mode:           ModeCoverLetter,
		ResumeText:     sampleResume,
		JobDescription: sampleJob,
		Name:           "Jane",
	})

	require.True(t, result.Success, result.Message)
	assert.Nil(t, result.Resume)
	require.NotNil(t, result.CoverLetter)
	assert.Equal(t, types.DocKindCoverLetter, result.CoverLetter.Document.Kind)
}

func TestRun_TextOnly(t *testing.T) {
	gen := &fakeGenerator{results: map[types.Task]types.GenerationResult{
		types.TaskTailor: {Success: true, Content: "Tailored resume text"},
	}}
	temp := float32(0.2)
	result := New(Dependencies{Generator: gen}, DefaultOptions()).Run(context.Background(), Request{
		ResumeText:         sampleResume,
		JobDescription:     sampleJob,
		Temperature:        &temp,
		TextOnly:           true,
		IncludeCoverLetter: true,
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "Tailored resume text", result.Resume.Content)
	assert.Nil(t, result.Resume.Document)
	assert.True(t, result.CoverLetter.Success)
	assert.InDelta(t, 0.2, gen.requests[0].Params.Temperature, 0.0001)
}

func TestRun_Analyze(t *testing.T) {
	gen := &fakeGenerator{results: map[types.Task]types.GenerationResult{
		types.TaskAnalyze: {Success: true, Content: `{"match_score": 78, "matching_skills": ["Go"], "missing_skills": ["Kafka"], "recommendations": ["Quantify impact"], "summary": "Solid match."}`},
	}}

	result := New(Dependencies{Generator: gen}, DefaultOptions()).Run(context.Background(), Request{
		Mode:           ModeAnalyze,
		ResumeText:     sampleResume,
		JobDescription: sampleJob,
	})

	require.True(t, result.Success, result.Message)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, 78, result.Analysis.MatchScore)
	require.NotNil(t, result.Keywords)
	assert.Contains(t, result.Keywords.MatchingKeywords, "payment")
	assert.Nil(t, result.Resume)
}

func TestRun_AnalyzeInvalidOutput(t *testing.T) {
	gen := &fakeGenerator{results: map[types.Task]types.GenerationResult{
		types.TaskAnalyze: {Success: true, Content: `{"score": "high"}`},
	}}

	result := New(Dependencies{Generator: gen}, DefaultOptions()).Run(context.Background(), Request{
		Mode:           ModeAnalyze,
		ResumeText:     sampleResume,
		JobDescription: sampleJob,
	})

	assert.False(t, result.Success)
	assert.Equal(t, types.ErrorKindUpstream, result.ErrorKind)
	assert.Equal(t, StageGenerate, result.FailedAt)
}

func TestRun_RecorderReceivesFailure(t *testing.T) {
	rec := &fakeRecorder{}
	deps := newDeps(t, &fakeGenerator{})
	deps.Recorder = rec

	result := New(deps, DefaultOptions()).Run(context.Background(), Request{ResumeText: sampleResume, JobDescription: "short"})

	assert.False(t, result.Success)
	assert.True(t, rec.completed)
	assert.Equal(t, string(types.ErrorKindValidation), rec.errorKind)
	assert.Empty(t, rec.documents)
}
