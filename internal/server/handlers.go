package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/types"
)

// FromProfileRequest is the body of /generate/from-profile
type FromProfileRequest struct {
	UserInfo           *types.UserInfo `json:"user_info" validate:"required"`
	JobDescription     string          `json:"job_description,omitempty" validate:"required_without=JobURL"`
	JobURL             string          `json:"job_url,omitempty" validate:"omitempty,url"`
	CompanyName        string          `json:"company_name,omitempty" validate:"max=200"`
	Tone               string          `json:"tone,omitempty" validate:"max=50"`
	IncludeCoverLetter bool            `json:"include_cover_letter,omitempty"`
}

// ExtractJobRequest is the body of /api/extract-job
type ExtractJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// ExtractJobResponse is returned by /api/extract-job
type ExtractJobResponse struct {
	Success        bool             `json:"success"`
	JobDescription string           `json:"job_description,omitempty"`
	URL            string           `json:"url"`
	Diagnostic     types.Diagnostic `json:"diagnostic"`
	ErrorKind      types.ErrorKind  `json:"error_kind,omitempty"`
	Message        string           `json:"message,omitempty"`
}

// TailorRequest is the body of /api/tailor-resume
type TailorRequest struct {
	ResumeText     string   `json:"resume_text" validate:"required"`
	JobDescription string   `json:"job_description" validate:"required"`
	Temperature    *float32 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens      *int32   `json:"max_tokens,omitempty" validate:"omitempty,gt=0,lte=8192"`
}

// TailorResponse is returned by /api/tailor-resume
type TailorResponse struct {
	Success        bool            `json:"success"`
	TailoredResume string          `json:"tailored_resume,omitempty"`
	ErrorKind      types.ErrorKind `json:"error_kind,omitempty"`
	Message        string          `json:"message,omitempty"`
}

// AnalyzeRequest is the body of /api/analyze
type AnalyzeRequest struct {
	ResumeText     string `json:"resume_text" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
}

// AnalyzeResponse is returned by /api/analyze
type AnalyzeResponse struct {
	Success   bool                    `json:"success"`
	Analysis  *types.FitAnalysis      `json:"analysis,omitempty"`
	Keywords  *analysis.KeywordReport `json:"keywords,omitempty"`
	ErrorKind types.ErrorKind         `json:"error_kind,omitempty"`
	Message   string                  `json:"message,omitempty"`
}

// DocumentLink describes one generated document and where to fetch it.
type DocumentLink struct {
	Success      bool                 `json:"success"`
	Filename     string               `json:"filename,omitempty"`
	Format       types.DocumentFormat `json:"format,omitempty"`
	DownloadURL  string               `json:"download_url,omitempty"`
	UsedFallback bool                 `json:"used_fallback,omitempty"`
	ErrorKind    types.ErrorKind      `json:"error_kind,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// GenerateResponse is returned by the /generate endpoints and as the final SSE event.
type GenerateResponse struct {
	Success          bool             `json:"success"`
	RunID            string           `json:"run_id,omitempty"`
	Stage            pipeline.Stage   `json:"stage"`
	FailedAt         pipeline.Stage   `json:"failed_at,omitempty"`
	ErrorKind        types.ErrorKind  `json:"error_kind,omitempty"`
	Message          string           `json:"message,omitempty"`
	NeedsManualInput bool             `json:"needs_manual_input,omitempty"`
	Diagnostic       types.Diagnostic `json:"diagnostic,omitempty"`
	Resume           *DocumentLink    `json:"resume,omitempty"`
	CoverLetter      *DocumentLink    `json:"cover_letter,omitempty"`
}

func newGenerateResponse(result pipeline.Result) GenerateResponse {
	return GenerateResponse{
		Success:          result.Success,
		RunID:            result.RunID,
		Stage:            result.Stage,
		FailedAt:         result.FailedAt,
		ErrorKind:        result.ErrorKind,
		Message:          result.Message,
		NeedsManualInput: result.NeedsManualInput,
		Diagnostic:       result.Diagnostic,
		Resume:           newDocumentLink(result.Resume),
		CoverLetter:      newDocumentLink(result.CoverLetter),
	}
}

func newDocumentLink(doc *pipeline.DocumentResult) *DocumentLink {
	if doc == nil {
		return nil
	}
	link := &DocumentLink{
		Success:      doc.Success,
		UsedFallback: doc.UsedFallback,
		ErrorKind:    doc.ErrorKind,
		Message:      doc.Message,
	}
	if doc.Document != nil {
		link.Filename = doc.Document.Filename
		link.Format = doc.Document.Format
		link.DownloadURL = "/download/" + url.PathEscape(doc.Document.Filename)
	}
	return link
}

// handleGenerate tailors an uploaded resume and renders the documents.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseGenerateForm(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result := s.runner.Run(r.Context(), req)
	s.jsonResponse(w, HTTPStatusForKind(result.ErrorKind), newGenerateResponse(result))
}

// handleGenerateStream runs /generate and streams stage progress via SSE
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseGenerateForm(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	req.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent(EventProgress, event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	}

	result := s.runner.Run(r.Context(), req)
	if err := sse.WriteComplete(newGenerateResponse(result)); err != nil {
		log.Printf("Error writing SSE completion: %v", err)
	}
}

// handleGenerateFromProfile writes a resume from structured profile fields.
func (s *Server) handleGenerateFromProfile(w http.ResponseWriter, r *http.Request) {
	var body FromProfileRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}

	result := s.runner.Run(r.Context(), pipeline.Request{
		Mode:               pipeline.ModeGenerate,
		UserInfo:           body.UserInfo,
		JobDescription:     body.JobDescription,
		JobURL:             body.JobURL,
		CompanyName:        body.CompanyName,
		Tone:               body.Tone,
		IncludeCoverLetter: body.IncludeCoverLetter,
	})
	s.jsonResponse(w, HTTPStatusForKind(result.ErrorKind), newGenerateResponse(result))
}

// handleExtractJob scrapes a posting URL without generating anything.
func (s *Server) handleExtractJob(w http.ResponseWriter, r *http.Request) {
	var body ExtractJobRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}
	if s.extractor == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, ExtractJobResponse{
			URL:       body.URL,
			ErrorKind: types.ErrorKindServiceUnavailable,
			Message:   "Job scraping is not available",
		})
		return
	}

	result := s.extractor.ExtractJobDescription(r.Context(), strings.TrimSpace(body.URL))
	resp := ExtractJobResponse{
		Success:        result.Success,
		JobDescription: result.Text,
		URL:            result.SourceURLUsed,
		Diagnostic:     result.Diagnostic,
		ErrorKind:      result.ErrorKind(),
		Message:        result.Message,
	}
	if resp.URL == "" {
		resp.URL = body.URL
	}
	s.jsonResponse(w, HTTPStatusForKind(resp.ErrorKind), resp)
}

// handleTailorResume returns tailored resume text without rendering.
func (s *Server) handleTailorResume(w http.ResponseWriter, r *http.Request) {
	var body TailorRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}

	result := s.runner.Run(r.Context(), pipeline.Request{
		Mode:           pipeline.ModeTailor,
		ResumeText:     body.ResumeText,
		JobDescription: body.JobDescription,
		Temperature:    body.Temperature,
		MaxTokens:      body.MaxTokens,
		TextOnly:       true,
	})

	resp := TailorResponse{
		Success:   result.Success,
		ErrorKind: result.ErrorKind,
		Message:   result.Message,
	}
	if result.Resume != nil {
		resp.TailoredResume = result.Resume.Content
	}
	s.jsonResponse(w, HTTPStatusForKind(result.ErrorKind), resp)
}

// handleAnalyze scores how well a resume fits a job description.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}

	result := s.runner.Run(r.Context(), pipeline.Request{
		Mode:           pipeline.ModeAnalyze,
		ResumeText:     body.ResumeText,
		JobDescription: body.JobDescription,
	})

	s.jsonResponse(w, HTTPStatusForKind(result.ErrorKind), AnalyzeResponse{
		Success:   result.Success,
		Analysis:  result.Analysis,
		Keywords:  result.Keywords,
		ErrorKind: result.ErrorKind,
		Message:   result.Message,
	})
}

// downloadName matches the filenames the renderers produce.
var downloadName = regexp.MustCompile(`^[A-Za-z0-9_-]+\.(pdf|txt)$`)

// handleDownload serves a rendered document from the output directory.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if !downloadName.MatchString(name) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	f, err := os.Open(filepath.Join(s.outputDir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.errorResponse(w, http.StatusNotFound, "File not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to open file")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	contentType := "text/plain; charset=utf-8"
	if strings.HasSuffix(name, ".pdf") {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// parseGenerateForm reads the multipart /generate body into a pipeline request.
func (s *Server) parseGenerateForm(w http.ResponseWriter, r *http.Request) (pipeline.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pipeline.Request{}, err
		}
		return pipeline.Request{}, &ErrValidation{Field: "body", Message: "expected multipart form data"}
	}

	req := pipeline.Request{
		Mode:               pipeline.ModeTailor,
		ResumeText:         r.FormValue("resume_text"),
		JobDescription:     r.FormValue("job_description"),
		JobURL:             strings.TrimSpace(r.FormValue("job_url")),
		Name:               r.FormValue("name"),
		CompanyName:        r.FormValue("company_name"),
		Tone:               r.FormValue("tone"),
		IncludeCoverLetter: formBool(r.FormValue("include_cover_letter")),
	}
	if formBool(r.FormValue("cover_letter_only")) {
		req.Mode = pipeline.ModeCoverLetter
	}

	file, header, err := r.FormFile("resume_file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		if strings.TrimSpace(req.ResumeText) == "" && req.Mode != pipeline.ModeCoverLetter {
			return pipeline.Request{}, &ErrValidation{Field: "resume_file", Message: "a resume file is required"}
		}
	case err != nil:
		return pipeline.Request{}, &ErrValidation{Field: "resume_file", Message: err.Error()}
	default:
		defer file.Close()
		if !ingestion.IsSupported(header.Filename) {
			return pipeline.Request{}, &ErrUnsupportedUpload{Filename: header.Filename}
		}
		data, err := io.ReadAll(file)
		if err != nil {
			return pipeline.Request{}, &ErrValidation{Field: "resume_file", Message: "failed to read upload"}
		}
		doc := ingestion.NewSourceDocument(header.Filename, data)
		req.ResumeFile = &doc
	}

	if strings.TrimSpace(req.JobDescription) == "" && req.JobURL == "" {
		return pipeline.Request{}, &ErrValidation{Field: "job_description", Message: "provide a job description or a job URL"}
	}
	return req, nil
}

// decodeJSON decodes and validates a JSON body, writing a 400 on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxUpload)).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

// formBool accepts the values HTML checkboxes and API clients send.
func formBool(v string) bool {
	if strings.EqualFold(v, "on") {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
