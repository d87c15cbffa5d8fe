package rendering

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Identity names the person and the kind of document being rendered.
type Identity struct {
	Name string
	Kind types.DocKind
}

// Renderer writes generated content to a document in an output directory.
type Renderer interface {
	Render(ctx context.Context, content string, id Identity) (types.RenderedDocument, error)
}

// output holds what both renderers share: the target directory and the
// clock and suffix sources used for filenames.
type output struct {
	dir    string
	now    func() time.Time
	suffix func() string
}

func newOutput(dir string) output {
	return output{dir: dir, now: time.Now, suffix: RandomSuffix}
}

func (o output) write(id Identity, format types.DocumentFormat, data []byte, now time.Time) (types.RenderedDocument, error) {
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return types.RenderedDocument{}, &RenderError{Format: format, Message: "failed to create output directory", Cause: err}
	}

	filename := Filename(id.Name, id.Kind, format, now, o.suffix())
	path := filepath.Join(o.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return types.RenderedDocument{}, &RenderError{Format: format, Message: "failed to write " + filename, Cause: err}
	}

	return types.RenderedDocument{
		Format:   format,
		Kind:     id.Kind,
		Path:     path,
		Filename: filename,
		Size:     int64(len(data)),
	}, nil
}

// PDFRenderer lays content out as HTML and prints it through an Engine.
type PDFRenderer struct {
	engine  Engine
	out     output
	verbose bool
}

// NewPDFRenderer creates a PDF renderer writing into outputDir.
func NewPDFRenderer(engine Engine, outputDir string, verbose bool) *PDFRenderer {
	return &PDFRenderer{engine: engine, out: newOutput(outputDir), verbose: verbose}
}

// Render implements Renderer.
func (r *PDFRenderer) Render(ctx context.Context, content string, id Identity) (types.RenderedDocument, error) {
	if r.engine == nil {
		return types.RenderedDocument{}, &RenderError{Format: types.FormatPDF, Message: "no PDF engine configured"}
	}
	if strings.TrimSpace(content) == "" {
		return types.RenderedDocument{}, &RenderError{Format: types.FormatPDF, Message: "cannot render document", Cause: ErrEmptyContent}
	}

	now := r.out.now()
	html, err := BuildHTML(content, id.Kind, documentTitle(id), now)
	if err != nil {
		return types.RenderedDocument{}, &RenderError{Format: types.FormatPDF, Message: "failed to lay out document", Cause: err}
	}

	if r.verbose {
		log.Printf("[VERBOSE] [render] printing %s for %q (%d bytes of HTML)", id.Kind, id.Name, len(html))
	}

	pdf, err := r.engine.PrintPDF(ctx, html)
	if err != nil {
		return types.RenderedDocument{}, &RenderError{Format: types.FormatPDF, Message: "PDF engine failed", Cause: err}
	}
	if len(pdf) == 0 {
		return types.RenderedDocument{}, &RenderError{Format: types.FormatPDF, Message: "PDF engine produced no output"}
	}

	doc, err := r.out.write(id, types.FormatPDF, pdf, now)
	if err != nil {
		return types.RenderedDocument{}, err
	}
	log.Printf("[render] wrote %s (%d bytes)", doc.Filename, doc.Size)
	return doc, nil
}

// TextRenderer writes cleaned plain text. It is the fallback when PDF output fails.
type TextRenderer struct {
	out output
}

// NewTextRenderer creates a plain-text renderer writing into outputDir.
func NewTextRenderer(outputDir string) *TextRenderer {
	return &TextRenderer{out: newOutput(outputDir)}
}

// Render implements Renderer.
func (r *TextRenderer) Render(_ context.Context, content string, id Identity) (types.RenderedDocument, error) {
	var cleaned string
	if id.Kind == types.DocKindCoverLetter {
		cleaned = strings.TrimSpace(CleanCoverLetter(content))
	} else {
		cleaned = strings.TrimSpace(RemoveResumePlaceholders(content))
	}
	if cleaned == "" {
		return types.RenderedDocument{}, &RenderError{Format: types.FormatText, Message: "cannot render document", Cause: ErrEmptyContent}
	}

	doc, err := r.out.write(id, types.FormatText, []byte(cleaned+"\n"), r.out.now())
	if err != nil {
		return types.RenderedDocument{}, err
	}
	log.Printf("[render] wrote %s (%d bytes)", doc.Filename, doc.Size)
	return doc, nil
}

func documentTitle(id Identity) string {
	name := strings.TrimSpace(id.Name)
	kind := strings.ReplaceAll(string(id.Kind), "_", " ")
	if name == "" {
		return kind
	}
	return name + " " + kind
}
