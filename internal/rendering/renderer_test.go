package rendering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	html string
	out  []byte
	err  error
}

func (f *fakeEngine) PrintPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return f.out, f.err
}

func fixedOutput(dir string) output {
	return output{
		dir:    dir,
		now:    func() time.Time { return fixedNow },
		suffix: func() string { return "deadbeef" },
	}
}

func TestPDFRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{out: []byte("%PDF-1.4 fake")}
	r := NewPDFRenderer(engine, dir, false)
	r.out = fixedOutput(dir)

	doc, err := r.Render(context.Background(), "John Doe\njohn@x.com\nSummary\nDid things", Identity{Name: "John Doe", Kind: types.DocKindResume})
	require.NoError(t, err)

	assert.Equal(t, types.FormatPDF, doc.Format)
	assert.Equal(t, types.DocKindResume, doc.Kind)
	assert.Equal(t, "John_Doe_Resume_20240305_143045_deadbeef.pdf", doc.Filename)
	assert.Regexp(t, filenamePattern, doc.Filename)
	assert.Equal(t, filepath.Join(dir, doc.Filename), doc.Path)
	assert.Equal(t, int64(len(engine.out)), doc.Size)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, engine.out, data)
	assert.Contains(t, engine.html, `<h1 class="header">John Doe</h1>`)
}

func TestPDFRenderer_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	r := NewPDFRenderer(&fakeEngine{out: []byte("%PDF")}, dir, true)

	doc, err := r.Render(context.Background(), "Dear team,\n\nHello.", Identity{Name: "Jane", Kind: types.DocKindCoverLetter})
	require.NoError(t, err)
	assert.FileExists(t, doc.Path)
	assert.True(t, strings.HasPrefix(doc.Filename, "Jane_Cover_Letter_"))
}

func TestPDFRenderer_EngineFailure(t *testing.T) {
	dir := t.TempDir()
	cause := errors.New("chrome not found")
	r := NewPDFRenderer(&fakeEngine{err: cause}, dir, false)

	_, err := r.Render(context.Background(), "Some content", Identity{Name: "Jane", Kind: types.DocKindResume})
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.ErrorIs(t, err, cause)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestPDFRenderer_EmptyEngineOutput(t *testing.T) {
	r := NewPDFRenderer(&fakeEngine{}, t.TempDir(), false)
	_, err := r.Render(context.Background(), "Some content", Identity{Name: "Jane", Kind: types.DocKindResume})

	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestPDFRenderer_NoEngine(t *testing.T) {
	r := NewPDFRenderer(nil, t.TempDir(), false)
	_, err := r.Render(context.Background(), "Some content", Identity{Name: "Jane", Kind: types.DocKindResume})

	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestPDFRenderer_EmptyContent(t *testing.T) {
	r := NewPDFRenderer(&fakeEngine{out: []byte("%PDF")}, t.TempDir(), false)
	_, err := r.Render(context.Background(), "   \n ", Identity{Name: "Jane", Kind: types.DocKindResume})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestPDFRenderer_UnwritableDirectory(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	r := NewPDFRenderer(&fakeEngine{out: []byte("%PDF")}, filepath.Join(blocker, "out"), false)
	_, err := r.Render(context.Background(), "Some content", Identity{Name: "Jane", Kind: types.DocKindResume})

	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestTextRenderer_Resume(t *testing.T) {
	dir := t.TempDir()
	r := NewTextRenderer(dir)
	r.out = fixedOutput(dir)

	doc, err := r.Render(context.Background(), "Jane Roe\n[Company Name]\nEngineer", Identity{Name: "Jane Roe", Kind: types.DocKindResume})
	require.NoError(t, err)

	assert.Equal(t, types.FormatText, doc.Format)
	assert.Equal(t, "Jane_Roe_Resume_20240305_143045_deadbeef.txt", doc.Filename)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe\nEngineer\n", string(data))
	assert.Equal(t, int64(len(data)), doc.Size)
}

func TestTextRenderer_CoverLetter(t *testing.T) {
	r := NewTextRenderer(t.TempDir())

	doc, err := r.Render(context.Background(), "Dear Team,\n\nJoining [Company Name] excites me.\n---\nnotes", Identity{Name: "Jane", Kind: types.DocKindCoverLetter})
	require.NoError(t, err)
	assert.Regexp(t, filenamePattern, doc.Filename)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "Dear Team,\n\nJoining [Company Name] excites me.\n", string(data))
}

func TestTextRenderer_EmptyAfterCleanup(t *testing.T) {
	r := NewTextRenderer(t.TempDir())
	_, err := r.Render(context.Background(), "[Your Name]\n[Company Name]", Identity{Name: "Jane", Kind: types.DocKindResume})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestRenderers_SatisfyInterface(t *testing.T) {
	var _ Renderer = (*PDFRenderer)(nil)
	var _ Renderer = (*TextRenderer)(nil)
	var _ Engine = (*ChromeEngine)(nil)
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "Jane Cover Letter", documentTitle(Identity{Name: "Jane", Kind: types.DocKindCoverLetter}))
	assert.Equal(t, "Resume", documentTitle(Identity{Kind: types.DocKindResume}))
}
