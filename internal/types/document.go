package types

// SourceDocument is an uploaded file before text extraction.
type SourceDocument struct {
	Data      []byte
	Extension string // pdf, docx or txt, with or without a leading dot
	Filename  string
}

// DocumentFormat is the output format of a rendered document.
type DocumentFormat string

// Output formats.
const (
	FormatPDF  DocumentFormat = "PDF"
	FormatText DocumentFormat = "TEXT"
)

// Extension returns the file extension used for the format.
func (f DocumentFormat) Extension() string {
	if f == FormatPDF {
		return "pdf"
	}
	return "txt"
}

// DocKind distinguishes resumes from cover letters. The value is used in filenames.
type DocKind string

// Document kinds.
const (
	DocKindResume      DocKind = "Resume"
	DocKindCoverLetter DocKind = "Cover_Letter"
)

// RenderedDocument describes a document written to the output directory.
// Callers must not assume the file outlives the immediate download.
type RenderedDocument struct {
	Format   DocumentFormat `json:"format"`
	Kind     DocKind        `json:"kind"`
	Path     string         `json:"-"`
	Filename string         `json:"filename"`
	Size     int64          `json:"size"`
}

// SectionKind is the structural role of a rendered line.
type SectionKind string

// Section kinds.
const (
	SectionHeader  SectionKind = "HEADER"
	SectionContact SectionKind = "CONTACT"
	SectionTitle   SectionKind = "SECTION_TITLE"
	SectionBody    SectionKind = "BODY"
	SectionBullet  SectionKind = "BULLET"
)

// Section is one structural element inferred from generated text, in source order.
type Section struct {
	Kind SectionKind `json:"kind"`
	Text string      `json:"text"`
}
