package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const docxBodyPath = "word/document.xml"

// extractDOCX concatenates paragraph text from word/document.xml with newlines.
func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &CorruptDocumentError{Format: ExtDOCX, Message: "empty document"}
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &CorruptDocumentError{Format: ExtDOCX, Message: "not a zip archive", Cause: err}
	}

	var body *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == docxBodyPath {
			body = f
			break
		}
	}
	if body == nil {
		return "", &CorruptDocumentError{Format: ExtDOCX, Message: "document.xml not found"}
	}

	rc, err := body.Open()
	if err != nil {
		return "", &CorruptDocumentError{Format: ExtDOCX, Message: "failed to open document.xml", Cause: err}
	}
	defer func() { _ = rc.Close() }()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return "", &CorruptDocumentError{Format: ExtDOCX, Message: "malformed document.xml", Cause: err}
	}

	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs walks WordprocessingML and returns the text of each w:p element.
func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = true
			case "tab":
				if inPara {
					current.WriteString("\t")
				}
			case "br", "cr":
				if inPara {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara {
					paragraphs = append(paragraphs, current.String())
				}
				inPara = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
