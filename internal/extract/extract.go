// Package extract turns raw uploaded document bytes into normalized text
// plus best-effort structural sections.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// DefaultMinWords rejects resumes too short to analyze meaningfully.
const DefaultMinWords = 50

var (
	// ErrUnsupportedFormat reports a declared MIME type outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrCorruptDocument reports a document the underlying parser cannot read.
	ErrCorruptDocument = errors.New("corrupt document")
	// ErrEmptyContent reports extracted text below the minimum-viable-content threshold.
	ErrEmptyContent = errors.New("document content too short to analyze")
)

// RawDocument is the immutable upload payload handed to the extractor.
// Size and type limits are validated upstream.
type RawDocument struct {
	Bytes    []byte
	MimeType string
	FileName string
	Size     int64
}

// Section is a named contiguous span of the normalized text, identified by
// byte-offset boundaries. Sections are non-overlapping and ordered by Start.
type Section struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// ExtractedText is the normalized output of extraction.
type ExtractedText struct {
	Text      string    `json:"text"`
	PageCount int       `json:"pageCount"`
	WordCount int       `json:"wordCount"`
	CharCount int       `json:"charCount"`
	Sections  []Section `json:"sections"`
}

// SectionText returns the text span for a canonical section name.
func (e ExtractedText) SectionText(name string) (string, bool) {
	for _, s := range e.Sections {
		if s.Name == name {
			return e.Text[s.Start:s.End], true
		}
	}
	return "", false
}

// SectionNames returns canonical section names in document order.
func (e ExtractedText) SectionNames() []string {
	names := make([]string, 0, len(e.Sections))
	for _, s := range e.Sections {
		names = append(names, s.Name)
	}
	return names
}

// Extractor is a pure transform over input bytes; it keeps no state beyond
// its configuration.
type Extractor struct {
	minWords int
}

// New constructs an Extractor. minWords <= 0 selects DefaultMinWords.
func New(minWords int) *Extractor {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	return &Extractor{minWords: minWords}
}

// Extract parses the document, normalizes its text, and segments it into
// sections. The segmentation is heuristic, not exact parsing.
func (e *Extractor) Extract(ctx context.Context, raw RawDocument) (ExtractedText, error) {
	if err := ctx.Err(); err != nil {
		return ExtractedText{}, err
	}

	var (
		text  string
		pages int
		err   error
	)
	switch normalizeMimeType(raw.MimeType, raw.FileName, raw.Bytes) {
	case mimePDF:
		text, pages, err = extractPDF(raw.Bytes)
	case mimeDOCX:
		text, pages, err = extractDOCX(raw.Bytes)
	case mimeText:
		text, pages = string(raw.Bytes), 1
	default:
		return ExtractedText{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, raw.MimeType)
	}
	if err != nil {
		return ExtractedText{}, err
	}

	text = normalizeText(text)
	words := len(strings.Fields(text))
	if words < e.minWords {
		return ExtractedText{}, fmt.Errorf("%w: %d words, need at least %d", ErrEmptyContent, words, e.minWords)
	}

	return ExtractedText{
		Text:      text,
		PageCount: pages,
		WordCount: words,
		CharCount: len(text),
		Sections:  segmentSections(text),
	}, nil
}

func extractPDF(data []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", 0, fmt.Errorf("%w: pdf has no pages", ErrCorruptDocument)
	}

	var sb strings.Builder
	extracted := 0
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
		extracted++
	}
	if extracted == 0 {
		return "", 0, fmt.Errorf("%w: no readable pdf pages", ErrCorruptDocument)
	}
	return sb.String(), numPages, nil
}

func extractDOCX(data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, fmt.Errorf("%w: empty docx data", ErrCorruptDocument)
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	defer doc.Close()

	text := stripDocxXML(doc.Editable().GetContent())
	if strings.TrimSpace(text) == "" {
		// Fall back to reading word/document.xml directly; some producers
		// emit content the docx library does not surface.
		text, err = extractDOCXFallback(data)
		if err != nil {
			return "", 0, err
		}
	}
	return text, 1, nil
}

func extractDOCXFallback(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		return stripDocxXML(string(raw)), nil
	}
	return "", fmt.Errorf("%w: document.xml not found", ErrCorruptDocument)
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// normalizeText converts line endings to LF, trims trailing whitespace per
// line, and collapses runs of blank lines.
func normalizeText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blanks = 0
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func normalizeMimeType(mimeType, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != "application/zip" && clean != "application/octet-stream" {
		return clean
	}

	if isOOXMLWordZip(data) {
		return mimeDOCX
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".docx":
		return mimeDOCX
	case ".pdf":
		return mimePDF
	case ".txt":
		return mimeText
	default:
		return clean
	}
}

func isOOXMLWordZip(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
