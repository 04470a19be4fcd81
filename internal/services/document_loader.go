package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	apperrors "cv-builder/pkg/errors"
)

// DocumentLoader turns an uploaded file or raw pasted text into a single
// plain-text string. Extraction is all-or-nothing: a page that cannot be
// parsed fails the whole document, and an empty result after trimming is an
// error on every input path.
type DocumentLoader interface {
	LoadFile(filename string, data []byte) (string, error)
	LoadText(text string) (string, error)
}

type documentLoader struct{}

func NewDocumentLoader() DocumentLoader {
	return &documentLoader{}
}

// LoadFile implements DocumentLoader. Only the .pdf extension is accepted;
// the pipeline contract rejects everything else before any parsing happens.
func (l *documentLoader) LoadFile(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return "", apperrors.New(apperrors.KindUnsupportedFormat,
			"wrong file type: only PDF documents are supported").
			WithDetail(fmt.Sprintf("got extension %q", ext))
	}

	text, err := extractPDFText(data)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindExtractionFailed,
			"could not understand the document", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.New(apperrors.KindEmptyDocument, "no text found in document")
	}

	return CleanText(text), nil
}

// LoadText implements DocumentLoader.
func (l *documentLoader) LoadText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.New(apperrors.KindEmptyDocument, "no text found in document")
	}
	return CleanText(text), nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// No partial-text fallback: downstream extraction depends on
			// the full document or nothing.
			return "", fmt.Errorf("failed to read page %d: %w", pageIndex, err)
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

// CleanText normalizes extracted text: trims lines and drops empty ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
