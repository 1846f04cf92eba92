package services

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported resume format")
	ErrExtractionFailed  = errors.New("pdf text extraction failed")
	ErrNoText            = errors.New("no text content found in pdf")
)

type PDFParserService interface {
	// Available reports whether text extraction can be attempted.
	Available() bool
	ExtractText(filePath string) (string, error)
	ExtractTextFromBytes(data []byte) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) Available() bool {
	return true
}

func (p *pdfParserService) ExtractText(filePath string) (string, error) {
	if strings.ToLower(filepath.Ext(filePath)) != ".pdf" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(filePath))
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}

	return p.ExtractTextFromBytes(data)
}

// ExtractTextFromBytes joins the plain text of every page with a blank line.
// Pages that fail to decode are skipped.
func (p *pdfParserService) ExtractTextFromBytes(data []byte) (text string, err error) {
	// The reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrExtractionFailed, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var parts []string
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}

		parts = append(parts, pageText)
	}

	text = strings.Join(parts, "\n\n")
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	return text, nil
}
