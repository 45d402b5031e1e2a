package service

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/calendargpt/calendargpt/internal/domain"
	"github.com/ledongthuc/pdf"
)

// ExtractService pulls plain text out of uploaded documents before they are
// handed to the model.
type ExtractService struct{}

func NewExtractService() *ExtractService {
	return &ExtractService{}
}

// ExtractText dispatches on file extension. Unsupported types come back as
// domain.ErrUnsupportedFileType with a user-facing message.
func (s *ExtractService) ExtractText(filename string, data []byte) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = extractPDF(data)
	case "html", "htm":
		text, err = extractHTML(data)
	case "txt", "md", "csv":
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s. Supported types: PDF, HTML, TXT, MD, CSV",
			domain.ErrUnsupportedFileType, ext)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "No text could be extracted from this file.", nil
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}

	// Collapse runs of whitespace the markup leaves behind.
	fields := strings.Fields(text)
	return strings.Join(fields, " "), nil
}
