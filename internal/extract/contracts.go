package extract

import (
	"context"
	"time"
)

// TextExtractor is stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}

// Result is the extracted text of one document plus how it was obtained.
type Result struct {
	Text     string
	Pages    int
	Method   string // MethodPDFText | MethodPdftotext
	Duration time.Duration
	Warnings []string
}

const (
	MethodPDFText   = "pdf-text"
	MethodPdftotext = "pdftotext"
)
