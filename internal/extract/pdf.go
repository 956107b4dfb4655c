package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const mimePDF = "application/pdf"

// sniffPDF rejects files whose content is not a PDF, whatever their extension says.
func sniffPDF(path string) error {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("detect mime type: %w", err)
	}
	if !mt.Is(mimePDF) {
		return fmt.Errorf("not a pdf: detected %s", mt.String())
	}
	return nil
}

func validatePDF(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("pdf validation: %w", err)
	}
	return nil
}

// readPages returns the plain text of every page in page order.
// The pdf reader panics on some malformed inputs; those become errors.
func readPages(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	n := r.NumPage()
	if n == 0 {
		return nil, errors.New("pdf has no pages")
	}
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (Result, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.PdftotextBin, e.logger, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Result{Method: MethodPdftotext, Warnings: []string{string(errb)}}, fmt.Errorf("pdftotext: %w", err)
	}
	// form feed separates pages
	raw := strings.TrimRight(string(out), "\f")
	pages := strings.Split(raw, "\f")
	return Result{
		Text:   strings.Join(pages, "\n"),
		Pages:  len(pages),
		Method: MethodPdftotext,
	}, nil
}
