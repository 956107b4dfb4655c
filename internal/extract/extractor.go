package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/paper-extractor/constants"
	"github.com/joseph-ayodele/paper-extractor/internal/common"
)

type Config struct {
	Validate     bool          // run a structural pdfcpu validation before reading text
	Normalize    bool          // collapse layout whitespace in the result
	PdftotextBin string        // binary name or absolute path; empty disables the fallback
	Timeout      time.Duration // bound for the pdftotext fallback, default 2m
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner used by the pdftotext fallback.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract returns the document's page text joined with line breaks, in page order.
// Every failure is an ExtractionError; nothing here is retried.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("extract.start", "path", path, "ext", ext)

	if constants.MapExtToFormat(ext) == "" {
		e.logger.Error("extract.unsupported_extension", "path", path, "extension", ext)
		return Result{}, common.ExtractionError(path, fmt.Errorf("unsupported extension: %q", ext))
	}
	if err := ctx.Err(); err != nil {
		return Result{}, common.ExtractionError(path, err)
	}
	if err := sniffPDF(path); err != nil {
		e.logger.Warn("extract.not_pdf", "path", path, "error", err)
		return Result{}, common.ExtractionError(path, err)
	}
	if e.cfg.Validate {
		if err := validatePDF(path); err != nil {
			e.logger.Warn("extract.validation_failed", "path", path, "error", err)
			return Result{}, common.ExtractionError(path, err)
		}
	}

	pages, err := readPages(path)
	if err == nil {
		res := Result{
			Text:     e.finish(strings.Join(pages, "\n")),
			Pages:    len(pages),
			Method:   MethodPDFText,
			Duration: time.Since(start),
		}
		e.logger.Debug("extract.ok", "path", path, "method", res.Method, "pages", res.Pages, "bytes", len(res.Text),
			"elapsed_ms", res.Duration.Milliseconds())
		return res, nil
	}

	if e.cfg.PdftotextBin == "" {
		e.logger.Warn("extract.read_failed", "path", path, "error", err)
		return Result{}, common.ExtractionError(path, err)
	}

	e.logger.Warn("extract.fallback", "path", path, "error", err, "bin", e.cfg.PdftotextBin)
	fctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	res, ferr := e.pdfToText(fctx, path)
	if ferr != nil {
		return Result{}, common.ExtractionError(path, errors.Join(err, ferr))
	}
	res.Text = e.finish(res.Text)
	res.Duration = time.Since(start)
	res.Warnings = append(res.Warnings, "pdf library: "+err.Error())
	return res, nil
}

func (e *Extractor) finish(text string) string {
	if e.cfg.Normalize {
		return Normalize(text)
	}
	return text
}
