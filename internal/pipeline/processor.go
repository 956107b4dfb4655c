package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/paper-extractor/constants"
	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/entity"
	"github.com/joseph-ayodele/paper-extractor/internal/extract"
	"github.com/joseph-ayodele/paper-extractor/internal/llm"
	"github.com/joseph-ayodele/paper-extractor/internal/parsefields"
)

// PreviewChars bounds the response preview in progress logs.
const PreviewChars = 500

// Processor runs one document through extract, complete and parse.
type Processor struct {
	logger     *slog.Logger
	extractor  extract.TextExtractor
	completer  llm.Completer
	maxChars   int
	maxRetries int
	secrets    []string
}

func NewProcessor(logger *slog.Logger, extractor extract.TextExtractor, completer llm.Completer, maxChars, maxRetries int, secrets ...string) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if maxChars <= 0 {
		maxChars = 10000
	}
	return &Processor{
		logger:     logger,
		extractor:  extractor,
		completer:  completer,
		maxChars:   maxChars,
		maxRetries: maxRetries,
		secrets:    secrets,
	}
}

// ProcessFile always returns a record for doc. Extraction and terminal completion failures
// become degraded records carrying the error in the summary.
func (p *Processor) ProcessFile(ctx context.Context, doc entity.Document) entity.Record {
	ctx = common.WithFileName(ctx, doc.Name)
	start := time.Now()
	log := p.logger.With("run_id", common.RunIDFromContext(ctx))

	text, err := p.extractor.Extract(ctx, doc.SourcePath)
	if err != nil {
		msg := common.RedactError(err, p.secrets...)
		log.Error("processor.extract.failed", "file", doc.Name, "error", msg)
		rec := entity.NewRecord(fmt.Sprintf("%s: %s", constants.ExtractionErrorMarker, msg))
		rec.FileName = doc.Name
		rec.Status = constants.RecordStatusExtractFailed
		return rec
	}
	log.Debug("processor.extract.ok",
		"file", doc.Name,
		"method", text.Method,
		"pages", text.Pages,
		"chars", len([]rune(text.Text)),
	)

	prompt := llm.BuildPrompt(text.Text, p.maxChars)
	res, err := p.completer.Complete(ctx, prompt, p.maxRetries)
	if err != nil {
		msg := common.RedactError(err, p.secrets...)
		log.Error("processor.complete.failed", "file", doc.Name, "error", msg)
		rec := entity.NewRecord(fmt.Sprintf("%s: %s", constants.CompletionErrorMarker, msg))
		rec.FileName = doc.Name
		rec.Status = constants.RecordStatusCompletionFailed
		return rec
	}

	rec := parsefields.Parse(res.Content)
	rec.FileName = doc.Name
	log.Info("processor.file.ok",
		"file", doc.Name,
		"attempts", res.Attempts,
		"preview", llm.Preview(res.Content, PreviewChars),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec
}
