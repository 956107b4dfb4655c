package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/paper-extractor/constants"
	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/entity"
	"github.com/joseph-ayodele/paper-extractor/internal/ingest"
)

// Ledger records runs and their records. Write failures are logged, never fatal.
type Ledger interface {
	StartRun(ctx context.Context, runID uuid.UUID, inputDir string, startedAt time.Time) error
	SaveRecord(ctx context.Context, runID uuid.UUID, index int, doc entity.Document, rec entity.Record) error
	FinishRun(ctx context.Context, runID uuid.UUID, finishedAt time.Time, total, failures int, status constants.RunStatus) error
}

type Batch struct {
	logger     *slog.Logger
	processor  *Processor
	ledger     Ledger
	workers    int
	skipHidden bool
}

func NewBatch(logger *slog.Logger, processor *Processor, workers int, skipHidden bool) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 1
	}
	return &Batch{logger: logger, processor: processor, workers: workers, skipHidden: skipHidden}
}

// WithLedger attaches an audit ledger to the batch.
func (b *Batch) WithLedger(l Ledger) *Batch {
	b.ledger = l
	return b
}

// Run processes every PDF in folder and returns one record per document in listing order.
// Only a failure to list folder is returned as an error.
func (b *Batch) Run(ctx context.Context, folder string) (entity.Batch, error) {
	out := entity.Batch{RunID: uuid.New(), InputDir: folder, StartedAt: time.Now().UTC()}
	ctx = common.WithRunID(ctx, out.RunID.String())
	log := b.logger.With("run_id", out.RunID.String())

	docs, stats, err := ingest.ListDirectory(folder, b.skipHidden, log)
	if err != nil {
		log.Error("batch.list.failed", "dir", folder, "error", err)
		return out, err
	}
	log.Info("batch.start", "dir", folder, "documents", len(docs), "scanned", stats.Scanned, "workers", b.workers)
	b.startRun(ctx, log, out)

	out.Records = make([]entity.Record, len(docs))
	if b.workers == 1 || len(docs) < 2 {
		for i, doc := range docs {
			out.Records[i] = b.processOne(ctx, log, i, len(docs), doc, out.RunID)
		}
	} else {
		g := new(errgroup.Group)
		g.SetLimit(b.workers)
		for i, doc := range docs {
			g.Go(func() error {
				out.Records[i] = b.processOne(ctx, log, i, len(docs), doc, out.RunID)
				return nil
			})
		}
		_ = g.Wait()
	}

	out.FinishedAt = time.Now().UTC()
	b.finishRun(ctx, log, out)
	log.Info("batch.done",
		"documents", len(out.Records),
		"failures", out.Failures(),
		"elapsed_ms", out.FinishedAt.Sub(out.StartedAt).Milliseconds(),
	)
	return out, nil
}

func (b *Batch) processOne(ctx context.Context, log *slog.Logger, i, total int, doc entity.Document, runID uuid.UUID) entity.Record {
	log.Info("batch.file.start", "file", doc.Name, "index", i+1, "total", total)
	rec := b.processor.ProcessFile(ctx, doc)
	log.Info("batch.file.done", "file", doc.Name, "index", i+1, "status", rec.Status)
	if b.ledger != nil {
		if err := b.ledger.SaveRecord(ctx, runID, i, doc, rec); err != nil {
			log.Warn("batch.ledger.save_failed", "file", doc.Name, "error", err)
		}
	}
	return rec
}

func (b *Batch) startRun(ctx context.Context, log *slog.Logger, out entity.Batch) {
	if b.ledger == nil {
		return
	}
	if err := b.ledger.StartRun(ctx, out.RunID, out.InputDir, out.StartedAt); err != nil {
		log.Warn("batch.ledger.start_failed", "error", err)
	}
}

func (b *Batch) finishRun(ctx context.Context, log *slog.Logger, out entity.Batch) {
	if b.ledger == nil {
		return
	}
	status := constants.RunStatusFinished
	if ctx.Err() != nil {
		status = constants.RunStatusFailed
	}
	if err := b.ledger.FinishRun(context.WithoutCancel(ctx), out.RunID, out.FinishedAt, len(out.Records), out.Failures(), status); err != nil {
		log.Warn("batch.ledger.finish_failed", "error", err)
	}
}
