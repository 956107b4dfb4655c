package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/paper-extractor/constants"
	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/entity"
)

// Run is one ledger row for a batch run.
type Run struct {
	ID         uuid.UUID
	InputDir   string
	Status     constants.RunStatus
	StartedAt  time.Time
	FinishedAt *time.Time
	Total      int
	Failures   int
}

// RunLedger is the audit trail of batch runs and their records.
type RunLedger struct {
	db *DB
}

func NewRunLedger(db *DB) *RunLedger {
	return &RunLedger{db: db}
}

func (l *RunLedger) StartRun(ctx context.Context, runID uuid.UUID, inputDir string, startedAt time.Time) error {
	q := l.db.builder().Insert(tableRuns).
		Columns("id", "input_dir", "status", "started_at").
		Values(runID.String(), inputDir, string(constants.RunStatusRunning), formatTime(startedAt))
	if err := l.db.exec(ctx, q); err != nil {
		l.db.logger.Error("ledger.start_run_failed", "run_id", runID, "error", err)
		return err
	}
	return nil
}

// SaveRecord stores rec at position index of the run. Saving the same position again replaces it.
func (l *RunLedger) SaveRecord(ctx context.Context, runID uuid.UUID, index int, doc entity.Document, rec entity.Record) error {
	fields, err := json.Marshal(rec.Values)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	q := l.db.builder().Insert(tableRecords).
		Columns("run_id", "idx", "file_name", "source_path", "hash_hex", "status", "summary", "fields_json", "created_at").
		Values(runID.String(), index, rec.FileName, doc.SourcePath, doc.HashHex, string(rec.Status), rec.Summary, string(fields), formatTime(time.Now())).
		OnConflict(
			entsql.ConflictColumns("run_id", "idx"),
			entsql.ResolveWithNewValues(),
		)
	if err := l.db.exec(ctx, q); err != nil {
		l.db.logger.Error("ledger.save_record_failed", "run_id", runID, "file", rec.FileName, "error", err)
		return err
	}
	return nil
}

func (l *RunLedger) FinishRun(ctx context.Context, runID uuid.UUID, finishedAt time.Time, total, failures int, status constants.RunStatus) error {
	q := l.db.builder().Update(tableRuns).
		Set("status", string(status)).
		Set("finished_at", formatTime(finishedAt)).
		Set("total", total).
		Set("failures", failures).
		Where(entsql.EQ("id", runID.String()))
	if err := l.db.exec(ctx, q); err != nil {
		l.db.logger.Error("ledger.finish_run_failed", "run_id", runID, "error", err)
		return err
	}
	return nil
}

// GetRun loads a run by id.
func (l *RunLedger) GetRun(ctx context.Context, runID uuid.UUID) (Run, error) {
	query, args := l.db.builder().
		Select("id", "input_dir", "status", "started_at", "finished_at", "total", "failures").
		From(entsql.Table(tableRuns)).
		Where(entsql.EQ("id", runID.String())).
		Query()

	rows := &entsql.Rows{}
	if err := l.db.drv.Query(ctx, query, args, rows); err != nil {
		return Run{}, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Run{}, fmt.Errorf("%w: %w", common.ErrDatabase, err)
		}
		return Run{}, fmt.Errorf("%w: run %s not found", common.ErrDatabase, runID)
	}
	var (
		id, dir, status, started string
		finished                 sql.NullString
		run                      Run
	)
	if err := rows.Scan(&id, &dir, &status, &started, &finished, &run.Total, &run.Failures); err != nil {
		return Run{}, fmt.Errorf("%w: scan run: %w", common.ErrDatabase, err)
	}
	run.ID, _ = uuid.Parse(id)
	run.InputDir = dir
	run.Status = constants.RunStatus(status)
	run.StartedAt = parseTime(started)
	if finished.Valid {
		t := parseTime(finished.String)
		run.FinishedAt = &t
	}
	return run, nil
}

// ListRecords returns the run's records in batch order.
func (l *RunLedger) ListRecords(ctx context.Context, runID uuid.UUID) ([]entity.Record, error) {
	query, args := l.db.builder().
		Select("file_name", "status", "summary", "fields_json").
		From(entsql.Table(tableRecords)).
		Where(entsql.EQ("run_id", runID.String())).
		OrderBy("idx").
		Query()

	rows := &entsql.Rows{}
	if err := l.db.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	var out []entity.Record
	for rows.Next() {
		var (
			rec    entity.Record
			status string
			fields string
		)
		if err := rows.Scan(&rec.FileName, &status, &rec.Summary, &fields); err != nil {
			return nil, fmt.Errorf("%w: scan record: %w", common.ErrDatabase, err)
		}
		rec.Status = constants.RecordStatus(status)
		if err := json.Unmarshal([]byte(fields), &rec.Values); err != nil {
			return nil, fmt.Errorf("decode fields of %s: %w", rec.FileName, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
