package repository

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/paper-extractor/internal/common"
)

const (
	tableRuns    = "paper_runs"
	tableRecords = "paper_records"
)

// ledgerDDL is portable across Postgres and SQLite. Timestamps are stored as RFC 3339 text.
var ledgerDDL = []string{
	`CREATE TABLE IF NOT EXISTS ` + tableRuns + ` (
	id varchar(36) NOT NULL,
	input_dir text NOT NULL,
	status varchar(16) NOT NULL,
	started_at varchar(40) NOT NULL,
	finished_at varchar(40),
	total integer NOT NULL DEFAULT 0,
	failures integer NOT NULL DEFAULT 0,
	PRIMARY KEY (id)
)`,
	`CREATE TABLE IF NOT EXISTS ` + tableRecords + ` (
	run_id varchar(36) NOT NULL,
	idx integer NOT NULL,
	file_name text NOT NULL,
	source_path text NOT NULL,
	hash_hex varchar(64),
	status varchar(24) NOT NULL,
	summary text NOT NULL,
	fields_json text NOT NULL,
	created_at varchar(40) NOT NULL,
	PRIMARY KEY (run_id, idx)
)`,
}

// Migrate creates the ledger tables when missing.
func (d *DB) Migrate(ctx context.Context) error {
	for _, ddl := range ledgerDDL {
		if err := d.drv.Exec(ctx, ddl, []any{}, nil); err != nil {
			d.logger.Error("ledger.migrate_failed", "error", err)
			return fmt.Errorf("%w: migrate: %w", common.ErrDatabase, err)
		}
	}
	d.logger.Debug("ledger.migrated")
	return nil
}
