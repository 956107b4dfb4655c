package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/paper-extractor/internal/common"
	repo "github.com/joseph-ayodele/paper-extractor/internal/repository"
)

var errNoLedger = errors.New("LEDGER_DSN is not set")

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <run-id>",
		Short: "Print a recorded run and its records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("run id must be a UUID: %w", err)
			}
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cfg.Ledger.DSN == "" {
				return errNoLedger
			}
			logger := newLogger(cfg)
			db, err := openLedger(cmd.Context(), cfg, logger)
			if err != nil {
				return errors.New(common.RedactError(err, cfg.Ledger.DSN))
			}
			defer db.Close()

			l := repo.NewRunLedger(db)
			run, err := l.GetRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			records, err := l.ListRecords(cmd.Context(), runID)
			if err != nil {
				return err
			}
			b, _ := json.MarshalIndent(map[string]any{"run": run, "records": records}, "", "  ")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func pingLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping-ledger",
		Short: "Check that the run ledger is reachable and migrated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cfg.Ledger.DSN == "" {
				return errNoLedger
			}
			logger := newLogger(cfg)
			db, err := openLedger(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("ledger health: FAIL (%s)", common.RedactError(err, cfg.Ledger.DSN))
			}
			defer db.Close()
			if err := db.HealthCheck(cmd.Context(), cfg.Ledger.DialTimeout); err != nil {
				return fmt.Errorf("ledger health: FAIL (%s)", common.RedactError(err, cfg.Ledger.DSN))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ledger health: OK (%s)\n", db.Dialect())
			return nil
		},
	}
}
