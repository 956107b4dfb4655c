package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/export"
	"github.com/joseph-ayodele/paper-extractor/internal/pipeline"
	repo "github.com/joseph-ayodele/paper-extractor/internal/repository"
)

type globalFlags struct {
	config  string
	envFile string
}

func (g *globalFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&g.config, "config", "", "YAML config file (optional)")
	cmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "KEY=VALUE file loaded before the environment (ignored if missing)")
}

func (g *globalFlags) load() (*common.Config, error) {
	return common.LoadConfig(g.config, g.envFile)
}

var flags globalFlags

func runCmd() *cobra.Command {
	var dir, out string
	var workers int

	cmd := &cobra.Command{
		Use:   "paper-batch",
		Short: "Summarize every PDF in a folder into one spreadsheet",
		Long: "Extracts the text of each PDF in the input folder, asks the configured chat-completion " +
			"model for a structured summary, and writes one row per paper to an XLSX file.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Batch.InputDir = dir
			}
			if out != "" {
				cfg.Batch.OutputPath = out
			}
			if workers > 0 {
				cfg.Batch.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(cfg)
			ctx := cmd.Context()
			logger.Info("batch.config", "llm", cfg.LLM, "settings", cfg.String())

			batch := pipeline.NewBatch(logger, newProcessor(cfg, logger), cfg.Batch.Workers, cfg.Batch.SkipHidden)
			if cfg.Ledger.DSN != "" {
				db, err := openLedger(ctx, cfg, logger)
				if err != nil {
					// the ledger is an audit aid; the batch still runs without it
					logger.Warn("ledger.disabled", "error", common.RedactError(err, cfg.Ledger.DSN))
				} else {
					defer db.Close()
					batch.WithLedger(repo.NewRunLedger(db))
				}
			}

			result, err := batch.Run(ctx, cfg.Batch.InputDir)
			if err != nil {
				return err
			}

			if err := export.NewWriter(logger).WriteXLSX(result, cfg.Batch.OutputPath); err != nil {
				logger.Error("batch.write_failed", "path", cfg.Batch.OutputPath, "error", err)
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Batch processing complete!\n")
			_, _ = fmt.Fprintf(w, "- Run: %s\n", result.RunID)
			_, _ = fmt.Fprintf(w, "- Papers: %d\n", len(result.Records))
			_, _ = fmt.Fprintf(w, "- Failures: %d\n", result.Failures())
			_, _ = fmt.Fprintf(w, "- Output: %s\n", cfg.Batch.OutputPath)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&dir, "dir", "", "input folder (overrides INPUT_DIR)")
	cmd.Flags().StringVar(&out, "out", "", "output XLSX path (overrides OUTPUT_PATH)")
	cmd.Flags().IntVar(&workers, "workers", 0, "documents processed at once (overrides WORKERS)")
	cmd.SetErr(os.Stderr)
	return cmd
}
