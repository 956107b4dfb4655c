package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/extract"
	"github.com/joseph-ayodele/paper-extractor/internal/llm"
	"github.com/joseph-ayodele/paper-extractor/internal/llm/openai"
	"github.com/joseph-ayodele/paper-extractor/internal/pipeline"
	repo "github.com/joseph-ayodele/paper-extractor/internal/repository"
)

func newLogger(cfg *common.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}

func newProcessor(cfg *common.Config, logger *slog.Logger) *pipeline.Processor {
	extractor := extract.NewExtractor(extract.Config{
		Validate:     cfg.Extract.Validate,
		Normalize:    cfg.Extract.Normalize,
		PdftotextBin: cfg.Extract.PdftotextBin,
		Timeout:      cfg.Extract.Timeout,
	}, logger)

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		MaxRetries:  cfg.LLM.MaxRetries,
		Backoff: llm.Policy{
			Strategy: cfg.LLM.Backoff,
			Base:     cfg.LLM.BackoffBase,
			Max:      cfg.LLM.BackoffMax,
		},
	}, logger)

	return pipeline.NewProcessor(logger, extractor, client, cfg.Batch.MaxChars, cfg.LLM.MaxRetries, cfg.LLM.APIKey)
}

func openLedger(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*repo.DB, error) {
	db, err := repo.Open(ctx, ledgerConfig(cfg.Ledger), logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ledgerConfig(c common.LedgerConfig) repo.Config {
	return repo.Config{
		DSN:              c.DSN,
		MaxConns:         int32(c.MaxConns),
		MinConns:         int32(c.MinConns),
		MaxConnLifetime:  c.MaxConnLifetime,
		MaxConnIdleTime:  c.MaxConnIdleTime,
		DialTimeout:      c.DialTimeout,
		StatementTimeout: c.StatementTimeout,
	}
}
