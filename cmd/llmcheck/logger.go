package main

import (
	"log/slog"
	"os"

	"github.com/joseph-ayodele/paper-extractor/internal/common"
)

// logs go to stderr so the answer on stdout stays clean
func newLogger(cfg *common.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)
	return logger
}
