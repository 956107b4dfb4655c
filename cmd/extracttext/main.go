package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/extract"
	"github.com/joseph-ayodele/paper-extractor/internal/llm"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	var showText, showPrompt bool

	cmd := &cobra.Command{
		Use:           "extracttext <file.pdf>",
		Short:         "Extract the text of one PDF and print stats",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.LoadConfig(configPath, ".env")
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
			slog.SetDefault(logger)

			e := extract.NewExtractor(extract.Config{
				Validate:     cfg.Extract.Validate,
				Normalize:    cfg.Extract.Normalize,
				PdftotextBin: cfg.Extract.PdftotextBin,
				Timeout:      cfg.Extract.Timeout,
			}, logger)

			path := args[0]
			res, err := e.Extract(cmd.Context(), path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "file:     %s\n", filepath.Base(path))
			_, _ = fmt.Fprintf(w, "method:   %s\n", res.Method)
			_, _ = fmt.Fprintf(w, "pages:    %d\n", res.Pages)
			_, _ = fmt.Fprintf(w, "chars:    %d\n", len([]rune(res.Text)))
			_, _ = fmt.Fprintf(w, "duration: %s\n", res.Duration)
			for _, warn := range res.Warnings {
				_, _ = fmt.Fprintf(w, "warning:  %s\n", warn)
			}
			switch {
			case showPrompt:
				_, _ = fmt.Fprintf(w, "\n%s", llm.BuildPrompt(res.Text, cfg.Batch.MaxChars))
			case showText:
				_, _ = fmt.Fprintf(w, "\n%s\n", res.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file (optional)")
	cmd.Flags().BoolVar(&showText, "text", false, "print the extracted text")
	cmd.Flags().BoolVar(&showPrompt, "prompt", false, "print the prompt that would be sent (text cut to MAX_CHARS)")
	return cmd
}
