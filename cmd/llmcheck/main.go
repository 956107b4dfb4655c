package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/llm"
	"github.com/joseph-ayodele/paper-extractor/internal/llm/openai"
)

const defaultQuestion = "What is the meaning of life?"

func main() {
	if err := rootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath, envFile, question string
	var retries int

	cmd := &cobra.Command{
		Use:           "llmcheck",
		Short:         "Send one question to the configured chat-completion endpoint and print the answer",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := common.LoadConfig(configPath, envFile)
			if err != nil {
				return err
			}
			v := common.NewValidator().
				Field("OPENROUTER_API_KEY", cfg.LLM.APIKey, common.Required).
				Field("LLM_MODEL", cfg.LLM.Model, common.Required)
			if v.HasErrors() {
				return common.NewAppError("CONFIG_ERROR", v.ErrorMessage(), common.ErrInvalidInput)
			}

			logger := newLogger(cfg)
			logger.Info("llmcheck.start", "llm", cfg.LLM)

			client := openai.NewClient(openai.Config{
				APIKey:      cfg.LLM.APIKey,
				BaseURL:     cfg.LLM.BaseURL,
				Model:       cfg.LLM.Model,
				Temperature: cfg.LLM.Temperature,
				Timeout:     cfg.LLM.Timeout,
				MaxRetries:  cfg.LLM.MaxRetries,
				Backoff:     llm.Policy{Strategy: cfg.LLM.Backoff, Base: cfg.LLM.BackoffBase, Max: cfg.LLM.BackoffMax},
			}, logger)

			start := time.Now()
			res, err := client.Complete(cmd.Context(), question, retries)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "model: %s (%d attempt(s), %s)\n\n", res.Model, res.Attempts, time.Since(start).Round(time.Millisecond))
			_, _ = fmt.Fprintln(w, res.Content)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file (optional)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "KEY=VALUE file loaded before the environment")
	cmd.Flags().StringVarP(&question, "question", "q", defaultQuestion, "prompt to send")
	cmd.Flags().IntVar(&retries, "retries", 1, "total attempts")
	return cmd
}
