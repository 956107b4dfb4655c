package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/llm"
)

var _ llm.Completer = (*Client)(nil)

// Complete sends prompt as a single user message and returns the first choice's content.
// Transport errors, non-2xx answers and malformed envelopes are retried until maxRetries
// attempts have been made. Errors never carry the API key.
func (c *Client) Complete(ctx context.Context, prompt string, maxRetries int) (llm.CompletionResult, error) {
	if maxRetries <= 0 {
		maxRetries = c.cfg.MaxRetries
	}
	rid := uuid.New().String()
	start := time.Now()
	file := common.FileNameFromContext(ctx)

	c.logger.Info("llm.complete.start",
		"req_id", rid,
		"run_id", common.RunIDFromContext(ctx),
		"file", file,
		"model", c.cfg.Model,
		"prompt_len", len(prompt),
		"max_retries", maxRetries,
	)

	body, err := json.Marshal(llm.NewUserRequest(c.cfg.Model, prompt, c.cfg.Temperature))
	if err != nil {
		return llm.CompletionResult{}, fmt.Errorf("marshal request: %w", err)
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	var lastErr error
	attempts := 0
	for attempt := 1; ; attempt++ {
		attempts = attempt
		content, err := c.attempt(ctx, endpoint, body, headers)
		if err == nil {
			res := llm.CompletionResult{
				Content:  content,
				Attempts: attempt,
				Model:    c.cfg.Model,
				Elapsed:  time.Since(start),
			}
			c.logger.Info("llm.complete.ok",
				"req_id", rid,
				"file", file,
				"attempts", attempt,
				"content_len", len(content),
				"elapsed_ms", res.Elapsed.Milliseconds(),
			)
			return res, nil
		}
		lastErr = c.redact(err)

		delay, terminal := c.cfg.Backoff.Next(attempt, maxRetries)
		if !common.IsRetryable(err) {
			delay, terminal = 0, true
		}
		c.logger.Warn("llm.complete.attempt_failed",
			"req_id", rid,
			"file", file,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", lastErr,
			"retry_in_ms", delay.Milliseconds(),
		)
		if terminal {
			break
		}
		if err := c.sleep(ctx, delay); err != nil {
			lastErr = errors.Join(lastErr, err)
			break
		}
	}

	c.logger.Error("llm.complete.failed",
		"req_id", rid,
		"file", file,
		"attempts", attempts,
		"error", lastErr,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return llm.CompletionResult{}, common.TerminalError(attempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, endpoint string, body []byte, headers map[string]string) (string, error) {
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		return "", err
	}
	content, err := llm.DecodeChatContent(raw)
	if err != nil {
		return "", common.RemoteServiceError(status, fmt.Errorf("invalid response envelope: %w", err))
	}
	return content, nil
}

// redact keeps the sentinel chain intact while scrubbing the key from the message.
func (c *Client) redact(err error) error {
	if c.cfg.APIKey == "" || !strings.Contains(err.Error(), c.cfg.APIKey) {
		return err
	}
	return &redactedError{msg: common.Redact(err.Error(), c.cfg.APIKey), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
