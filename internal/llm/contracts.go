package llm

import (
	"context"
	"time"
)

// Message is one chat turn in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the JSON body sent to the chat-completions endpoint.
// It is encoded once per call and reused for every attempt.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float32  `json:"temperature,omitempty"`
}

// CompletionResult is a successful completion. Content may be empty.
type CompletionResult struct {
	Content  string
	Attempts int
	Model    string
	Elapsed  time.Duration
}

// Completer is the interface the pipeline depends on.
// maxRetries is the total attempt budget; a non-positive value means the client default.
// Once the budget is spent the error satisfies errors.Is(err, common.ErrTerminal).
type Completer interface {
	Complete(ctx context.Context, prompt string, maxRetries int) (CompletionResult, error)
}

// NewUserRequest wraps a prompt as a single user message.
func NewUserRequest(model, prompt string, temperature *float32) CompletionRequest {
	return CompletionRequest{
		Model:       model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: temperature,
	}
}
