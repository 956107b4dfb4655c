package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joseph-ayodele/paper-extractor/internal/llm"
)

// Config for the chat-completions client. Any OpenAI-compatible endpoint works; the default is OpenRouter.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENROUTER_API_KEY
	BaseURL     string        // default https://openrouter.ai/api/v1
	Model       string        // e.g., "deepseek/deepseek-r1-distill-llama-70b:free"
	Temperature *float32      // omitted from the body when nil
	Timeout     time.Duration // per attempt
	MaxRetries  int           // total attempts when the caller passes 0
	Backoff     llm.Policy
}

type Client struct {
	cfg    Config
	http   *http.Client
	sleep  llm.Sleeper
	logger *slog.Logger
}

const (
	DefaultBaseURL    = "https://openrouter.ai/api/v1"
	DefaultModel      = "deepseek/deepseek-r1-distill-llama-70b:free"
	DefaultMaxRetries = 3
)

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		sleep:  llm.SleepContext,
		logger: logger,
	}
}

// WithSleeper replaces the wait between attempts.
func (c *Client) WithSleeper(s llm.Sleeper) *Client {
	c.sleep = s
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}
