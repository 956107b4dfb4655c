package common

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. It is loaded once per process and never mutated.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Batch   BatchConfig   `yaml:"batch"`
	Extract ExtractConfig `yaml:"extract"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Log     LogConfig     `yaml:"log"`
}

// LLMConfig holds completion-endpoint configuration. Backoff is "exponential" or "fixed";
// a zero BackoffBase picks the strategy default.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseURL"`
	Model       string        `yaml:"model"`
	Temperature *float32      `yaml:"temperature,omitempty"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"maxRetries"`
	Backoff     string        `yaml:"backoff"`
	BackoffBase time.Duration `yaml:"backoffBase"`
	BackoffMax  time.Duration `yaml:"backoffMax"`
}

// LogValue keeps the credential out of structured logs.
func (c LLMConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", c.BaseURL),
		slog.String("model", c.Model),
		slog.String("api_key", MaskSecret(c.APIKey)),
		slog.Duration("timeout", c.Timeout),
		slog.Int("max_retries", c.MaxRetries),
		slog.String("backoff", c.Backoff),
	)
}

// BatchConfig holds input/output locations and per-document limits
type BatchConfig struct {
	InputDir   string `yaml:"inputDir"`
	OutputPath string `yaml:"outputPath"`
	MaxChars   int    `yaml:"maxChars"`
	Workers    int    `yaml:"workers"`
	SkipHidden bool   `yaml:"skipHidden"`
}

// ExtractConfig holds PDF extraction configuration
type ExtractConfig struct {
	Validate     bool          `yaml:"validate"`
	Normalize    bool          `yaml:"normalize"`
	PdftotextBin string        `yaml:"pdftotextBin"`
	Timeout      time.Duration `yaml:"timeout"`
}

// LedgerConfig holds the optional run-ledger database configuration
type LedgerConfig struct {
	DSN              string        `yaml:"dsn"`
	DialTimeout      time.Duration `yaml:"dialTimeout"`
	MaxConns         int           `yaml:"maxConns"`
	MinConns         int           `yaml:"minConns"`
	MaxConnLifetime  time.Duration `yaml:"maxConnLifetime"`
	MaxConnIdleTime  time.Duration `yaml:"maxConnIdleTime"`
	StatementTimeout time.Duration `yaml:"statementTimeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Defaults returns the configuration used when neither a file nor the environment sets a value.
func Defaults() Config {
	return Config{
		LLM: LLMConfig{
			BaseURL:    "https://openrouter.ai/api/v1",
			Model:      "deepseek/deepseek-r1-distill-llama-70b:free",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			Backoff:    BackoffExponential,
			BackoffMax: 60 * time.Second,
		},
		Batch: BatchConfig{
			InputDir:   "data",
			OutputPath: "output/summaries.xlsx",
			MaxChars:   10000,
			Workers:    1,
			SkipHidden: true,
		},
		Extract: ExtractConfig{
			Timeout: 2 * time.Minute,
		},
		Ledger: LedgerConfig{
			DialTimeout: 3 * time.Second,
			MaxConns:    4,
		},
		Log: LogConfig{Level: "info"},
	}
}

const (
	BackoffExponential = "exponential"
	BackoffFixed       = "fixed"
)

// LoadConfig loads configuration: defaults, then the optional YAML file, then the optional
// .env file, then environment variables.
func LoadConfig(path, envFile string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "decode config file "+path, err)
		}
	}

	if envFile != "" {
		LoadEnvFile(envFile)
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.LLM.APIKey = getEnv("OPENROUTER_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			t := float32(f)
			cfg.LLM.Temperature = &t
		}
	}
	cfg.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", cfg.LLM.Timeout)
	cfg.LLM.MaxRetries = getEnvAsInt("MAX_RETRIES", cfg.LLM.MaxRetries)
	cfg.LLM.Backoff = strings.ToLower(getEnv("BACKOFF", cfg.LLM.Backoff))
	cfg.LLM.BackoffBase = getEnvAsDuration("BACKOFF_BASE", cfg.LLM.BackoffBase)
	cfg.LLM.BackoffMax = getEnvAsDuration("BACKOFF_MAX", cfg.LLM.BackoffMax)

	cfg.Batch.InputDir = getEnv("INPUT_DIR", cfg.Batch.InputDir)
	cfg.Batch.OutputPath = getEnv("OUTPUT_PATH", cfg.Batch.OutputPath)
	cfg.Batch.MaxChars = getEnvAsInt("MAX_CHARS", cfg.Batch.MaxChars)
	cfg.Batch.Workers = getEnvAsInt("WORKERS", cfg.Batch.Workers)

	cfg.Extract.Validate = getEnvAsBool("PDF_VALIDATE", cfg.Extract.Validate)
	cfg.Extract.Normalize = getEnvAsBool("PDF_NORMALIZE", cfg.Extract.Normalize)
	cfg.Extract.PdftotextBin = getEnv("PDFTOTEXT_BIN", cfg.Extract.PdftotextBin)

	cfg.Ledger.DSN = getEnv("LEDGER_DSN", cfg.Ledger.DSN)
	cfg.Ledger.MaxConns = getEnvAsInt("LEDGER_MAX_CONNS", cfg.Ledger.MaxConns)
	cfg.Ledger.MinConns = getEnvAsInt("LEDGER_MIN_CONNS", cfg.Ledger.MinConns)
	cfg.Ledger.MaxConnLifetime = getEnvAsDuration("LEDGER_MAX_CONN_LIFETIME", cfg.Ledger.MaxConnLifetime)
	cfg.Ledger.MaxConnIdleTime = getEnvAsDuration("LEDGER_MAX_CONN_IDLE_TIME", cfg.Ledger.MaxConnIdleTime)
	cfg.Ledger.StatementTimeout = getEnvAsDuration("LEDGER_STATEMENT_TIMEOUT", cfg.Ledger.StatementTimeout)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the settings a batch run cannot do without.
func (c *Config) Validate() error {
	v := NewValidator().
		Field("OPENROUTER_API_KEY", c.LLM.APIKey, Required).
		Field("LLM_MODEL", c.LLM.Model, Required).
		Field("LLM_BASE_URL", c.LLM.BaseURL, Required).
		Field("INPUT_DIR", c.Batch.InputDir, Required).
		Field("OUTPUT_PATH", c.Batch.OutputPath, Required).
		Field("MAX_RETRIES", c.LLM.MaxRetries, Positive).
		Field("MAX_CHARS", c.Batch.MaxChars, Positive).
		Field("WORKERS", c.Batch.Workers, Positive).
		Field("BACKOFF", c.LLM.Backoff, OneOf(BackoffExponential, BackoffFixed))
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

// SlogLevel maps the configured level name onto slog.
func (c LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) String() string {
	return fmt.Sprintf("input=%s output=%s model=%s retries=%d backoff=%s max_chars=%d workers=%d",
		c.Batch.InputDir, c.Batch.OutputPath, c.LLM.Model, c.LLM.MaxRetries, c.LLM.Backoff, c.Batch.MaxChars, c.Batch.Workers)
}
