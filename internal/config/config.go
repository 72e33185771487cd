package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL      = "https://api.openai.com/v1"
	defaultAssistantID  = "asst_5ulsgCs9B3ESY3tfs9Ohtvyb"
	defaultExpertModel  = "gpt-4-turbo-preview"
	defaultPollInterval = 1 * time.Second
	defaultPollTimeout  = 0 * time.Second // unbounded
	defaultHTTPTimeout  = 60 * time.Second
	defaultPythonBin    = "python3"
)

// Config controls the assistant loop: remote endpoints, the orchestrating
// assistant, polling cadence, and the local script interpreter.
type Config struct {
	APIKey       string
	BaseURL      string
	AssistantID  string
	ExpertModel  string
	PollInterval time.Duration
	// PollTimeout bounds a whole drive of one run. Zero disables the
	// deadline, preserving the unbounded wait of the original loop.
	PollTimeout time.Duration
	HTTPTimeout time.Duration
	PythonBin   string
}

// Load reads runtime configuration from environment variables.
func Load() (Config, error) {
	cfg := Default()

	cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))

	if v := strings.TrimSpace(os.Getenv("MP_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("MP_ASSISTANT_ID")); v != "" {
		cfg.AssistantID = v
	}
	if v := strings.TrimSpace(os.Getenv("MP_EXPERT_MODEL")); v != "" {
		cfg.ExpertModel = v
	}
	if v := strings.TrimSpace(os.Getenv("MP_POLL_INTERVAL")); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse MP_POLL_INTERVAL: %w", err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("parse MP_POLL_INTERVAL: value must be > 0")
		}
		cfg.PollInterval = parsed
	}
	if v := strings.TrimSpace(os.Getenv("MP_POLL_TIMEOUT")); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse MP_POLL_TIMEOUT: %w", err)
		}
		if parsed < 0 {
			return Config{}, fmt.Errorf("parse MP_POLL_TIMEOUT: value must be >= 0")
		}
		cfg.PollTimeout = parsed
	}
	if v := strings.TrimSpace(os.Getenv("MP_HTTP_TIMEOUT")); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse MP_HTTP_TIMEOUT: %w", err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("parse MP_HTTP_TIMEOUT: value must be > 0")
		}
		cfg.HTTPTimeout = parsed
	}
	if v := strings.TrimSpace(os.Getenv("MP_PYTHON_BIN")); v != "" {
		cfg.PythonBin = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration before environment overrides.
func Default() Config {
	return Config{
		BaseURL:      defaultBaseURL,
		AssistantID:  defaultAssistantID,
		ExpertModel:  defaultExpertModel,
		PollInterval: defaultPollInterval,
		PollTimeout:  defaultPollTimeout,
		HTTPTimeout:  defaultHTTPTimeout,
		PythonBin:    defaultPythonBin,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("validate config: OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("validate config: MP_BASE_URL must not be empty")
	}
	if strings.TrimSpace(c.AssistantID) == "" {
		return errors.New("validate config: MP_ASSISTANT_ID must not be empty")
	}
	if strings.TrimSpace(c.ExpertModel) == "" {
		return errors.New("validate config: MP_EXPERT_MODEL must not be empty")
	}
	if c.PollInterval <= 0 {
		return errors.New("validate config: MP_POLL_INTERVAL must be > 0")
	}
	if c.PollTimeout < 0 {
		return errors.New("validate config: MP_POLL_TIMEOUT must be >= 0")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("validate config: MP_HTTP_TIMEOUT must be > 0")
	}
	if strings.TrimSpace(c.PythonBin) == "" {
		return errors.New("validate config: MP_PYTHON_BIN must not be empty")
	}
	return nil
}
