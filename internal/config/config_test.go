package config_test

import (
	"strings"
	"testing"
	"time"

	"metaprompt/internal/config"
)

// clearEnv resets every variable Load reads so tests see only what they set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "MP_BASE_URL", "MP_ASSISTANT_ID", "MP_EXPERT_MODEL",
		"MP_POLL_INTERVAL", "MP_POLL_TIMEOUT", "MP_HTTP_TIMEOUT", "MP_PYTHON_BIN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing OPENAI_API_KEY")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.AssistantID != "asst_5ulsgCs9B3ESY3tfs9Ohtvyb" {
		t.Errorf("AssistantID: got %q", cfg.AssistantID)
	}
	if cfg.ExpertModel != "gpt-4-turbo-preview" {
		t.Errorf("ExpertModel: got %q", cfg.ExpertModel)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("PollInterval: got %v", cfg.PollInterval)
	}
	if cfg.PollTimeout != 0 {
		t.Errorf("PollTimeout: got %v, want 0 (unbounded)", cfg.PollTimeout)
	}
	if cfg.PythonBin != "python3" {
		t.Errorf("PythonBin: got %q", cfg.PythonBin)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MP_BASE_URL", "http://127.0.0.1:8123/v1")
	t.Setenv("MP_ASSISTANT_ID", "asst_custom")
	t.Setenv("MP_EXPERT_MODEL", "gpt-4o")
	t.Setenv("MP_POLL_INTERVAL", "250ms")
	t.Setenv("MP_POLL_TIMEOUT", "2m")
	t.Setenv("MP_PYTHON_BIN", "python")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "http://127.0.0.1:8123/v1" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.AssistantID != "asst_custom" {
		t.Errorf("AssistantID: got %q", cfg.AssistantID)
	}
	if cfg.ExpertModel != "gpt-4o" {
		t.Errorf("ExpertModel: got %q", cfg.ExpertModel)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval: got %v", cfg.PollInterval)
	}
	if cfg.PollTimeout != 2*time.Minute {
		t.Errorf("PollTimeout: got %v", cfg.PollTimeout)
	}
	if cfg.PythonBin != "python" {
		t.Errorf("PythonBin: got %q", cfg.PythonBin)
	}
}

func TestLoad_InvalidDurations(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"garbage interval", "MP_POLL_INTERVAL", "soon"},
		{"zero interval", "MP_POLL_INTERVAL", "0s"},
		{"negative interval", "MP_POLL_INTERVAL", "-1s"},
		{"garbage timeout", "MP_POLL_TIMEOUT", "whenever"},
		{"negative timeout", "MP_POLL_TIMEOUT", "-5s"},
		{"zero http timeout", "MP_HTTP_TIMEOUT", "0s"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OPENAI_API_KEY", "sk-test")
			t.Setenv(tc.key, tc.value)

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}
