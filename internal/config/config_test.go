package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate runs the test in an empty directory with no credentials or home
// config visible.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{EnvSlackToken, EnvNotionKey, EnvNotionParent} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Slack.ThreadWorkers != 1 {
		t.Errorf("expected ThreadWorkers=1, got %d", cfg.Slack.ThreadWorkers)
	}
	if cfg.Slack.RateLimit != DefaultSlackRequestsPerSecond {
		t.Errorf("expected Slack.RateLimit=%f, got %f", DefaultSlackRequestsPerSecond, cfg.Slack.RateLimit)
	}
	if cfg.Notion.BatchSize != DefaultBatchSize {
		t.Errorf("expected BatchSize=%d, got %d", DefaultBatchSize, cfg.Notion.BatchSize)
	}
	if cfg.Notion.MaxTextLength != 2000 {
		t.Errorf("expected MaxTextLength=2000, got %d", cfg.Notion.MaxTextLength)
	}
	if cfg.State.PreferencesPath != DefaultPreferencesPath {
		t.Errorf("expected PreferencesPath=%s, got %s", DefaultPreferencesPath, cfg.State.PreferencesPath)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected Log.Level=info, got %s", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_CONFIG_VAR", "test_value")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"braced env var", "${TEST_CONFIG_VAR}", "test_value"},
		{"unbraced env var", "$TEST_CONFIG_VAR", "test_value"},
		{"mixed text with env var", "prefix_${TEST_CONFIG_VAR}_suffix", "prefix_test_value_suffix"},
		{"no env var", "literal_value", "literal_value"},
		{"unset env var", "${UNSET_CONFIG_VAR}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnv(tt.input)
			if result != tt.expected {
				t.Errorf("expandEnv(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	t.Setenv("TEST_NOTION_KEY", "secret_key_123")

	configPath := filepath.Join(dir, "config.yaml")
	configContent := `
slack:
  token: xoxb-from-file
  thread_workers: 4
  rate_limit: 1.5
notion:
  api_key: ${TEST_NOTION_KEY}
  parent_page_id: https://www.notion.so/Team-1234567890abcdef1234567890abcdef
  batch_size: 50
  max_text_length: 1500
state:
  db_path: /tmp/history.db
server:
  http_addr: ":8080"
log:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Slack.Token != "xoxb-from-file" {
		t.Errorf("Slack.Token = %q, expected %q", cfg.Slack.Token, "xoxb-from-file")
	}
	if cfg.Slack.ThreadWorkers != 4 {
		t.Errorf("Slack.ThreadWorkers = %d, expected 4", cfg.Slack.ThreadWorkers)
	}
	if cfg.Slack.RateLimit != 1.5 {
		t.Errorf("Slack.RateLimit = %f, expected 1.5", cfg.Slack.RateLimit)
	}
	if cfg.Notion.APIKey != "secret_key_123" {
		t.Errorf("Notion.APIKey = %q, expected %q", cfg.Notion.APIKey, "secret_key_123")
	}
	if !strings.HasSuffix(cfg.Notion.ParentPageID, "1234567890abcdef1234567890abcdef") {
		t.Errorf("Notion.ParentPageID = %q", cfg.Notion.ParentPageID)
	}
	if cfg.Notion.BatchSize != 50 {
		t.Errorf("Notion.BatchSize = %d, expected 50", cfg.Notion.BatchSize)
	}
	if cfg.Notion.MaxTextLength != 1500 {
		t.Errorf("Notion.MaxTextLength = %d, expected 1500", cfg.Notion.MaxTextLength)
	}
	if cfg.State.DBPath != "/tmp/history.db" {
		t.Errorf("State.DBPath = %q, expected /tmp/history.db", cfg.State.DBPath)
	}
	if cfg.State.PreferencesPath != DefaultPreferencesPath {
		t.Errorf("State.PreferencesPath = %q, expected default", cfg.State.PreferencesPath)
	}
	if cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("Server.HTTPAddr = %q, expected :8080", cfg.Server.HTTPAddr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, expected debug", cfg.Log.Level)
	}
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Notion.BatchSize != DefaultBatchSize {
		t.Errorf("expected defaults, got BatchSize=%d", cfg.Notion.BatchSize)
	}
	if len(cfg.MissingSlack()) != 1 || len(cfg.MissingNotion()) != 2 {
		t.Errorf("expected all credentials missing, got %v %v", cfg.MissingSlack(), cfg.MissingNotion())
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	dir := isolate(t)

	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config path")
	}
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := isolate(t)

	content := "notion:\n  batch_size: 25\n"
	if err := os.WriteFile(filepath.Join(dir, ".slack-notion.yml"), []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Notion.BatchSize != 25 {
		t.Errorf("BatchSize = %d, expected 25", cfg.Notion.BatchSize)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)

	configPath := filepath.Join(dir, "config.yaml")
	content := "slack:\n  token: xoxb-file\nnotion:\n  api_key: file-key\n  parent_page_id: file-parent\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv(EnvSlackToken, "xoxb-env")
	t.Setenv(EnvNotionParent, "env-parent")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Slack.Token != "xoxb-env" {
		t.Errorf("Slack.Token = %q, expected xoxb-env", cfg.Slack.Token)
	}
	if cfg.Notion.APIKey != "file-key" {
		t.Errorf("Notion.APIKey = %q, expected file-key", cfg.Notion.APIKey)
	}
	if cfg.Notion.ParentPageID != "env-parent" {
		t.Errorf("Notion.ParentPageID = %q, expected env-parent", cfg.Notion.ParentPageID)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)

	dotenv := EnvSlackToken + "=xoxb-dotenv\n" + EnvNotionKey + "=dotenv-key\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(EnvNotionKey, "real-env-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Slack.Token != "xoxb-dotenv" {
		t.Errorf("Slack.Token = %q, expected xoxb-dotenv", cfg.Slack.Token)
	}
	if cfg.Notion.APIKey != "real-env-key" {
		t.Errorf("Notion.APIKey = %q, existing environment should win", cfg.Notion.APIKey)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolate(t)

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("slack: [unclosed"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"zero workers", func(c *Config) { c.Slack.ThreadWorkers = 0 }, "slack.thread_workers must be at least 1"},
		{"negative slack rate", func(c *Config) { c.Slack.RateLimit = -1 }, "slack.rate_limit must be non-negative"},
		{"negative notion rate", func(c *Config) { c.Notion.RateLimit = -1 }, "notion.rate_limit must be non-negative"},
		{"batch size too large", func(c *Config) { c.Notion.BatchSize = 200 }, "notion.batch_size must be between"},
		{"batch size zero", func(c *Config) { c.Notion.BatchSize = 0 }, "notion.batch_size must be between"},
		{"text length too large", func(c *Config) { c.Notion.MaxTextLength = 2001 }, "notion.max_text_length must be between"},
		{"invalid log level", func(c *Config) { c.Log.Level = "verbose" }, "invalid log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Errorf("expected error containing %q, got nil", tt.errMsg)
			} else if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestMissingCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Notion.APIKey = "key"

	if got := cfg.MissingNotion(); len(got) != 1 || got[0] != EnvNotionParent {
		t.Errorf("MissingNotion() = %v, expected [%s]", got, EnvNotionParent)
	}

	cfg.Slack.Token = "xoxb"
	cfg.Notion.ParentPageID = "page"
	if got := cfg.MissingSlack(); got != nil {
		t.Errorf("MissingSlack() = %v, expected nil", got)
	}
	if got := cfg.MissingNotion(); got != nil {
		t.Errorf("MissingNotion() = %v, expected nil", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.Slack.ThreadWorkers = 3
	cfg.Notion.ParentPageID = "1234567890abcdef1234567890abcdef"

	path := filepath.Join(dir, "nested", "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Slack.ThreadWorkers != 3 {
		t.Errorf("ThreadWorkers = %d, expected 3", loaded.Slack.ThreadWorkers)
	}
	if loaded.Notion.ParentPageID != cfg.Notion.ParentPageID {
		t.Errorf("ParentPageID = %q, expected %q", loaded.Notion.ParentPageID, cfg.Notion.ParentPageID)
	}
}
