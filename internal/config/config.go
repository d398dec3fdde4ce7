// Package config handles configuration loading for slack-notion.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultSlackRequestsPerSecond  = 2.0
	DefaultNotionRequestsPerSecond = 3.0
	DefaultThreadWorkers           = 1
	DefaultBatchSize               = 100
	DefaultMaxTextLength           = 2000
	DefaultDBPath                  = ".claude/slack-to-notion/history.db"
	DefaultPreferencesPath         = ".claude/slack-to-notion/preferences.md"
	DefaultLogLevel                = "info"

	// MaxBatchSize is the most children Notion accepts in one request.
	MaxBatchSize = 100
)

// Environment variables that override file values.
const (
	EnvSlackToken   = "SLACK_BOT_TOKEN"
	EnvNotionKey    = "NOTION_API_KEY"
	EnvNotionParent = "NOTION_PARENT_PAGE_ID"
)

// Config represents the complete configuration for slack-notion.
type Config struct {
	Slack  SlackConfig  `yaml:"slack"`
	Notion NotionConfig `yaml:"notion"`
	State  StateConfig  `yaml:"state"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// SlackConfig holds Slack API settings.
type SlackConfig struct {
	// Token is the bot token. Can be a literal value or ${ENV_VAR} reference.
	Token string `yaml:"token"`

	// ThreadWorkers bounds parallel thread fetches. 1 fetches serially.
	ThreadWorkers int `yaml:"thread_workers"`

	RateLimit float64 `yaml:"rate_limit"`
}

// NotionConfig holds Notion API settings.
type NotionConfig struct {
	// APIKey is the integration token. Can be a literal value or ${ENV_VAR}
	// reference.
	APIKey string `yaml:"api_key"`

	// ParentPageID accepts a page URL, a dashed UUID or a 32-hex ID.
	ParentPageID string `yaml:"parent_page_id"`

	// BatchSize is the max blocks per API request.
	BatchSize int `yaml:"batch_size"`

	// MaxTextLength is the max code points per rich text fragment.
	MaxTextLength int `yaml:"max_text_length"`

	RateLimit float64 `yaml:"rate_limit"`
}

// StateConfig holds local file locations.
type StateConfig struct {
	DBPath          string `yaml:"db_path"`
	PreferencesPath string `yaml:"preferences_path"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	// HTTPAddr serves Streamable HTTP instead of stdio when set.
	HTTPAddr string `yaml:"http_addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Slack: SlackConfig{
			ThreadWorkers: DefaultThreadWorkers,
			RateLimit:     DefaultSlackRequestsPerSecond,
		},
		Notion: NotionConfig{
			BatchSize:     DefaultBatchSize,
			MaxTextLength: DefaultMaxTextLength,
			RateLimit:     DefaultNotionRequestsPerSecond,
		},
		State: StateConfig{
			DBPath:          DefaultDBPath,
			PreferencesPath: DefaultPreferencesPath,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load builds the configuration from, in increasing precedence: defaults, the
// config file, and the environment (including a .env file in the working
// directory). An explicit path must exist; otherwise the default locations are
// searched and a missing file is not an error.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv sets variables from filename that are not already in the
// environment.
func loadDotEnv(filename string) error {
	err := godotenv.Load(filename)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", filename, err)
}

// Locations returns the config file search order.
func Locations() []string {
	locations := []string{
		".slack-notion.yaml",
		".slack-notion.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".config", "slack-notion", "config.yaml"),
		)
	}
	return locations
}

func findConfigFile() string {
	for _, loc := range Locations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	c.expandEnvVars()
	return nil
}

// expandEnvVars expands ${ENV_VAR} references in config values.
func (c *Config) expandEnvVars() {
	c.Slack.Token = expandEnv(c.Slack.Token)
	c.Notion.APIKey = expandEnv(c.Notion.APIKey)
	c.Notion.ParentPageID = expandEnv(c.Notion.ParentPageID)
	c.State.DBPath = expandHome(expandEnv(c.State.DBPath))
	c.State.PreferencesPath = expandHome(expandEnv(c.State.PreferencesPath))
}

// applyEnv overrides credentials with non-empty environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSlackToken); v != "" {
		c.Slack.Token = v
	}
	if v := os.Getenv(EnvNotionKey); v != "" {
		c.Notion.APIKey = v
	}
	if v := os.Getenv(EnvNotionParent); v != "" {
		c.Notion.ParentPageID = v
	}
}

// expandEnv expands ${VAR} or $VAR references.
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return os.ExpandEnv(s)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// Validate checks value ranges. Credentials are not required here; see
// MissingSlack and MissingNotion.
func (c *Config) Validate() error {
	if c.Slack.ThreadWorkers < 1 {
		return fmt.Errorf("slack.thread_workers must be at least 1")
	}
	if c.Slack.RateLimit < 0 {
		return fmt.Errorf("slack.rate_limit must be non-negative")
	}
	if c.Notion.RateLimit < 0 {
		return fmt.Errorf("notion.rate_limit must be non-negative")
	}
	if c.Notion.BatchSize < 1 || c.Notion.BatchSize > MaxBatchSize {
		return fmt.Errorf("notion.batch_size must be between 1 and %d", MaxBatchSize)
	}
	if c.Notion.MaxTextLength < 1 || c.Notion.MaxTextLength > DefaultMaxTextLength {
		return fmt.Errorf("notion.max_text_length must be between 1 and %d", DefaultMaxTextLength)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (use debug, info, warn or error)", c.Log.Level)
	}
	return nil
}

// MissingSlack lists the unset Slack credentials.
func (c *Config) MissingSlack() []string {
	if c.Slack.Token == "" {
		return []string{EnvSlackToken}
	}
	return nil
}

// MissingNotion lists the unset Notion credentials.
func (c *Config) MissingNotion() []string {
	var missing []string
	if c.Notion.APIKey == "" {
		missing = append(missing, EnvNotionKey)
	}
	if c.Notion.ParentPageID == "" {
		missing = append(missing, EnvNotionParent)
	}
	return missing
}

// Save writes the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
