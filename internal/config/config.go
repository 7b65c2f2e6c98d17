// Package config loads and persists steve's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all steve configuration.
type Config struct {
	Gemini  GeminiConfig  `yaml:"gemini"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Chat    ChatConfig    `yaml:"chat"`
}

// GeminiConfig configures the Gemini API connection.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// StorageConfig configures the SQLite store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// ChatConfig configures the chat interface.
type ChatConfig struct {
	// AssistantName is the name the chat surface shows for the assistant.
	AssistantName string `yaml:"assistant_name"`

	// ShowToolCalls renders each tool call inline in the transcript.
	ShowToolCalls bool `yaml:"show_tool_calls"`
}

// Dir returns the steve home directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".steve"
	}
	return filepath.Join(home, ".steve")
}

// DefaultPath returns the config file location, honoring STEVE_CONFIG.
func DefaultPath() string {
	if path := os.Getenv("STEVE_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:   "gemini-2.5-flash",
			Timeout: "120s",
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(Dir(), "steve.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(Dir(), "steve.log"),
		},
		Chat: ChatConfig{
			AssistantName: "steve",
			ShowToolCalls: true,
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; environment variables override either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file, creating the directory as
// needed. The file may hold the API key, so it is not world readable.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if path := os.Getenv("STEVE_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
}

// GetTimeout returns the Gemini request timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Gemini.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}
