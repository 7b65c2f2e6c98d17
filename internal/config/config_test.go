package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("expected Model=gemini-2.5-flash, got %s", cfg.Gemini.Model)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Level=info, got %s", cfg.Logging.Level)
	}
	if !cfg.Chat.ShowToolCalls {
		t.Error("expected ShowToolCalls=true by default")
	}
	if cfg.Chat.AssistantName != "steve" {
		t.Errorf("expected AssistantName=steve, got %s", cfg.Chat.AssistantName)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	// Ensure no env vars interfere
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("STEVE_DB", "")

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Gemini.APIKey = "test-key"
	cfg.Gemini.Model = "gemini-2.5-pro"
	cfg.Chat.AssistantName = "jarvis"
	cfg.Chat.ShowToolCalls = false

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The file may hold the API key.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("expected mode 0600, got %o", mode)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Gemini.APIKey != "test-key" {
		t.Errorf("expected APIKey=test-key, got %s", loaded.Gemini.APIKey)
	}
	if loaded.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("expected Model=gemini-2.5-pro, got %s", loaded.Gemini.Model)
	}
	if loaded.Chat.ShowToolCalls {
		t.Error("expected ShowToolCalls=false after round trip")
	}
	if loaded.Chat.AssistantName != "jarvis" {
		t.Errorf("expected AssistantName=jarvis after round trip, got %s", loaded.Chat.AssistantName)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("STEVE_DB", "")

	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("expected default Model, got %s", cfg.Gemini.Model)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("STEVE_DB", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("gemini:\n  api_key: file-key\n")
	if err := os.WriteFile(path, partial, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gemini.APIKey != "file-key" {
		t.Errorf("expected APIKey=file-key, got %s", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("expected default Model to survive partial file, got %s", cfg.Gemini.Model)
	}
	if cfg.Chat.AssistantName != "steve" {
		t.Errorf("expected default AssistantName to survive partial file, got %s", cfg.Chat.AssistantName)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("STEVE_DB", "/tmp/elsewhere.db")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("expected APIKey=env-key, got %s", cfg.Gemini.APIKey)
	}
	if cfg.Storage.DatabasePath != "/tmp/elsewhere.db" {
		t.Errorf("expected DatabasePath=/tmp/elsewhere.db, got %s", cfg.Storage.DatabasePath)
	}
}

func TestConfig_EnvBeatsFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("STEVE_DB", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Gemini.APIKey = "file-key"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Gemini.APIKey != "env-key" {
		t.Errorf("expected env override to win, got %s", loaded.Gemini.APIKey)
	}
}

func TestDefaultPath_HonorsEnv(t *testing.T) {
	t.Setenv("STEVE_CONFIG", "/tmp/custom/steve.yaml")
	if got := DefaultPath(); got != "/tmp/custom/steve.yaml" {
		t.Errorf("expected STEVE_CONFIG path, got %s", got)
	}
}

func TestConfig_GetTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GetTimeout() != 120*time.Second {
		t.Errorf("expected default timeout 120s, got %s", cfg.GetTimeout())
	}

	cfg.Gemini.Timeout = "5s"
	if cfg.GetTimeout() != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.GetTimeout())
	}

	cfg.Gemini.Timeout = "not-a-duration"
	if cfg.GetTimeout() != 120*time.Second {
		t.Errorf("expected fallback 120s, got %s", cfg.GetTimeout())
	}
}
