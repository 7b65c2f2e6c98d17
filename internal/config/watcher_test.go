package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startTestWatcher wires a watcher with a short settle window so tests do
// not sit through the production debounce.
func startTestWatcher(t *testing.T, path string) (*Watcher, chan *Config) {
	t.Helper()

	reloads := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloads <- cfg }, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		w.Stop()
		cancel()
	})
	return w, reloads
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, reloads := startTestWatcher(t, path)

	cfg := DefaultConfig()
	cfg.Gemini.Model = "gemini-2.5-pro"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	select {
	case got := <-reloads:
		if got.Gemini.Model != "gemini-2.5-pro" {
			t.Errorf("expected reloaded Model=gemini-2.5-pro, got %s", got.Gemini.Model)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	_, reloads := startTestWatcher(t, path)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("nope"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	select {
	case <-reloads:
		t.Fatal("unexpected reload for unrelated file")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_SurvivesBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, reloads := startTestWatcher(t, path)

	if err := os.WriteFile(path, []byte("gemini: [broken"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	// Let the bad write settle so the failed reload happens before the fix.
	time.Sleep(300 * time.Millisecond)

	cfg := DefaultConfig()
	cfg.Gemini.Model = "gemini-2.5-pro"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	select {
	case got := <-reloads:
		if got.Gemini.Model != "gemini-2.5-pro" {
			t.Errorf("expected Model=gemini-2.5-pro after recovery, got %s", got.Gemini.Model)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload after bad config")
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"), func(*Config) {}, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Stop()
	w.Stop() // stopping again must not panic
}
