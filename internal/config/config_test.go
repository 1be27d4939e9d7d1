package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{"PIXELTRACER_HOME": "/data/pt"}))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Capacity != 10 {
		t.Errorf("expected capacity 10, got %d", cfg.Capacity)
	}
	if !cfg.JournalEnabled || cfg.JournalPath != filepath.Join("/data/pt", "journal.db") {
		t.Errorf("unexpected journal config: %v %s", cfg.JournalEnabled, cfg.JournalPath)
	}
	if cfg.SocketPath != filepath.Join("/data/pt", "catalog.sock") {
		t.Errorf("unexpected socket path: %s", cfg.SocketPath)
	}
	if cfg.PIDPath() != filepath.Join("/data/pt", "serve.pid") {
		t.Errorf("unexpected pid path: %s", cfg.PIDPath())
	}
}

func TestOverrides(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"PIXELTRACER_HOME":           "/data/pt",
		"PIXELTRACER_CAPACITY":       "25",
		"PIXELTRACER_LOG_LEVEL":      "debug",
		"PIXELTRACER_LOG_FORMAT":     "json",
		"PIXELTRACER_JOURNAL":        "false",
		"PIXELTRACER_SOCKET":         "/run/pt.sock",
		"PIXELTRACER_WATCH_DEBOUNCE": "50ms",
	}))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Capacity != 25 || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.JournalEnabled {
		t.Error("journal should be disabled")
	}
	if cfg.SocketPath != "/run/pt.sock" {
		t.Errorf("unexpected socket path: %s", cfg.SocketPath)
	}
	if cfg.Watcher.DebounceWindow != 50*time.Millisecond {
		t.Errorf("unexpected debounce: %v", cfg.Watcher.DebounceWindow)
	}
}

func TestInvalidOverrides(t *testing.T) {
	bad := []map[string]string{
		{"PIXELTRACER_CAPACITY": "0"},
		{"PIXELTRACER_CAPACITY": "ten"},
		{"PIXELTRACER_LOG_FORMAT": "xml"},
		{"PIXELTRACER_JOURNAL": "maybe"},
		{"PIXELTRACER_WATCH_DEBOUNCE": "soon"},
	}
	for _, values := range bad {
		if _, err := LoadFrom(env(values)); err == nil {
			t.Errorf("expected error for %v", values)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "pt")
	cfg, _ := LoadFrom(env(map[string]string{"PIXELTRACER_HOME": dir}))

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
}
