package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Valentinhdn/Pixel-Tracer/internal/registry"
	"github.com/Valentinhdn/Pixel-Tracer/internal/watcher"
)

const envPrefix = "PIXELTRACER_"

type Config struct {
	DataDir        string
	Capacity       int
	LogLevel       string
	LogFormat      string
	JournalEnabled bool
	JournalPath    string
	SocketPath     string
	Watcher        watcher.WatcherConfig
}

// Load returns the defaults rooted at ~/.pixeltracer with PIXELTRACER_*
// environment overrides applied.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

func LoadFrom(getenv func(string) string) (*Config, error) {
	dataDir := getenv(envPrefix + "HOME")
	if dataDir == "" {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".pixeltracer")
	}

	cfg := &Config{
		DataDir:        dataDir,
		Capacity:       registry.DefaultCapacity,
		LogLevel:       "info",
		LogFormat:      "text",
		JournalEnabled: true,
		JournalPath:    filepath.Join(dataDir, "journal.db"),
		SocketPath:     filepath.Join(dataDir, "catalog.sock"),
		Watcher:        watcher.DefaultWatcherConfig(),
	}

	if v := getenv(envPrefix + "CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%sCAPACITY must be a positive integer, got %q", envPrefix, v)
		}
		cfg.Capacity = n
	}

	if v := getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := getenv(envPrefix + "LOG_FORMAT"); v != "" {
		if v != "text" && v != "json" {
			return nil, fmt.Errorf("%sLOG_FORMAT must be text or json, got %q", envPrefix, v)
		}
		cfg.LogFormat = v
	}

	if v := getenv(envPrefix + "JOURNAL"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%sJOURNAL must be a boolean, got %q", envPrefix, v)
		}
		cfg.JournalEnabled = enabled
	}

	if v := getenv(envPrefix + "JOURNAL_PATH"); v != "" {
		cfg.JournalPath = v
	}

	if v := getenv(envPrefix + "SOCKET"); v != "" {
		cfg.SocketPath = v
	}

	if v := getenv(envPrefix + "WATCH_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%sWATCH_DEBOUNCE: %w", envPrefix, err)
		}
		cfg.Watcher.DebounceWindow = d
	}

	return cfg, nil
}

func (c *Config) PIDPath() string {
	return filepath.Join(c.DataDir, "serve.pid")
}

func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "serve.lock")
}

func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(c.DataDir, 0700)
}
