package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"watchlist/internal/config"
)

func TestLoadDefaultConfigUsesEnvTMDBKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("WATCHLIST_API_URL", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "watchlist")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Server.Bind != "127.0.0.1:7488" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Store.Backend != config.BackendSQLite {
		t.Fatalf("unexpected backend: %q", cfg.Store.Backend)
	}
	if !cfg.Store.IndexLists {
		t.Fatal("expected list index enabled by default")
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if !cfg.CatalogEnabled() {
		t.Fatal("expected catalog enabled with key present")
	}
	if cfg.PollInterval() != 2*time.Second {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval())
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "watchlist.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("WATCHLIST_API_URL", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
data_dir = "~/lists"

[store]
backend = " FILE "
index_lists = false

[tmdb]
api_key = "file-key"
base_url = "https://tmdb.example/3/"

[client]
api_url = "lists.example:9000/"
poll_interval_seconds = 5.5
author = "  Sam "

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "lists") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Store.Backend != config.BackendFile {
		t.Fatalf("expected backend normalized to file, got %q", cfg.Store.Backend)
	}
	if cfg.Store.IndexLists {
		t.Fatal("expected list index disabled")
	}
	if cfg.TMDB.APIKey != "file-key" {
		t.Fatalf("expected file TMDB key, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://tmdb.example/3" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.Client.APIURL != "http://lists.example:9000" {
		t.Fatalf("unexpected api url: %q", cfg.Client.APIURL)
	}
	if cfg.PollInterval() != 5500*time.Millisecond {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval())
	}
	if cfg.Client.Author != "Sam" {
		t.Fatalf("expected author trimmed, got %q", cfg.Client.Author)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadAPIURLFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WATCHLIST_API_URL", "https://lists.example.com/")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Client.APIURL != "https://lists.example.com" {
		t.Fatalf("expected env api url, got %q", cfg.Client.APIURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"poll", func(c *config.Config) { c.Client.PollIntervalSeconds = 0.1 }, "poll_interval_seconds"},
		{"timeout", func(c *config.Config) { c.Client.RequestTimeoutSeconds = 0 }, "request_timeout_seconds"},
		{"server", func(c *config.Config) { c.Server.ReadTimeoutSeconds = -1 }, "server.read_timeout_seconds"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"author", func(c *config.Config) { c.Client.Author = strings.Repeat("a", 41) }, "client.author"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestCreateSampleProducesParsableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config should parse: %v", err)
	}
	if parsed.Store.Backend != config.BackendSQLite {
		t.Fatalf("unexpected sample backend: %q", parsed.Store.Backend)
	}
	if parsed.Client.PollIntervalSeconds != 2.0 {
		t.Fatalf("unexpected sample poll interval: %v", parsed.Client.PollIntervalSeconds)
	}
}

func TestEnsureDirectoriesCreatesDataAndLogDirs(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", dir)
		}
	}
}
