package main

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"watchlist/internal/config"
	"watchlist/internal/daemon"
	"watchlist/internal/logging"
	"watchlist/internal/testsupport"
)

func TestBuildDaemonPerBackend(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile, config.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithBackend(backend))
			if err := cfg.EnsureDirectories(); err != nil {
				t.Fatalf("EnsureDirectories: %v", err)
			}
			d, err := buildDaemon(cfg, logging.NewNop(), daemon.WithCatalog(nil))
			if err != nil {
				t.Fatalf("buildDaemon: %v", err)
			}
			if got := d.Status().Backend; got != backend {
				t.Fatalf("expected backend %q, got %q", backend, got)
			}
			if err := d.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
		})
	}
}

func TestRunServesUntilCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	// A fixed port is needed so the test can reach the daemon; pick a free one first.
	cfg.Server.Bind = freeAddr(t)

	// The config carries a TMDB key; the catalog is switched off by option,
	// and the startup log must follow the daemon rather than the config.
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, logger, daemon.WithCatalog(nil)) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + cfg.Server.Bind + "/api/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("daemon never became healthy: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}

	out := logs.String()
	if !strings.Contains(out, `"catalog_enabled":false`) || !strings.Contains(out, "movie lookups are disabled") {
		t.Fatalf("expected startup status in logs, got:\n%s", out)
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	flags := &daemonFlags{
		configPath: filepath.Join(home, "missing.toml"),
		bind:       "127.0.0.1:9999",
		backend:    "MEMORY",
		logLevel:   "debug",
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Bind != "127.0.0.1:9999" || cfg.Store.Backend != config.BackendMemory || cfg.Logging.Level != "debug" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if _, err := os.Stat(cfg.Paths.DataDir); err != nil {
		t.Fatalf("expected data dir created: %v", err)
	}

	flags.backend = "postgres"
	if _, err := loadConfig(flags); err == nil {
		t.Fatal("expected unsupported backend to fail validation")
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}
