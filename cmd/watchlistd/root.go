package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"watchlist/internal/config"
	"watchlist/internal/daemon"
	"watchlist/internal/docstore"
	"watchlist/internal/logging"
)

type daemonFlags struct {
	configPath string
	bind       string
	backend    string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	flags := &daemonFlags{}
	cmd := &cobra.Command{
		Use:           "watchlistd",
		Short:         "Serve shared watchlists over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg, "watchlistd.log")
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return run(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&flags.bind, "bind", "", "Listen address (overrides server.bind)")
	cmd.Flags().StringVar(&flags.backend, "backend", "", "Document store backend: sqlite, file, or memory")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level (overrides logging.level)")
	return cmd
}

func loadConfig(flags *daemonFlags) (*config.Config, error) {
	cfg, _, _, err := config.Load(strings.TrimSpace(flags.configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if bind := strings.TrimSpace(flags.bind); bind != "" {
		cfg.Server.Bind = bind
	}
	if backend := strings.TrimSpace(flags.backend); backend != "" {
		cfg.Store.Backend = strings.ToLower(backend)
	}
	if level := strings.TrimSpace(flags.logLevel); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...daemon.Option) error {
	d, err := buildDaemon(cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("close store", logging.Error(err))
		}
	}()

	if err := d.Start(ctx); err != nil {
		return err
	}
	if !d.Status().CatalogEnabled {
		logger.Info("tmdb api key not configured; search and movie lookups are disabled")
	}

	<-ctx.Done()
	logger.Info("watchlistd shutting down")
	return nil
}

func buildDaemon(cfg *config.Config, logger *slog.Logger, opts ...daemon.Option) (*daemon.Daemon, error) {
	store, err := docstore.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	d, err := daemon.New(cfg, store, logger, opts...)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create daemon: %w", err)
	}
	return d, nil
}
