package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"watchlist/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

// newConfigInitCommand writes the embedded sample. The destination is the
// positional argument, then --config, then the default location.
func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a sample watchlist.toml",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := sampleTarget(cmd, args)
			if err != nil {
				return err
			}
			if !force {
				if _, statErr := os.Stat(target); statErr == nil {
					return fmt.Errorf("%s exists; pass --force to replace it", target)
				} else if !errors.Is(statErr, fs.ErrNotExist) {
					return fmt.Errorf("inspect %s: %w", target, statErr)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sample config written: %s\n", target)
			fmt.Fprintln(out, "Point client.api_url at your watchlistd instance.")
			fmt.Fprintln(out, "Movie search needs tmdb.api_key on the daemon (or TMDB_API_KEY).")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing file")
	return cmd
}

func sampleTarget(cmd *cobra.Command, args []string) (string, error) {
	target := ""
	if len(args) == 1 {
		target = strings.TrimSpace(args[0])
	}
	if target == "" {
		target, _ = cmd.Flags().GetString("config")
		target = strings.TrimSpace(target)
	}
	if target == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(target)
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, resolved, exists, err := config.Load(strings.TrimSpace(path))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Store backend: %s\n", cfg.Store.Backend)
			fmt.Fprintf(out, "API URL: %s\n", cfg.Client.APIURL)
			if !cfg.CatalogEnabled() {
				fmt.Fprintln(out, "TMDB api key not set; movie search is disabled")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
