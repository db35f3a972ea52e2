package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"watchlist/internal/client"
	"watchlist/internal/config"
	"watchlist/internal/logging"
	"watchlist/internal/syncagent"
)

type globalFlags struct {
	configPath string
	apiURL     string
	password   string
	json       bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if url := strings.TrimSpace(c.flags.apiURL); url != "" {
			cfg.Client.APIURL = url
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) password() string {
	if c.flags.password != "" {
		return c.flags.password
	}
	return os.Getenv("WATCHLIST_PASSWORD")
}

func (c *commandContext) jsonOutput() bool {
	return c.flags.json
}

func (c *commandContext) newClient() (*client.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.Client.APIURL,
		client.WithTimeout(cfg.RequestTimeout()),
		client.WithPassword(c.password()),
	)
}

// withAgent loads listID through a sync agent and hands it to fn.
func (c *commandContext) withAgent(ctx context.Context, listID string, opts []syncagent.Option, fn func(*syncagent.Agent) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	api, err := c.newClient()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg, "")
	if err != nil {
		return err
	}
	base := []syncagent.Option{
		syncagent.WithInterval(cfg.PollInterval()),
		syncagent.WithLogger(logger),
	}
	agent := syncagent.New(api, listID, append(base, opts...)...)
	if _, err := agent.Refresh(ctx); err != nil {
		return c.explain(err)
	}
	return fn(agent)
}

func (c *commandContext) author() string {
	cfg, err := c.ensureConfig()
	if err != nil {
		return ""
	}
	return cfg.Client.Author
}

// explain turns transport failures into an actionable message.
func (c *commandContext) explain(err error) error {
	if err == nil {
		return nil
	}
	if client.IsAPIUnavailable(err) {
		url := ""
		if cfg, cfgErr := c.ensureConfig(); cfgErr == nil {
			url = cfg.Client.APIURL
		}
		return fmt.Errorf("connect to daemon at %s: is watchlistd running? (%w)", url, err)
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
