package config

import (
	"errors"
	"fmt"
	"net/url"
)

// minPollIntervalSeconds keeps misconfigured clients from hammering the API.
const minPollIntervalSeconds = 0.5

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateClient(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	return ensurePositiveMap(map[string]int{
		"server.read_timeout_seconds":  c.Server.ReadTimeoutSeconds,
		"server.write_timeout_seconds": c.Server.WriteTimeoutSeconds,
		"server.idle_timeout_seconds":  c.Server.IdleTimeoutSeconds,
	})
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("store.backend: unsupported value %q (expected sqlite, file, or memory)", c.Store.Backend)
	}
	if c.Store.Backend != BackendMemory && c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set for persistent store backends")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.TimeoutSeconds <= 0 {
		return errors.New("tmdb.timeout_seconds must be positive")
	}
	if _, err := url.Parse(c.TMDB.BaseURL); err != nil {
		return fmt.Errorf("tmdb.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateClient() error {
	if c.Client.PollIntervalSeconds < minPollIntervalSeconds {
		return fmt.Errorf("client.poll_interval_seconds must be at least %.1f", minPollIntervalSeconds)
	}
	if c.Client.RequestTimeoutSeconds <= 0 {
		return errors.New("client.request_timeout_seconds must be positive")
	}
	parsed, err := url.Parse(c.Client.APIURL)
	if err != nil {
		return fmt.Errorf("client.api_url: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("client.api_url: missing host in %q", c.Client.APIURL)
	}
	if len([]rune(c.Client.Author)) > 40 {
		return errors.New("client.author must be at most 40 characters")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
