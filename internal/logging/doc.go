// Package logging assembles structured slog loggers and formatting helpers used
// by the watchlist daemon and CLI.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handling code can tag
// log lines with list IDs and correlation IDs. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
