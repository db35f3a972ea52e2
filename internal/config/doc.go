// Package config loads, normalizes, and validates watchlist configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and WATCHLIST_API_URL. The same Config serves the daemon
// (listen address, document store, catalog credentials) and the CLI client
// (API URL, poll interval, author name).
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical backend names, and clear validation errors.
package config
