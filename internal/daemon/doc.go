// Package daemon coordinates the long-running watchlist server process.
//
// It wires configuration, the document store, the list service, the optional
// movie catalog, and the HTTP server into a single lifecycle with flock-based
// locking to prevent two daemons from sharing one data directory.
//
// Keep orchestration logic here: request handling lives in internal/server and
// list semantics in internal/listsvc, while the daemon focuses on startup,
// shutdown, and status.
package daemon
