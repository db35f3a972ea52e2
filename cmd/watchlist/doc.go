// Command watchlist is the command-line client for a watchlist daemon.
//
// Every command talks to the daemon over HTTP. Edits go through the sync
// agent so they are applied optimistically and reconciled with the server's
// document, the same path an interactive client uses. `watchlist watch`
// keeps a list on screen and redraws it whenever a poll observes a change.
package main
