// Package syncagent keeps a client-side copy of one watchlist in step with
// the server.
//
// The agent polls the list on a fixed interval and applies local edits
// optimistically: the mutation engine runs against the cached snapshot first,
// then the write goes out. A successful write replaces the snapshot with the
// server's document; a failed one re-fetches the list wholesale. Writes are
// chained so only one is in flight at a time and they reach the server in the
// order they were issued. Catalog lookups carry a generation so a slow
// response for an abandoned search never lands on the list.
package syncagent
