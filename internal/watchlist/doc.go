// Package watchlist holds the shared list document model and the mutation
// engine that advances it.
//
// Apply is a pure function: given the current List snapshot and one Mutation
// it returns the next snapshot without touching the input or performing I/O.
// The same engine runs on the server (inside the list service, between the
// store read and the store write) and on clients (for optimistic local
// updates), so both sides agree on what a mutation means.
//
// Every successful Apply advances Version by exactly one and stamps
// UpdatedAt, even when the mutation turns out to be a no-op (adding an id
// that already exists, removing or updating an id that is absent). Callers
// that want absent ids reported as errors must check before applying; the
// list service does exactly that.
package watchlist
