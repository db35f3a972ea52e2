// Package listsvc implements the request handling core of the watchlist
// daemon: load the list document, authorize the caller, validate the request,
// run the mutation engine, and persist the result.
//
// There is no compare-and-swap between the load and the save. Two writers
// that race on the same list both succeed and the later save wins, which can
// drop the earlier writer's change. Item-level operations recompute against
// the freshly loaded document so they only lose inside that short window; a
// FullReplace built from a stale client snapshot overwrites everything that
// happened since the snapshot was taken.
//
// The package is the only place that decides authorization and error kinds.
// Callers match results with errors.Is against the exported sentinels.
package listsvc
