// Package docstore persists opaque documents under string keys.
//
// The contract is deliberately small: Get, Set, and Delete are each atomic
// for a single key, and there is no compare-and-swap. Callers that read,
// modify, and write a document accept that a concurrent writer may land in
// between. Backends:
//
//   - SQLiteStore: one row per document in a WAL-mode database, with an
//     optional list_index table maintained in the same transaction.
//   - FileStore: one JSON file per key, replaced atomically and guarded by
//     per-key advisory locks so several processes can share a directory.
//   - MemoryStore: a map, for tests and throwaway daemons.
//
// Every backend also implements Index so the set of stored keys can be
// enumerated.
package docstore
