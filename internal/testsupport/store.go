package testsupport

import (
	"testing"

	"watchlist/internal/config"
	"watchlist/internal/docstore"
)

// MustOpenStore opens the configured document store and closes it when the
// test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) docstore.IndexedStore {
	t.Helper()

	store, err := docstore.Open(cfg)
	if err != nil {
		t.Fatalf("docstore.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
