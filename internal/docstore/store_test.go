package docstore_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"watchlist/internal/config"
	"watchlist/internal/docstore"
	"watchlist/internal/testsupport"
)

type backend struct {
	name string
	open func(t *testing.T) docstore.IndexedStore
}

func backends() []backend {
	return []backend{
		{"memory", func(t *testing.T) docstore.IndexedStore { return docstore.NewMemoryStore() }},
		{"file", func(t *testing.T) docstore.IndexedStore {
			store, err := docstore.OpenFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("OpenFileStore: %v", err)
			}
			return store
		}},
		{"sqlite", func(t *testing.T) docstore.IndexedStore {
			store, err := docstore.OpenSQLite(filepath.Join(t.TempDir(), "docs.db"), true)
			if err != nil {
				t.Fatalf("OpenSQLite: %v", err)
			}
			t.Cleanup(func() { _ = store.Close() })
			return store
		}},
	}
}

func TestStoreContract(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			ctx := context.Background()

			if _, err := store.Get(ctx, "missing"); !errors.Is(err, docstore.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if err := store.Set(ctx, "a", []byte(`{"v":1}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := store.Set(ctx, "a", []byte(`{"v":2}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := store.Get(ctx, "a")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `{"v":2}` {
				t.Fatalf("expected last write to win, got %s", got)
			}
			if err := store.Set(ctx, "b", []byte(`{}`)); err != nil {
				t.Fatalf("Set b: %v", err)
			}

			keys, err := store.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
				t.Fatalf("keys mismatch (-want +got):\n%s", diff)
			}

			if err := store.Delete(ctx, "a"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := store.Delete(ctx, "a"); !errors.Is(err, docstore.ErrNotFound) {
				t.Fatalf("expected second delete to report ErrNotFound, got %v", err)
			}
			if _, err := store.Get(ctx, "a"); !errors.Is(err, docstore.ErrNotFound) {
				t.Fatalf("expected deleted key to be gone, got %v", err)
			}
			keys, err = store.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			if diff := cmp.Diff([]string{"b"}, keys); diff != "" {
				t.Fatalf("keys after delete mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreRejectsInvalidKeys(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			for _, key := range []string{"", "../escape", "a/b", "with space"} {
				if err := store.Set(context.Background(), key, []byte("x")); !errors.Is(err, docstore.ErrInvalidKey) {
					t.Fatalf("Set(%q): expected ErrInvalidKey, got %v", key, err)
				}
			}
		})
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := docstore.NewMemoryStore()
	ctx := context.Background()
	value := []byte("abc")
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'z'
	got, _ := store.Get(ctx, "k")
	got[1] = 'z'
	again, _ := store.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("store should not alias caller buffers, got %s", again)
	}
}

func TestConcurrentWritesStayWhole(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := store.Set(ctx, "shared", fmt.Appendf(nil, `{"writer":%02d}`, i)); err != nil {
						t.Errorf("Set: %v", err)
					}
				}()
			}
			wg.Wait()
			got, err := store.Get(ctx, "shared")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if len(got) != len(`{"writer":00}`) {
				t.Fatalf("expected one complete document, got %q", got)
			}
		})
	}
}

func TestSQLiteReopenKeepsDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.db")
	store, err := docstore.OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := store.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := docstore.OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("expected persisted document, got %q %v", got, err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	for _, backendName := range []string{config.BackendMemory, config.BackendFile, config.BackendSQLite} {
		t.Run(backendName, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithBackend(backendName))
			store, err := docstore.Open(cfg)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer store.Close()
			if err := store.Set(context.Background(), "k", []byte("v")); err != nil {
				t.Fatalf("Set: %v", err)
			}
		})
	}
}
