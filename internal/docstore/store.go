package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"watchlist/internal/config"
)

var (
	// ErrNotFound is returned by Get and Delete when the key holds no document.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidKey is returned for keys outside the accepted alphabet.
	ErrInvalidKey = errors.New("invalid document key")
)

// Store is an atomic single-key document store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Index enumerates stored keys.
type Index interface {
	Keys(ctx context.Context) ([]string, error)
}

// IndexedStore is a Store that can also enumerate its keys.
type IndexedStore interface {
	Store
	Index
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidKey reports whether key is usable by every backend. Keys double as
// file names for FileStore, so the alphabet excludes separators.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

func checkKey(key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open constructs the backend named by cfg.Store.Backend.
func Open(cfg *config.Config) (IndexedStore, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("ensure directories: %w", err)
		}
		return OpenFileStore(cfg.DocumentDir())
	case config.BackendSQLite, "":
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("ensure directories: %w", err)
		}
		return OpenSQLite(cfg.DatabasePath(), cfg.Store.IndexLists)
	default:
		return nil, fmt.Errorf("store backend %q is not supported", cfg.Store.Backend)
	}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
