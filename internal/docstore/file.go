package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
)

const (
	documentExt    = ".json"
	lockDirName    = ".locks"
	lockRetryDelay = 10 * time.Millisecond
	lockTimeout    = 5 * time.Second
)

// ErrLockTimeout is returned when a per-key lock cannot be acquired in time.
var ErrLockTimeout = errors.New("document lock timeout")

// FileStore keeps one file per key under a directory. Writes replace the file
// atomically (write temp, rename) while holding an exclusive advisory lock on
// a sibling lock file; reads hold a shared lock so they never observe a
// half-finished delete.
type FileStore struct {
	dir string

	// flock serializes processes; this serializes goroutines that would
	// otherwise race on the same lock file descriptor.
	mu    sync.Mutex
	local map[string]*sync.RWMutex
}

// OpenFileStore prepares dir (and its lock directory) for use.
func OpenFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, lockDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{dir: dir, local: make(map[string]*sync.RWMutex)}, nil
}

// Dir returns the document directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if !ValidKey(key) {
		return nil, ErrNotFound
	}
	var data []byte
	err := s.withLock(ensureContext(ctx), key, false, func() error {
		var readErr error
		data, readErr = os.ReadFile(s.documentPath(key))
		return readErr
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := s.withLock(ensureContext(ctx), key, true, func() error {
		return atomic.WriteFile(s.documentPath(key), bytes.NewReader(value))
	})
	if err != nil {
		return fmt.Errorf("write document %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if !ValidKey(key) {
		return ErrNotFound
	}
	err := s.withLock(ensureContext(ctx), key, true, func() error {
		return os.Remove(s.documentPath(key))
	})
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete document %s: %w", key, err)
	}
	return nil
}

// Keys lists the documents present in the directory.
func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	if err := ensureContext(ctx).Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, documentExt) {
			continue
		}
		key := strings.TrimSuffix(name, documentExt)
		if ValidKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) documentPath(key string) string {
	return filepath.Join(s.dir, key+documentExt)
}

func (s *FileStore) localLock(key string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.local[key]
	if !ok {
		l = &sync.RWMutex{}
		s.local[key] = l
	}
	return l
}

func (s *FileStore) withLock(ctx context.Context, key string, exclusive bool, fn func() error) error {
	local := s.localLock(key)
	if exclusive {
		local.Lock()
		defer local.Unlock()
	} else {
		local.RLock()
		defer local.RUnlock()
	}

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	lock := flock.New(filepath.Join(s.dir, lockDirName, key+".lock"))
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = lock.TryLockContext(lockCtx, lockRetryDelay)
	} else {
		ok, err = lock.TryRLockContext(lockCtx, lockRetryDelay)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("%w: %s", ErrLockTimeout, key)
		}
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLockTimeout, key)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}
