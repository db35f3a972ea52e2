package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"watchlist/internal/catalog"
	"watchlist/internal/config"
	"watchlist/internal/docstore"
	"watchlist/internal/listsvc"
	"watchlist/internal/logging"
	"watchlist/internal/server"
)

// Daemon coordinates the HTTP server and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  docstore.IndexedStore
	lists  *listsvc.Service
	server *server.Server

	catalogEnabled bool

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	Address        string
	Backend        string
	IndexLists     bool
	CatalogEnabled bool
	LockFilePath   string
}

// Option customizes daemon construction.
type Option func(*options)

type options struct {
	catalog    catalog.Catalog
	catalogSet bool
}

// WithCatalog overrides the catalog built from configuration. Pass nil to
// disable catalog routes.
func WithCatalog(cat catalog.Catalog) Option {
	return func(o *options) {
		o.catalog = cat
		o.catalogSet = true
	}
}

// New constructs a daemon with initialized dependencies. The daemon takes
// ownership of store and closes it in Close.
func New(cfg *config.Config, store docstore.IndexedStore, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cat := o.catalog
	if !o.catalogSet && cfg.CatalogEnabled() {
		client, err := catalog.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
			catalog.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
			catalog.WithTimeout(time.Duration(cfg.TMDB.TimeoutSeconds)*time.Second),
		)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		cat = client
	}

	serviceOpts := []listsvc.Option{listsvc.WithLogger(logger)}
	if cfg.Store.IndexLists {
		serviceOpts = append(serviceOpts, listsvc.WithIndex(store))
	}
	lists := listsvc.New(store, serviceOpts...)

	srv, err := server.New(cfg, lists, cat, logger)
	if err != nil {
		return nil, err
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:            cfg,
		logger:         logging.NewComponentLogger(logger, "daemon"),
		store:          store,
		lists:          lists,
		server:         srv,
		catalogEnabled: cat != nil,
		lockPath:       lockPath,
		lock:           flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and starts serving.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another watchlist daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		return fmt.Errorf("start server: %w", err)
	}
	d.cancel = cancel

	d.running.Store(true)
	status := d.Status()
	d.logger.Info("watchlist daemon started",
		logging.String("address", status.Address),
		logging.String("backend", status.Backend),
		logging.Bool("index_lists", status.IndexLists),
		logging.Bool("catalog_enabled", status.CatalogEnabled),
		logging.String("lock", status.LockFilePath),
	)
	return nil
}

// Stop stops serving and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_lock",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the lock file if no daemon is running"),
		)
	}
	d.running.Store(false)
	d.logger.Info("watchlist daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:        d.running.Load(),
		Address:        d.server.Addr(),
		Backend:        d.cfg.Store.Backend,
		IndexLists:     d.cfg.Store.IndexLists,
		CatalogEnabled: d.catalogEnabled,
		LockFilePath:   d.lockPath,
	}
}
