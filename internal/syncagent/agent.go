package syncagent

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"watchlist/internal/api"
	"watchlist/internal/logging"
	"watchlist/internal/services"
	"watchlist/internal/watchlist"
)

// DefaultInterval is the polling cadence used when none is configured.
const DefaultInterval = 2 * time.Second

const rollbackTimeout = 10 * time.Second

// ErrNotLoaded is returned by edits issued before the first successful
// refresh.
var ErrNotLoaded = errors.New("list not loaded")

// API is the subset of the HTTP client the agent uses.
type API interface {
	GetList(ctx context.Context, id string) (api.List, error)
	Mutate(ctx context.Context, id string, m watchlist.Mutation) (api.List, error)
	Search(ctx context.Context, query string) ([]api.SearchResult, error)
	MovieDetails(ctx context.Context, movieID int64) (api.MovieDetailsResponse, error)
}

// Agent mirrors one list.
type Agent struct {
	api       API
	listID    string
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
	newItemID func() string
	onEvent   func(Event)

	mu        sync.Mutex
	snapshot  watchlist.List
	protected bool
	loaded    bool
	tail      chan struct{}

	lookupGen    uint64
	lookupCancel context.CancelFunc

	stopOnce sync.Once
	stop     chan struct{}
}

// Option customizes an Agent.
type Option func(*Agent)

// WithInterval sets the polling cadence.
func WithInterval(d time.Duration) Option {
	return func(a *Agent) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithLogger sets the agent logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logging.NewComponentLogger(logger, "syncagent")
	}
}

// WithClock overrides the time source used for optimistic timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) {
		if now != nil {
			a.now = now
		}
	}
}

// WithItemIDs overrides client-side item id generation.
func WithItemIDs(next func() string) Option {
	return func(a *Agent) {
		if next != nil {
			a.newItemID = next
		}
	}
}

// WithOnEvent registers a callback for snapshot changes. It runs on the
// goroutine that caused the change, without agent locks held.
func WithOnEvent(fn func(Event)) Option {
	return func(a *Agent) {
		a.onEvent = fn
	}
}

// New builds an agent for listID.
func New(client API, listID string, opts ...Option) *Agent {
	a := &Agent{
		api:       client,
		listID:    listID,
		interval:  DefaultInterval,
		logger:    logging.NewComponentLogger(nil, "syncagent"),
		now:       time.Now,
		newItemID: uuid.NewString,
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListID returns the mirrored list id.
func (a *Agent) ListID() string {
	return a.listID
}

// Snapshot returns a copy of the cached list and whether it has been loaded.
func (a *Agent) Snapshot() (watchlist.List, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot.Clone(), a.loaded
}

// Protected reports whether the last server document was password protected.
func (a *Agent) Protected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.protected
}

// Refresh polls the server once. It reports whether the snapshot changed.
func (a *Agent) Refresh(ctx context.Context) (bool, error) {
	dto, err := a.api.GetList(ctx, a.listID)
	if err != nil {
		return false, err
	}
	next := api.ToList(dto)

	a.mu.Lock()
	if a.loaded && a.snapshot.SameRevision(next) {
		a.mu.Unlock()
		return false, nil
	}
	a.snapshot = next
	a.protected = dto.Protected
	a.loaded = true
	a.mu.Unlock()

	a.emit(Event{Type: EventUpdated, List: next.Clone()})
	return true, nil
}

// Run polls until ctx is cancelled or Stop is called. Poll failures are
// logged and retried on the next tick.
func (a *Agent) Run(ctx context.Context) error {
	ctx = services.WithListID(ctx, a.listID)
	logger := logging.WithContext(ctx, a.logger)
	a.poll(ctx, logger)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.stop:
			return nil
		case <-ticker.C:
			a.poll(ctx, logger)
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (a *Agent) Stop() {
	a.stopOnce.Do(func() {
		close(a.stop)
	})
}

func (a *Agent) poll(ctx context.Context, logger *slog.Logger) {
	changed, err := a.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.WarnWithContext(logger, "poll failed", "sync_poll",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the next poll retries automatically"),
		)
		return
	}
	if changed {
		logger.Debug("list refreshed")
	}
}

func (a *Agent) emit(evt Event) {
	if a.onEvent != nil {
		a.onEvent(evt)
	}
}
