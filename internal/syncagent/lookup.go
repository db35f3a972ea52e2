package syncagent

import (
	"context"
	"errors"

	"watchlist/internal/api"
	"watchlist/internal/watchlist"
)

// ErrStaleLookup is returned when a newer lookup superseded the one a result
// belongs to.
var ErrStaleLookup = errors.New("lookup superseded")

// Lookup is one generation of catalog activity. Starting a new lookup
// cancels the previous one.
type Lookup struct {
	ctx context.Context
	gen uint64
}

// Context returns the lookup's cancellable context.
func (l Lookup) Context() context.Context {
	return l.ctx
}

// BeginLookup starts a new lookup generation derived from ctx.
func (a *Agent) BeginLookup(ctx context.Context) Lookup {
	lookupCtx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	if a.lookupCancel != nil {
		a.lookupCancel()
	}
	a.lookupGen++
	a.lookupCancel = cancel
	gen := a.lookupGen
	a.mu.Unlock()
	return Lookup{ctx: lookupCtx, gen: gen}
}

func (a *Agent) current(l Lookup) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return l.gen == a.lookupGen && l.ctx.Err() == nil
}

// Search queries the catalog under l. Results for a superseded lookup are
// dropped.
func (a *Agent) Search(l Lookup, query string) ([]api.SearchResult, error) {
	results, err := a.api.Search(l.ctx, query)
	if !a.current(l) {
		return nil, ErrStaleLookup
	}
	return results, err
}

// Enrich fetches runtime and release date for movieID and applies them to
// itemID, unless l was superseded first or the item is gone.
func (a *Agent) Enrich(l Lookup, itemID string, movieID int64) error {
	details, err := a.api.MovieDetails(l.ctx, movieID)
	if !a.current(l) {
		return ErrStaleLookup
	}
	if err != nil {
		return err
	}

	var patch watchlist.Patch
	if details.RuntimeMinutes != nil {
		patch.RuntimeMinutes = details.RuntimeMinutes
	}
	if details.ReleaseDate != nil {
		patch.ReleaseDate = details.ReleaseDate
	}
	if patch.IsEmpty() {
		return nil
	}

	a.mu.Lock()
	present := a.snapshot.Has(itemID)
	a.mu.Unlock()
	if !present {
		return nil
	}
	return a.Update(context.WithoutCancel(l.ctx), itemID, patch)
}
