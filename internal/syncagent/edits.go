package syncagent

import (
	"context"
	"fmt"

	"watchlist/internal/api"
	"watchlist/internal/logging"
	"watchlist/internal/services"
	"watchlist/internal/watchlist"
)

// Add inserts item at the front of the list. An empty ID is filled in
// locally so the write can be replayed safely. The returned item carries the
// id and timestamps used.
func (a *Agent) Add(ctx context.Context, item watchlist.Item) (watchlist.Item, error) {
	cleaned, err := watchlist.CleanItem(item)
	if err != nil {
		return watchlist.Item{}, services.Wrap(services.ErrValidation, "syncagent", "add", "", err)
	}
	if cleaned.ID == "" {
		cleaned.ID = a.newItemID()
	}
	now := a.now().UTC()
	cleaned.CreatedAt = now
	cleaned.UpdatedAt = now
	if err := a.write(ctx, watchlist.Add{Item: cleaned}); err != nil {
		return cleaned, err
	}
	return cleaned, nil
}

// Update merges patch into an item.
func (a *Agent) Update(ctx context.Context, itemID string, patch watchlist.Patch) error {
	cleaned, err := watchlist.CleanPatch(patch)
	if err != nil {
		return services.Wrap(services.ErrValidation, "syncagent", "update", "", err)
	}
	return a.write(ctx, watchlist.Update{ID: itemID, Patch: cleaned})
}

// Toggle flips the watched flag of an item as currently cached.
func (a *Agent) Toggle(ctx context.Context, itemID string) error {
	a.mu.Lock()
	item, idx := a.snapshot.Find(itemID)
	loaded := a.loaded
	a.mu.Unlock()
	if !loaded {
		return ErrNotLoaded
	}
	if idx < 0 {
		return services.Wrap(services.ErrNotFound, "syncagent", "toggle", "item "+itemID, nil)
	}
	watched := !item.Watched
	return a.write(ctx, watchlist.Update{ID: itemID, Patch: watchlist.Patch{Watched: &watched}})
}

// Remove drops an item.
func (a *Agent) Remove(ctx context.Context, itemID string) error {
	return a.write(ctx, watchlist.Remove{ID: itemID})
}

// Rename changes the list name.
func (a *Agent) Rename(ctx context.Context, name string) error {
	cleaned, err := watchlist.CleanName(name)
	if err != nil {
		return services.Wrap(services.ErrValidation, "syncagent", "rename", "", err)
	}
	return a.write(ctx, watchlist.Rename{Name: cleaned})
}

// ReplaceAll substitutes the whole item sequence. Edits other clients made
// since the last refresh are overwritten.
func (a *Agent) ReplaceAll(ctx context.Context, items []watchlist.Item) error {
	cleaned, err := watchlist.CleanItems(items)
	if err != nil {
		return services.Wrap(services.ErrValidation, "syncagent", "replace", "", err)
	}
	return a.write(ctx, watchlist.FullReplace{Items: cleaned})
}

// write applies m locally, waits for earlier writes, then sends it. The
// server document replaces the snapshot on success; on failure the list is
// re-fetched and the write error returned. Writes are never retried.
func (a *Agent) write(ctx context.Context, m watchlist.Mutation) error {
	a.mu.Lock()
	if !a.loaded {
		a.mu.Unlock()
		return ErrNotLoaded
	}
	before := a.snapshot
	optimistic, err := watchlist.Apply(before, m, a.now().UTC())
	if err != nil {
		a.mu.Unlock()
		return services.Wrap(services.ErrValidation, "syncagent", string(m.Kind()), "", err)
	}
	a.snapshot = optimistic
	prev := a.tail
	done := make(chan struct{})
	a.tail = done
	a.mu.Unlock()

	a.emit(Event{Type: EventOptimistic, List: optimistic.Clone(), Mutation: m})

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			go func() {
				<-prev
				close(done)
			}()
			return a.rollback(ctx, m, before, ctx.Err())
		}
	}
	defer close(done)

	dto, err := a.api.Mutate(ctx, a.listID, m)
	if err != nil {
		return a.rollback(ctx, m, before, err)
	}

	next := api.ToList(dto)
	a.mu.Lock()
	a.snapshot = next
	a.protected = dto.Protected
	a.mu.Unlock()
	a.emit(Event{Type: EventReconciled, List: next.Clone(), Mutation: m})
	return nil
}

// rollback discards optimistic state by re-fetching the list. When the
// re-fetch also fails the pre-edit snapshot is restored.
func (a *Agent) rollback(ctx context.Context, m watchlist.Mutation, before watchlist.List, cause error) error {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	logger := logging.WithContext(services.WithListID(ctx, a.listID), a.logger)
	restored := before
	dto, err := a.api.GetList(fetchCtx, a.listID)
	if err == nil {
		restored = api.ToList(dto)
	} else {
		logging.WarnWithContext(logger, "rollback refetch failed", "sync_rollback",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "restored the last known snapshot"),
		)
	}

	a.mu.Lock()
	a.snapshot = restored
	if err == nil {
		a.protected = dto.Protected
	}
	a.mu.Unlock()

	logger.Debug("write rolled back",
		logging.String(logging.FieldMutation, string(m.Kind())),
		logging.Error(cause),
	)
	a.emit(Event{Type: EventRolledBack, List: restored.Clone(), Mutation: m, Err: cause})
	return fmt.Errorf("%s write: %w", m.Kind(), cause)
}
