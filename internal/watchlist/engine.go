package watchlist

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownMutation is returned by Apply for a nil or unrecognised mutation.
var ErrUnknownMutation = errors.New("unknown mutation")

// Apply computes the snapshot that results from applying m to state at time
// now. state is never modified.
func Apply(state List, m Mutation, now time.Time) (List, error) {
	next := state.Clone()
	switch mut := m.(type) {
	case FullReplace:
		next.Items = cloneItems(mut.Items)
	case Add:
		if !next.Has(mut.Item.ID) {
			next.Items = append([]Item{mut.Item}, next.Items...)
		}
	case Remove:
		kept := next.Items[:0]
		for _, item := range next.Items {
			if item.ID != mut.ID {
				kept = append(kept, item)
			}
		}
		next.Items = kept
	case Update:
		if _, idx := next.Find(mut.ID); idx >= 0 {
			item := mut.Patch.applyTo(next.Items[idx])
			item.UpdatedAt = stamp(item.UpdatedAt, now)
			next.Items[idx] = item
		}
	case Rename:
		next.Name = mut.Name
	case SetPasswordHash:
		next.PasswordHash = mut.Hash
	default:
		return state, fmt.Errorf("%w: %T", ErrUnknownMutation, m)
	}
	next.Version = state.Version + 1
	next.UpdatedAt = stamp(state.UpdatedAt, now)
	return next, nil
}

// stamp returns now unless that would move the marker backwards.
func stamp(prev, now time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}
