package watchlist_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"watchlist/internal/watchlist"
)

var (
	t0 = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	t1 = t0.Add(time.Minute)
)

func sampleList() watchlist.List {
	return watchlist.List{
		ID:        "list-1",
		Name:      "Friday Club",
		Version:   4,
		CreatedAt: t0,
		UpdatedAt: t0,
		Items: []watchlist.Item{
			{ID: "a", Title: "Alien", CreatedAt: t0, UpdatedAt: t0},
			{ID: "b", Title: "Blade Runner", ReleaseDate: "1982-06-25", CreatedAt: t0, UpdatedAt: t0},
		},
	}
}

func ptr[T any](v T) *T { return &v }

func TestApplyAddInsertsAtFront(t *testing.T) {
	state := sampleList()
	item := watchlist.Item{ID: "c", Title: "Casablanca", CreatedAt: t1, UpdatedAt: t1}

	next, err := watchlist.Apply(state, watchlist.Add{Item: item}, t1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(next.Items) != len(state.Items)+1 {
		t.Fatalf("expected %d items, got %d", len(state.Items)+1, len(next.Items))
	}
	if diff := cmp.Diff(item, next.Items[0]); diff != "" {
		t.Fatalf("new item mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(state.Items, next.Items[1:]); diff != "" {
		t.Fatalf("prior items changed (-want +got):\n%s", diff)
	}
	if next.Version != state.Version+1 {
		t.Fatalf("expected version %d, got %d", state.Version+1, next.Version)
	}
	if !next.UpdatedAt.Equal(t1) {
		t.Fatalf("expected updatedAt %v, got %v", t1, next.UpdatedAt)
	}
}

func TestApplyAddExistingIDIsNoOpButBumpsVersion(t *testing.T) {
	state := sampleList()
	dup := watchlist.Item{ID: "a", Title: "Aliens"}

	next, err := watchlist.Apply(state, watchlist.Add{Item: dup}, t1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if diff := cmp.Diff(state.Items, next.Items); diff != "" {
		t.Fatalf("items changed on duplicate add (-want +got):\n%s", diff)
	}
	if next.Version != state.Version+1 {
		t.Fatalf("expected version bump on no-op, got %d", next.Version)
	}
}

func TestApplyRemove(t *testing.T) {
	cases := []struct {
		name      string
		id        string
		wantItems []string
	}{
		{name: "present", id: "a", wantItems: []string{"b"}},
		{name: "absent", id: "missing", wantItems: []string{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := sampleList()
			next, err := watchlist.Apply(state, watchlist.Remove{ID: tc.id}, t1)
			if err != nil {
				t.Fatalf("Apply returned error: %v", err)
			}
			var got []string
			for _, item := range next.Items {
				got = append(got, item.ID)
			}
			if diff := cmp.Diff(tc.wantItems, got); diff != "" {
				t.Fatalf("items mismatch (-want +got):\n%s", diff)
			}
			if next.Version != state.Version+1 {
				t.Fatalf("expected version %d, got %d", state.Version+1, next.Version)
			}
			if len(state.Items) != 2 || state.Items[0].ID != "a" {
				t.Fatalf("input state was modified: %#v", state.Items)
			}
		})
	}
}

func TestApplyRemoveAbsentReturnsIdenticalItems(t *testing.T) {
	state := sampleList()
	next, err := watchlist.Apply(state, watchlist.Remove{ID: "nope"}, t1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if diff := cmp.Diff(state.Items, next.Items); diff != "" {
		t.Fatalf("remove of absent id changed items (-want +got):\n%s", diff)
	}
	if !next.UpdatedAt.After(state.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance, got %v", next.UpdatedAt)
	}
}

func TestApplyUpdateTouchesOnlyPatchedFields(t *testing.T) {
	state := sampleList()
	next, err := watchlist.Apply(state, watchlist.Update{
		ID:    "b",
		Patch: watchlist.Patch{Watched: ptr(true), Rating: ptr(4)},
	}, t1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	want := state.Items[1]
	want.Watched = true
	want.Rating = 4
	want.UpdatedAt = t1
	if diff := cmp.Diff(want, next.Items[1]); diff != "" {
		t.Fatalf("patched item mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(state.Items[0], next.Items[0]); diff != "" {
		t.Fatalf("untouched item changed (-want +got):\n%s", diff)
	}
	if state.Items[1].Watched {
		t.Fatal("input state was modified")
	}
}

func TestApplyUpdateClearsOptionalFields(t *testing.T) {
	state := sampleList()
	next, err := watchlist.Apply(state, watchlist.Update{
		ID:    "b",
		Patch: watchlist.Patch{ReleaseDate: ptr("")},
	}, t1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if next.Items[1].ReleaseDate != "" {
		t.Fatalf("expected release date cleared, got %q", next.Items[1].ReleaseDate)
	}
}

func TestApplyUpdateAbsentIsNoOp(t *testing.T) {
	state := sampleList()
	next, err := watchlist.Apply(state, watchlist.Update{ID: "zzz", Patch: watchlist.Patch{Watched: ptr(true)}}, t1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if diff := cmp.Diff(state.Items, next.Items); diff != "" {
		t.Fatalf("items changed (-want +got):\n%s", diff)
	}
	if next.Version != state.Version+1 {
		t.Fatalf("expected version bump, got %d", next.Version)
	}
}

func TestApplyFullReplace(t *testing.T) {
	state := sampleList()
	replacement := []watchlist.Item{{ID: "z", Title: "Zodiac"}}

	next, err := watchlist.Apply(state, watchlist.FullReplace{Items: replacement}, t1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if diff := cmp.Diff(replacement, next.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	replacement[0].Title = "mutated"
	if next.Items[0].Title != "Zodiac" {
		t.Fatal("result aliases the mutation's item slice")
	}

	cleared, err := watchlist.Apply(state, watchlist.FullReplace{}, t1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if cleared.Items == nil || len(cleared.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", cleared.Items)
	}
}

func TestApplyListLevelMutations(t *testing.T) {
	state := sampleList()
	renamed, err := watchlist.Apply(state, watchlist.Rename{Name: "Saturday Club"}, t1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if renamed.Name != "Saturday Club" || renamed.Version != state.Version+1 {
		t.Fatalf("unexpected rename result: %+v", renamed)
	}

	locked, err := watchlist.Apply(renamed, watchlist.SetPasswordHash{Hash: "abc"}, t1)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !locked.Protected() || locked.Version != state.Version+2 {
		t.Fatalf("unexpected password result: %+v", locked)
	}
}

func TestApplyUnknownMutation(t *testing.T) {
	state := sampleList()
	if _, err := watchlist.Apply(state, nil, t1); !errors.Is(err, watchlist.ErrUnknownMutation) {
		t.Fatalf("expected ErrUnknownMutation for nil, got %v", err)
	}
	if _, err := watchlist.Apply(state, &watchlist.Add{}, t1); !errors.Is(err, watchlist.ErrUnknownMutation) {
		t.Fatalf("expected ErrUnknownMutation for pointer variant, got %v", err)
	}
}

func TestApplyNeverMovesUpdatedAtBackwards(t *testing.T) {
	state := sampleList()
	state.UpdatedAt = t1
	next, err := watchlist.Apply(state, watchlist.Remove{ID: "a"}, t0)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if next.UpdatedAt.Before(state.UpdatedAt) {
		t.Fatalf("updatedAt moved backwards: %v -> %v", state.UpdatedAt, next.UpdatedAt)
	}
}

func TestVersionAdvancesByOneAcrossSequence(t *testing.T) {
	state := watchlist.List{ID: "x", Name: "x", Items: []watchlist.Item{}}
	muts := []watchlist.Mutation{
		watchlist.Add{Item: watchlist.Item{ID: "1", Title: "One"}},
		watchlist.Add{Item: watchlist.Item{ID: "1", Title: "One again"}},
		watchlist.Update{ID: "1", Patch: watchlist.Patch{Watched: ptr(true)}},
		watchlist.Remove{ID: "missing"},
		watchlist.Remove{ID: "1"},
		watchlist.FullReplace{Items: nil},
	}
	now := t0
	for i, m := range muts {
		now = now.Add(time.Second)
		next, err := watchlist.Apply(state, m, now)
		if err != nil {
			t.Fatalf("step %d: Apply returned error: %v", i, err)
		}
		if next.Version != state.Version+1 {
			t.Fatalf("step %d (%s): version %d -> %d", i, m.Kind(), state.Version, next.Version)
		}
		if next.UpdatedAt.Before(state.UpdatedAt) {
			t.Fatalf("step %d (%s): updatedAt decreased", i, m.Kind())
		}
		state = next
	}
}
