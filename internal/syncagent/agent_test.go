package syncagent_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"watchlist/internal/api"
	"watchlist/internal/listsvc"
	"watchlist/internal/services"
	"watchlist/internal/syncagent"
	"watchlist/internal/testsupport"
	"watchlist/internal/watchlist"
)

// fakeAPI serves the agent straight from a list service.
type fakeAPI struct {
	svc *listsvc.Service

	mu        sync.Mutex
	gets      int
	mutations []watchlist.Mutation
	failNext  error
	gate      chan struct{}
	details   api.MovieDetailsResponse
	detailsCh chan struct{}
}

func (f *fakeAPI) GetList(ctx context.Context, id string) (api.List, error) {
	f.mu.Lock()
	f.gets++
	f.mu.Unlock()
	list, err := f.svc.GetList(ctx, id, "")
	if err != nil {
		return api.List{}, err
	}
	return api.FromList(list), nil
}

func (f *fakeAPI) Mutate(ctx context.Context, id string, m watchlist.Mutation) (api.List, error) {
	f.mu.Lock()
	gate := f.gate
	fail := f.failNext
	f.failNext = nil
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return api.List{}, ctx.Err()
		}
	}
	f.mu.Lock()
	f.mutations = append(f.mutations, m)
	f.mu.Unlock()
	if fail != nil {
		return api.List{}, fail
	}
	list, err := f.svc.ApplyMutation(ctx, id, "", m)
	if err != nil {
		return api.List{}, err
	}
	return api.FromList(list), nil
}

func (f *fakeAPI) Search(context.Context, string) ([]api.SearchResult, error) {
	return []api.SearchResult{{ID: 949, Title: "Heat"}}, nil
}

func (f *fakeAPI) MovieDetails(ctx context.Context, _ int64) (api.MovieDetailsResponse, error) {
	if f.detailsCh != nil {
		select {
		case <-f.detailsCh:
		case <-ctx.Done():
			return api.MovieDetailsResponse{}, ctx.Err()
		}
	}
	return f.details, nil
}

func (f *fakeAPI) recorded() []watchlist.Mutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]watchlist.Mutation(nil), f.mutations...)
}

type recorder struct {
	mu     sync.Mutex
	events []syncagent.Event
}

func (r *recorder) record(evt syncagent.Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *recorder) types() []syncagent.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]syncagent.EventType, 0, len(r.events))
	for _, evt := range r.events {
		out = append(out, evt.Type)
	}
	return out
}

type fixture struct {
	svc    *listsvc.Service
	api    *fakeAPI
	listID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	svc := listsvc.New(store)
	list, err := svc.CreateList(context.Background(), "Friday Club", "")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	return fixture{svc: svc, api: &fakeAPI{svc: svc}, listID: list.ID}
}

func (f fixture) agent(t *testing.T, opts ...syncagent.Option) *syncagent.Agent {
	t.Helper()
	seq := 0
	base := []syncagent.Option{syncagent.WithItemIDs(func() string {
		seq++
		return fmt.Sprintf("local-%d", seq)
	})}
	a := syncagent.New(f.api, f.listID, append(base, opts...)...)
	if _, err := a.Refresh(context.Background()); err != nil {
		t.Fatalf("initial Refresh: %v", err)
	}
	return a
}

func equalTypes(got, want []syncagent.EventType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRefreshSkipsUnchangedRevision(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	a := f.agent(t, syncagent.WithOnEvent(rec.record))

	changed, err := a.Refresh(context.Background())
	if err != nil || changed {
		t.Fatalf("expected unchanged refresh, got changed=%v err=%v", changed, err)
	}

	if _, err := f.svc.AddItem(context.Background(), f.listID, "", listsvc.NewItem{Title: "Heat"}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	changed, err = a.Refresh(context.Background())
	if err != nil || !changed {
		t.Fatalf("expected changed refresh, got changed=%v err=%v", changed, err)
	}
	snap, loaded := a.Snapshot()
	if !loaded || len(snap.Items) != 1 || snap.Items[0].Title != "Heat" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if got := rec.types(); !equalTypes(got, []syncagent.EventType{syncagent.EventUpdated, syncagent.EventUpdated}) {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestOptimisticAddReconciles(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	a := f.agent(t, syncagent.WithOnEvent(rec.record))

	item, err := a.Add(context.Background(), watchlist.Item{Title: "  Heat  ", AddedBy: "Sam"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if item.ID != "local-1" || item.Title != "Heat" {
		t.Fatalf("unexpected item %+v", item)
	}
	snap, _ := a.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "local-1" || snap.Version != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	want := []syncagent.EventType{syncagent.EventUpdated, syncagent.EventOptimistic, syncagent.EventReconciled}
	if got := rec.types(); !equalTypes(got, want) {
		t.Fatalf("unexpected events %v", got)
	}

	if err := a.Toggle(context.Background(), "local-1"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	server, err := f.svc.GetList(context.Background(), f.listID, "")
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if !server.Items[0].Watched {
		t.Fatal("expected server to record the toggle")
	}
}

func TestFailedWriteRollsBack(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	a := f.agent(t, syncagent.WithOnEvent(rec.record))

	f.api.mu.Lock()
	f.api.failNext = services.Wrap(services.ErrTransientStore, "test", "mutate", "", nil)
	f.api.mu.Unlock()

	_, err := a.Add(context.Background(), watchlist.Item{Title: "Heat"})
	if !errors.Is(err, services.ErrTransientStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	snap, _ := a.Snapshot()
	if len(snap.Items) != 0 || snap.Version != 0 {
		t.Fatalf("expected rollback to server state, got %+v", snap)
	}
	want := []syncagent.EventType{syncagent.EventUpdated, syncagent.EventOptimistic, syncagent.EventRolledBack}
	if got := rec.types(); !equalTypes(got, want) {
		t.Fatalf("unexpected events %v", got)
	}
	if len(f.api.recorded()) != 1 {
		t.Fatal("expected exactly one write attempt")
	}
}

func TestServerRejectionRollsBack(t *testing.T) {
	f := newFixture(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo}))
	a := f.agent(t, syncagent.WithLogger(logger))
	if _, err := a.Add(context.Background(), watchlist.Item{Title: "Heat"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := a.Add(context.Background(), watchlist.Item{Title: "heat"}); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	snap, _ := a.Snapshot()
	if len(snap.Items) != 1 {
		t.Fatalf("expected duplicate rolled back, got %+v", snap.Items)
	}
	// A rejected write is reported through the returned error; CLI users
	// should not also see an info log line for it.
	if strings.Contains(logs.String(), "write rolled back") {
		t.Fatalf("rollback logged above debug level: %s", logs.String())
	}
}

func TestWritesAreSerializedInOrder(t *testing.T) {
	f := newFixture(t)
	a := f.agent(t)
	gate := make(chan struct{})
	f.api.mu.Lock()
	f.api.gate = gate
	f.api.mu.Unlock()

	titles := []string{"Heat", "Ronin", "Zodiac"}
	var wg sync.WaitGroup
	errs := make(chan error, len(titles))
	for i, title := range titles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Add(context.Background(), watchlist.Item{ID: fmt.Sprintf("id-%d", i), Title: title})
			errs <- err
		}()
		// Each Add must have joined the chain before the next starts.
		deadline := time.Now().Add(2 * time.Second)
		for {
			snap, _ := a.Snapshot()
			if len(snap.Items) == i+1 {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("optimistic add %d never applied", i)
			}
			time.Sleep(time.Millisecond)
		}
	}
	close(gate)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	recorded := f.api.recorded()
	if len(recorded) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(recorded))
	}
	for i, m := range recorded {
		add, ok := m.(watchlist.Add)
		if !ok || add.Item.Title != titles[i] {
			t.Fatalf("write %d out of order: %#v", i, m)
		}
	}
	server, _ := f.svc.GetList(context.Background(), f.listID, "")
	if len(server.Items) != 3 || server.Items[0].Title != "Zodiac" {
		t.Fatalf("unexpected server items %+v", server.Items)
	}
}

func TestEditsRequireLoadedSnapshot(t *testing.T) {
	f := newFixture(t)
	a := syncagent.New(f.api, f.listID)
	if _, err := a.Add(context.Background(), watchlist.Item{Title: "Heat"}); !errors.Is(err, syncagent.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if err := a.Toggle(context.Background(), "x"); !errors.Is(err, syncagent.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestLocalValidationSkipsWrite(t *testing.T) {
	f := newFixture(t)
	a := f.agent(t)
	if _, err := a.Add(context.Background(), watchlist.Item{Title: " "}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := a.Rename(context.Background(), ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.api.recorded()) != 0 {
		t.Fatal("invalid edits must not reach the server")
	}
}

func TestReplaceAllFromStaleSnapshotLosesConcurrentAdd(t *testing.T) {
	f := newFixture(t)
	a := f.agent(t)
	if _, err := a.Add(context.Background(), watchlist.Item{Title: "Heat"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	stale, _ := a.Snapshot()

	if _, err := f.svc.AddItem(context.Background(), f.listID, "", listsvc.NewItem{Title: "Ronin"}); err != nil {
		t.Fatalf("concurrent AddItem: %v", err)
	}
	if err := a.ReplaceAll(context.Background(), stale.Items); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	server, _ := f.svc.GetList(context.Background(), f.listID, "")
	if len(server.Items) != 1 || server.Items[0].Title != "Heat" {
		t.Fatalf("expected stale replace to drop the concurrent add, got %+v", server.Items)
	}
}

func TestEnrichAppliesLatestLookupOnly(t *testing.T) {
	f := newFixture(t)
	runtime := 170
	date := "1995-12-15"
	f.api.details = api.MovieDetailsResponse{RuntimeMinutes: &runtime, ReleaseDate: &date}
	a := f.agent(t)
	item, err := a.Add(context.Background(), watchlist.Item{Title: "Heat"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	f.api.detailsCh = make(chan struct{})
	stale := a.BeginLookup(context.Background())
	staleErr := make(chan error, 1)
	go func() {
		staleErr <- a.Enrich(stale, item.ID, 949)
	}()
	fresh := a.BeginLookup(context.Background())
	if err := <-staleErr; !errors.Is(err, syncagent.ErrStaleLookup) {
		t.Fatalf("expected stale lookup, got %v", err)
	}

	close(f.api.detailsCh)
	if err := a.Enrich(fresh, item.ID, 949); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	snap, _ := a.Snapshot()
	if snap.Items[0].RuntimeMinutes != 170 || snap.Items[0].ReleaseDate != date {
		t.Fatalf("expected enrichment, got %+v", snap.Items[0])
	}
}

func TestRunPollsUntilStopped(t *testing.T) {
	f := newFixture(t)
	updates := make(chan syncagent.Event, 8)
	a := syncagent.New(f.api, f.listID,
		syncagent.WithInterval(10*time.Millisecond),
		syncagent.WithOnEvent(func(evt syncagent.Event) { updates <- evt }),
	)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case evt := <-updates:
		if evt.Type != syncagent.EventUpdated {
			t.Fatalf("unexpected first event %v", evt.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("initial poll never happened")
	}

	if _, err := f.svc.AddItem(context.Background(), f.listID, "", listsvc.NewItem{Title: "Heat"}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	select {
	case evt := <-updates:
		if len(evt.List.Items) != 1 {
			t.Fatalf("expected polled item, got %+v", evt.List.Items)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poll never observed the add")
	}

	a.Stop()
	a.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
