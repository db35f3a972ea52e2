package syncagent

import "watchlist/internal/watchlist"

// EventType classifies agent notifications.
type EventType string

const (
	// EventUpdated fires when a poll observed a newer server document.
	EventUpdated EventType = "updated"
	// EventOptimistic fires when a local edit was applied ahead of the write.
	EventOptimistic EventType = "optimistic"
	// EventReconciled fires when a write succeeded and the server document
	// replaced the optimistic state.
	EventReconciled EventType = "reconciled"
	// EventRolledBack fires when a write failed and the list was re-fetched.
	EventRolledBack EventType = "rolled_back"
)

// Event describes one snapshot change.
type Event struct {
	Type     EventType
	List     watchlist.List
	Mutation watchlist.Mutation
	Err      error
}
