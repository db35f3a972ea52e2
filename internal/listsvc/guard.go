package listsvc

import (
	"watchlist/internal/textutil"
	"watchlist/internal/watchlist"
)

// findDuplicate returns the existing item that candidate would duplicate.
// Titles match after normalization; release dates only distinguish two
// entries when both are known and differ (remakes, re-releases).
func findDuplicate(items []watchlist.Item, candidate watchlist.Item) (watchlist.Item, bool) {
	for _, existing := range items {
		if !textutil.SameTitle(existing.Title, candidate.Title) {
			continue
		}
		if existing.ReleaseDate == "" || candidate.ReleaseDate == "" || existing.ReleaseDate == candidate.ReleaseDate {
			return existing, true
		}
	}
	return watchlist.Item{}, false
}
