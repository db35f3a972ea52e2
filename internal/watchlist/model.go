package watchlist

import "time"

// List is the collaborative document shared by every client of one list id.
type List struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Items        []Item    `json:"items"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	PasswordHash string    `json:"passwordHash,omitempty"`
}

// Item is one title on a list.
type Item struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Watched        bool      `json:"watched"`
	Rating         int       `json:"rating,omitempty"`
	AddedBy        string    `json:"addedBy,omitempty"`
	Poster         string    `json:"poster,omitempty"`
	RuntimeMinutes int       `json:"runtimeMinutes,omitempty"`
	ReleaseDate    string    `json:"releaseDate,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Protected reports whether the list requires a credential.
func (l List) Protected() bool {
	return l.PasswordHash != ""
}

// Clone returns a copy of the list whose item slice does not alias l.Items.
func (l List) Clone() List {
	out := l
	out.Items = cloneItems(l.Items)
	return out
}

// Find returns the item with the given id and its index, or -1 when absent.
func (l List) Find(id string) (Item, int) {
	for i, item := range l.Items {
		if item.ID == id {
			return item, i
		}
	}
	return Item{}, -1
}

// Has reports whether an item with the given id exists.
func (l List) Has(id string) bool {
	_, idx := l.Find(id)
	return idx >= 0
}

// SameRevision reports whether two snapshots carry the same version markers.
// Clients use it to skip redundant refreshes.
func (l List) SameRevision(other List) bool {
	return l.Version == other.Version && l.UpdatedAt.Equal(other.UpdatedAt)
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Patch describes a shallow update to an item. Nil fields are left untouched.
// Poster and ReleaseDate are cleared with "", RuntimeMinutes and Rating with 0.
type Patch struct {
	Title          *string `json:"title,omitempty"`
	Watched        *bool   `json:"watched,omitempty"`
	Rating         *int    `json:"rating,omitempty"`
	AddedBy        *string `json:"addedBy,omitempty"`
	Poster         *string `json:"poster,omitempty"`
	RuntimeMinutes *int    `json:"runtimeMinutes,omitempty"`
	ReleaseDate    *string `json:"releaseDate,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Watched == nil && p.Rating == nil && p.AddedBy == nil &&
		p.Poster == nil && p.RuntimeMinutes == nil && p.ReleaseDate == nil
}

func (p Patch) applyTo(item Item) Item {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Watched != nil {
		item.Watched = *p.Watched
	}
	if p.Rating != nil {
		item.Rating = *p.Rating
	}
	if p.AddedBy != nil {
		item.AddedBy = *p.AddedBy
	}
	if p.Poster != nil {
		item.Poster = *p.Poster
	}
	if p.RuntimeMinutes != nil {
		item.RuntimeMinutes = *p.RuntimeMinutes
	}
	if p.ReleaseDate != nil {
		item.ReleaseDate = *p.ReleaseDate
	}
	return item
}
