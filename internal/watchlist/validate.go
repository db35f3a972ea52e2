package watchlist

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"watchlist/internal/textutil"
)

// Field limits, counted in characters.
const (
	MaxNameLength    = 80
	MaxTitleLength   = 140
	MaxAddedByLength = 40
	MaxPosterLength  = 2048
	MaxRating        = 5
	MaxRuntime       = 24 * 60 * 7

	// DefaultName is used when a list is created without a name.
	DefaultName = "Watchlist"

	releaseDateLayout = "2006-01-02"
)

// ErrInvalidField marks every FieldError.
var ErrInvalidField = errors.New("invalid field")

// FieldError reports which field failed validation and why.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}

func invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// CleanName trims a list name and checks its length.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "is required")
	}
	if textutil.RuneLen(name) > MaxNameLength {
		return "", invalid("name", fmt.Sprintf("must be at most %d characters", MaxNameLength))
	}
	return name, nil
}

// CleanItem trims the item's text fields and validates every field. The
// returned item is safe to hand to the engine.
func CleanItem(item Item) (Item, error) {
	item.ID = strings.TrimSpace(item.ID)
	title, err := cleanTitle(item.Title)
	if err != nil {
		return Item{}, err
	}
	item.Title = title
	if item.AddedBy, err = cleanAddedBy(item.AddedBy); err != nil {
		return Item{}, err
	}
	if item.Poster, err = cleanPoster(item.Poster); err != nil {
		return Item{}, err
	}
	if err := checkRating(item.Rating); err != nil {
		return Item{}, err
	}
	if err := checkRuntime(item.RuntimeMinutes); err != nil {
		return Item{}, err
	}
	if item.ReleaseDate, err = cleanReleaseDate(item.ReleaseDate); err != nil {
		return Item{}, err
	}
	return item, nil
}

// CleanItems validates every item of a replacement sequence and rejects
// repeated ids.
func CleanItems(items []Item) ([]Item, error) {
	out := make([]Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		cleaned, err := CleanItem(item)
		if err != nil {
			return nil, err
		}
		if cleaned.ID == "" {
			return nil, invalid("items.id", "is required")
		}
		if _, dup := seen[cleaned.ID]; dup {
			return nil, invalid("items.id", fmt.Sprintf("%q appears more than once", cleaned.ID))
		}
		seen[cleaned.ID] = struct{}{}
		out = append(out, cleaned)
	}
	return out, nil
}

// CleanPatch trims and validates the fields a patch sets.
func CleanPatch(p Patch) (Patch, error) {
	if p.IsEmpty() {
		return Patch{}, invalid("patch", "has no fields")
	}
	if p.Title != nil {
		title, err := cleanTitle(*p.Title)
		if err != nil {
			return Patch{}, err
		}
		p.Title = &title
	}
	if p.AddedBy != nil {
		addedBy, err := cleanAddedBy(*p.AddedBy)
		if err != nil {
			return Patch{}, err
		}
		p.AddedBy = &addedBy
	}
	if p.Poster != nil {
		poster, err := cleanPoster(*p.Poster)
		if err != nil {
			return Patch{}, err
		}
		p.Poster = &poster
	}
	if p.Rating != nil {
		if err := checkRating(*p.Rating); err != nil {
			return Patch{}, err
		}
	}
	if p.RuntimeMinutes != nil {
		if err := checkRuntime(*p.RuntimeMinutes); err != nil {
			return Patch{}, err
		}
	}
	if p.ReleaseDate != nil {
		date, err := cleanReleaseDate(*p.ReleaseDate)
		if err != nil {
			return Patch{}, err
		}
		p.ReleaseDate = &date
	}
	return p, nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title", "is required")
	}
	if textutil.RuneLen(title) > MaxTitleLength {
		return "", invalid("title", fmt.Sprintf("must be at most %d characters", MaxTitleLength))
	}
	return title, nil
}

func cleanAddedBy(name string) (string, error) {
	name = strings.TrimSpace(name)
	if textutil.RuneLen(name) > MaxAddedByLength {
		return "", invalid("addedBy", fmt.Sprintf("must be at most %d characters", MaxAddedByLength))
	}
	return name, nil
}

func cleanPoster(poster string) (string, error) {
	poster = strings.TrimSpace(poster)
	if len(poster) > MaxPosterLength {
		return "", invalid("poster", "is too long")
	}
	return poster, nil
}

func checkRating(rating int) error {
	if rating < 0 || rating > MaxRating {
		return invalid("rating", fmt.Sprintf("must be between 0 and %d", MaxRating))
	}
	return nil
}

func checkRuntime(minutes int) error {
	if minutes < 0 || minutes > MaxRuntime {
		return invalid("runtimeMinutes", "is out of range")
	}
	return nil
}

// cleanReleaseDate accepts "" or a calendar date in YYYY-MM-DD form.
func cleanReleaseDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", nil
	}
	if len(date) != len(releaseDateLayout) {
		return "", invalid("releaseDate", "must be YYYY-MM-DD")
	}
	if _, err := time.Parse(releaseDateLayout, date); err != nil {
		return "", invalid("releaseDate", "must be YYYY-MM-DD")
	}
	return date, nil
}
