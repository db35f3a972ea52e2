package api

import (
	"time"

	"watchlist/internal/catalog"
	"watchlist/internal/watchlist"
)

// FromList converts a stored list to its API representation.
func FromList(list watchlist.List) List {
	items := make([]Item, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, FromItem(item))
	}
	return List{
		ID:        list.ID,
		Name:      list.Name,
		Items:     items,
		Version:   list.Version,
		Protected: list.Protected(),
		CreatedAt: formatTime(list.CreatedAt),
		UpdatedAt: formatTime(list.UpdatedAt),
	}
}

// FromItem converts a stored item to its API representation.
func FromItem(item watchlist.Item) Item {
	return Item{
		ID:             item.ID,
		Title:          item.Title,
		Watched:        item.Watched,
		Rating:         item.Rating,
		AddedBy:        item.AddedBy,
		Poster:         item.Poster,
		RuntimeMinutes: item.RuntimeMinutes,
		ReleaseDate:    item.ReleaseDate,
		CreatedAt:      formatTime(item.CreatedAt),
		UpdatedAt:      formatTime(item.UpdatedAt),
	}
}

// ToList converts an API list back into the engine model. The password hash
// is never transported, so the result's Protected reports false; callers that
// care keep List.Protected alongside.
func ToList(dto List) watchlist.List {
	return watchlist.List{
		ID:        dto.ID,
		Name:      dto.Name,
		Items:     ToItems(dto.Items),
		Version:   dto.Version,
		CreatedAt: parseTime(dto.CreatedAt),
		UpdatedAt: parseTime(dto.UpdatedAt),
	}
}

// ToItems converts API items into engine items. Unparseable timestamps
// become the zero time.
func ToItems(dtos []Item) []watchlist.Item {
	items := make([]watchlist.Item, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, ToItem(dto))
	}
	return items
}

// ToItem converts one API item into an engine item.
func ToItem(dto Item) watchlist.Item {
	return watchlist.Item{
		ID:             dto.ID,
		Title:          dto.Title,
		Watched:        dto.Watched,
		Rating:         dto.Rating,
		AddedBy:        dto.AddedBy,
		Poster:         dto.Poster,
		RuntimeMinutes: dto.RuntimeMinutes,
		ReleaseDate:    dto.ReleaseDate,
		CreatedAt:      parseTime(dto.CreatedAt),
		UpdatedAt:      parseTime(dto.UpdatedAt),
	}
}

// Patch converts the request into an engine patch; explicit nulls clear.
func (r PatchItemRequest) Patch() watchlist.Patch {
	return watchlist.Patch{
		Title:          r.Title,
		Watched:        r.Watched,
		AddedBy:        r.AddedBy,
		Poster:         clearable(r.Poster),
		RuntimeMinutes: clearable(r.RuntimeMinutes),
		ReleaseDate:    clearable(r.ReleaseDate),
		Rating:         clearable(r.Rating),
	}
}

// PatchRequest converts an engine patch into its wire form. Cleared values
// ("" or 0) on clearable fields are sent as explicit nulls.
func PatchRequest(p watchlist.Patch) PatchItemRequest {
	return PatchItemRequest{
		Title:          p.Title,
		Watched:        p.Watched,
		AddedBy:        p.AddedBy,
		Poster:         nullableFrom(p.Poster),
		RuntimeMinutes: nullableFrom(p.RuntimeMinutes),
		ReleaseDate:    nullableFrom(p.ReleaseDate),
		Rating:         nullableFrom(p.Rating),
	}
}

// FromMovies converts catalog matches.
func FromMovies(movies []catalog.Movie) SearchResponse {
	results := make([]SearchResult, 0, len(movies))
	for _, m := range movies {
		results = append(results, SearchResult{
			ID:          m.ID,
			Title:       m.Title,
			Year:        m.Year,
			Poster:      m.Poster,
			ReleaseDate: m.ReleaseDate,
		})
	}
	return SearchResponse{Results: results}
}

// FromDetails converts catalog details, mapping unknown values to null.
func FromDetails(d catalog.Details) MovieDetailsResponse {
	var resp MovieDetailsResponse
	if d.RuntimeMinutes > 0 {
		runtime := d.RuntimeMinutes
		resp.RuntimeMinutes = &runtime
	}
	if d.ReleaseDate != "" {
		date := d.ReleaseDate
		resp.ReleaseDate = &date
	}
	return resp
}

func nullableFrom[T comparable](v *T) Nullable[T] {
	if v == nil {
		return Nullable[T]{}
	}
	var zero T
	if *v == zero {
		return Null[T]()
	}
	return Of(*v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
