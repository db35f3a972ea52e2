package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Header names understood by the API.
const (
	HeaderPassword  = "X-List-Password"
	HeaderRequestID = "X-Request-ID"
)

// Fixed client-facing error messages. Clients compare against them to tell
// the two authorization failures apart.
const (
	MessageAuthRequired  = "This watchlist is password protected."
	MessageAuthIncorrect = "Incorrect password."
	MessageConflict      = "That movie is already on this watchlist."
)

// Item describes one watchlist entry in a transport-friendly format.
type Item struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Watched        bool   `json:"watched"`
	Rating         int    `json:"rating,omitempty"`
	AddedBy        string `json:"addedBy,omitempty"`
	Poster         string `json:"poster,omitempty"`
	RuntimeMinutes int    `json:"runtimeMinutes,omitempty"`
	ReleaseDate    string `json:"releaseDate,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// List describes a watchlist document without its credential hash.
type List struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Items     []Item `json:"items"`
	Version   int64  `json:"version"`
	Protected bool   `json:"protected"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CreateListRequest is the body of POST /api/lists.
type CreateListRequest struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

// RenameListRequest is the body of PATCH /api/lists/{id}.
type RenameListRequest struct {
	Name string `json:"name"`
}

// SetPasswordRequest is the body of PUT /api/lists/{id}/password. An empty
// password removes protection.
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// AddItemRequest is the body of POST /api/lists/{id}/items.
type AddItemRequest struct {
	ID             string `json:"id,omitempty"`
	Title          string `json:"title"`
	AddedBy        string `json:"addedBy,omitempty"`
	Poster         string `json:"poster,omitempty"`
	RuntimeMinutes int    `json:"runtimeMinutes,omitempty"`
	ReleaseDate    string `json:"releaseDate,omitempty"`
	Rating         int    `json:"rating,omitempty"`
}

// PatchItemRequest is the body of PATCH /api/lists/{id}/items/{itemId} and
// the patch of an "update" mutation. Absent fields are left untouched.
type PatchItemRequest struct {
	Title          *string          `json:"title,omitempty"`
	Watched        *bool            `json:"watched,omitempty"`
	AddedBy        *string          `json:"addedBy,omitempty"`
	Poster         Nullable[string] `json:"poster,omitzero"`
	RuntimeMinutes Nullable[int]    `json:"runtimeMinutes,omitzero"`
	ReleaseDate    Nullable[string] `json:"releaseDate,omitzero"`
	Rating         Nullable[int]    `json:"rating,omitzero"`
}

// ListIDsResponse is the body of GET /api/lists.
type ListIDsResponse struct {
	IDs []string `json:"ids"`
}

// SearchResult is one catalog match.
type SearchResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Year        string `json:"year,omitempty"`
	Poster      string `json:"poster,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// MovieDetailsResponse is the body of GET /api/movies/{movieId}. Unknown
// values are null.
type MovieDetailsResponse struct {
	RuntimeMinutes *int    `json:"runtimeMinutes"`
	ReleaseDate    *string `json:"releaseDate"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}
