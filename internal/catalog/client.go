package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"watchlist/internal/services"
)

// MaxResults bounds the number of search matches returned to clients.
const MaxResults = 8

var releaseDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Movie is a trimmed TMDB search match.
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Year        string `json:"year,omitempty"`
	Poster      string `json:"poster,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

// Details carries the enrichment fields for one movie. Zero values mean TMDB
// had no usable data.
type Details struct {
	RuntimeMinutes int    `json:"runtimeMinutes,omitempty"`
	ReleaseDate    string `json:"releaseDate,omitempty"`
}

// Catalog is the lookup surface the HTTP layer depends on.
type Catalog interface {
	Search(ctx context.Context, query string) ([]Movie, error)
	MovieDetails(ctx context.Context, movieID int64) (Details, error)
}

type searchResult struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	ReleaseDate   string `json:"release_date"`
	PosterPath    string `json:"poster_path"`
}

type searchResponse struct {
	Page    int            `json:"page"`
	Results []searchResult `json:"results"`
}

type movieResponse struct {
	Runtime     float64 `json:"runtime"`
	ReleaseDate string  `json:"release_date"`
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
}

var _ Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithImageBaseURL sets the prefix used to build poster URLs.
func WithImageBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.imageBaseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageBaseURL: "https://image.tmdb.org/t/p/w92",
		language:     strings.TrimSpace(language),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search returns up to MaxResults movie matches for query. A blank query
// yields no results without contacting TMDB.
func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Movie{}, nil
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("page", "1")

	var payload searchResponse
	if err := c.get(ctx, "search", "/search/movie", params, &payload); err != nil {
		return nil, err
	}

	limit := min(len(payload.Results), MaxResults)
	movies := make([]Movie, 0, limit)
	for _, result := range payload.Results[:limit] {
		title := result.Title
		if title == "" {
			title = result.OriginalTitle
		}
		movie := Movie{ID: result.ID, Title: title}
		if releaseDatePattern.MatchString(result.ReleaseDate) {
			movie.ReleaseDate = result.ReleaseDate
			movie.Year = result.ReleaseDate[:4]
		}
		if result.PosterPath != "" {
			movie.Poster = c.imageBaseURL + result.PosterPath
		}
		movies = append(movies, movie)
	}
	return movies, nil
}

// MovieDetails fetches runtime and release date for one movie.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (Details, error) {
	if movieID <= 0 {
		return Details{}, services.Wrap(services.ErrValidation, "catalog", "details", "movie id must be positive", nil)
	}
	var payload movieResponse
	if err := c.get(ctx, "details", "/movie/"+strconv.FormatInt(movieID, 10), url.Values{}, &payload); err != nil {
		return Details{}, err
	}
	var details Details
	if payload.Runtime > 0 {
		details.RuntimeMinutes = int(payload.Runtime + 0.5)
	}
	if releaseDatePattern.MatchString(payload.ReleaseDate) {
		details.ReleaseDate = payload.ReleaseDate
	}
	return details, nil
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return services.Wrap(services.ErrUpstream, "catalog", operation,
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "catalog", operation, "tmdb has no such movie", nil)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return services.Wrap(services.ErrUpstream, "catalog", operation,
			fmt.Sprintf("tmdb returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrUpstream, "catalog", operation, "decode tmdb response", err)
	}
	return nil
}
