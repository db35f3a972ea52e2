package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"watchlist/internal/api"
	"watchlist/internal/watchlist"
)

// Client talks to one watchlist daemon. The list password, when set, is sent
// on every request.
type Client struct {
	base *url.URL
	http *http.Client

	mu       sync.RWMutex
	password string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout}
		}
	}
}

// WithPassword sets the list password sent as X-List-Password.
func WithPassword(password string) Option {
	return func(c *Client) {
		c.password = password
	}
}

// New creates a client for the daemon at baseURL. A bare host:port is
// treated as http.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrAPIUnavailable
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	base.Path = strings.TrimRight(base.Path, "/")
	base.RawQuery = ""
	base.Fragment = ""

	c := &Client{
		base: base,
		http: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Password returns the credential currently sent with requests.
func (c *Client) Password() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.password
}

// UsePassword replaces the credential sent with later requests.
func (c *Client) UsePassword(password string) {
	c.mu.Lock()
	c.password = password
	c.mu.Unlock()
}

// Health checks that the daemon answers.
func (c *Client) Health(ctx context.Context) error {
	var out api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", out.Status)
	}
	return nil
}

// CreateList creates a list. A non-empty password protects it and becomes
// this client's credential.
func (c *Client) CreateList(ctx context.Context, name, password string) (api.List, error) {
	var out api.List
	err := c.do(ctx, http.MethodPost, "/api/lists", nil, api.CreateListRequest{Name: name, Password: password}, &out)
	if err == nil && password != "" {
		c.UsePassword(password)
	}
	return out, err
}

// ListIDs enumerates lists when the daemon keeps an index.
func (c *Client) ListIDs(ctx context.Context) ([]string, error) {
	var out api.ListIDsResponse
	if err := c.do(ctx, http.MethodGet, "/api/lists", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.IDs, nil
}

// GetList fetches the current document.
func (c *Client) GetList(ctx context.Context, id string) (api.List, error) {
	var out api.List
	err := c.do(ctx, http.MethodGet, listPath(id), nil, nil, &out)
	return out, err
}

// DeleteList removes the list.
func (c *Client) DeleteList(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, listPath(id), nil, nil, nil)
}

// SetPassword sets or (with "") removes the list password. On success the
// new password becomes this client's credential.
func (c *Client) SetPassword(ctx context.Context, id, password string) (api.List, error) {
	var out api.List
	err := c.do(ctx, http.MethodPut, listPath(id)+"/password", nil, api.SetPasswordRequest{Password: password}, &out)
	if err == nil {
		c.UsePassword(password)
	}
	return out, err
}

// AddItem adds one item.
func (c *Client) AddItem(ctx context.Context, id string, req api.AddItemRequest) (api.List, error) {
	var out api.List
	err := c.do(ctx, http.MethodPost, listPath(id)+"/items", nil, req, &out)
	return out, err
}

// Mutate posts a tagged mutation to the mutations endpoint.
func (c *Client) Mutate(ctx context.Context, id string, m watchlist.Mutation) (api.List, error) {
	body, err := api.EncodeMutation(m)
	if err != nil {
		return api.List{}, err
	}
	var out api.List
	err = c.do(ctx, http.MethodPost, listPath(id)+"/mutations", nil, json.RawMessage(body), &out)
	return out, err
}

// Search queries the movie catalog.
func (c *Client) Search(ctx context.Context, query string) ([]api.SearchResult, error) {
	var out api.SearchResponse
	if err := c.do(ctx, http.MethodGet, "/api/search", url.Values{"q": {query}}, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// MovieDetails fetches runtime and release date for a catalog movie.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (api.MovieDetailsResponse, error) {
	var out api.MovieDetailsResponse
	err := c.do(ctx, http.MethodGet, "/api/movies/"+strconv.FormatInt(movieID, 10), nil, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c == nil {
		return ErrAPIUnavailable
	}
	endpoint, err := url.Parse(c.base.String() + path)
	if err != nil {
		return fmt.Errorf("build request url: %w", err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(api.HeaderRequestID, uuid.NewString())
	if password := c.Password(); password != "" {
		req.Header.Set(api.HeaderPassword, password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, RequestID: resp.Header.Get(api.HeaderRequestID)}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil && !errors.Is(err, io.EOF) {
		return apiErr
	}
	var payload api.ErrorResponse
	if json.Unmarshal(data, &payload) == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}

func listPath(id string) string {
	return "/api/lists/" + url.PathEscape(id)
}
