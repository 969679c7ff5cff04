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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/juristmind/newsroom/pkg/news"
)

// APIError is a non-2xx response from the content service.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("news service returned %d", e.Status)
	}
	return fmt.Sprintf("news service returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError carrying the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the /news endpoint of the content service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource sets where mutation calls get their bearer token from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// New creates a client for the service rooted at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     StaticToken(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List returns the published items, newest first.
func (c *Client) List(ctx context.Context) ([]*news.Item, error) {
	var items []*news.Item
	if err := c.do(ctx, http.MethodGet, nil, nil, false, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*news.Item{}
	}
	return items, nil
}

// Get returns a single published item.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (*news.Item, error) {
	var item news.Item
	if err := c.do(ctx, http.MethodGet, idQuery(id), nil, false, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create stores a new item and returns it as persisted.
func (c *Client) Create(ctx context.Context, req news.CreateItemRequest) (*news.Item, error) {
	var item news.Item
	if err := c.do(ctx, http.MethodPost, nil, req, true, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies the non-nil fields of req to the item req.ID.
func (c *Client) Update(ctx context.Context, req news.UpdateItemRequest) (*news.Item, error) {
	var item news.Item
	if err := c.do(ctx, http.MethodPut, idQuery(req.ID), req, true, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes an item.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, idQuery(id), nil, true, nil)
}

func idQuery(id uuid.UUID) url.Values {
	return url.Values{"id": []string{id.String()}}
}

func (c *Client) do(ctx context.Context, method string, query url.Values, body interface{}, authed bool, out interface{}) error {
	var token string
	if authed {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		token = tok
	}

	endpoint := c.baseURL + "/news"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Fields = body.Fields
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
