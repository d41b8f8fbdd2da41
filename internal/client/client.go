// Package client talks to a menuboard server over its REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/menuboard/internal/catalog"
	"github.com/dukerupert/menuboard/internal/model"
)

const defaultCacheTTL = 30 * time.Second

// StatusError is a non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

func hasStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

func IsNotFound(err error) bool     { return hasStatus(err, http.StatusNotFound) }
func IsForbidden(err error) bool    { return hasStatus(err, http.StatusForbidden) }
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

type cacheEntry struct {
	body      []byte
	fetchedAt time.Time
}

// Client is safe for concurrent use. GET responses are cached for the TTL
// and every mutation drops the whole cache, since any list may have changed.
type Client struct {
	baseURL string
	http    *http.Client
	ttl     time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
	now   func() time.Time
}

type Option func(*Client)

// WithCacheTTL sets how long GET responses are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the server at baseURL. The client keeps the
// session cookie set by Login.
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second, Jar: jar},
		ttl:     defaultCacheTTL,
		cache:   make(map[string]cacheEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate drops every cached response.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func (c *Client) cached(path string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.cache[path]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.body, true
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if body, ok := c.cached(path); ok {
		return body, nil
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.cache[path] = cacheEntry{body: body, fetchedAt: c.now()}
		c.mu.Unlock()
	}
	return body, nil
}

// mutate sends a write and invalidates the cache whether or not it succeeded.
func (c *Client) mutate(ctx context.Context, method, path string, payload any) ([]byte, error) {
	defer c.Invalidate()
	return c.do(ctx, method, path, payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		json.Unmarshal(body, &e)
		return nil, &StatusError{Code: resp.StatusCode, Message: e.Error}
	}
	return body, nil
}

func (c *Client) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	body, err := c.get(ctx, "/api/menuitems")
	if err != nil {
		return nil, err
	}
	return catalog.DecodeMenuItems(bytes.NewReader(body))
}

func (c *Client) ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/menuitems/findAllByRestaurant/%d", restaurantID))
	if err != nil {
		return nil, err
	}
	return catalog.DecodeMenuItems(bytes.NewReader(body))
}

func (c *Client) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	body, err := c.get(ctx, "/api/restaurants")
	if err != nil {
		return nil, err
	}
	return catalog.DecodeRestaurants(bytes.NewReader(body))
}

// MenuFor fetches the customer menu of a restaurant. Unknown usernames give
// an error matching IsNotFound and inactive restaurants one matching IsForbidden.
func (c *Client) MenuFor(ctx context.Context, username string) (*catalog.Menu, error) {
	body, err := c.get(ctx, "/api/menus/"+url.PathEscape(username))
	if err != nil {
		return nil, err
	}
	var m catalog.Menu
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	if err := catalog.ValidateRestaurant(-1, m.Restaurant); err != nil {
		return nil, err
	}
	for _, s := range m.Sections {
		if err := catalog.ValidateMenuItems(s.Items); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// Login starts a restaurant session. The cookie is kept for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Restaurant, error) {
	body, err := c.mutate(ctx, http.MethodPost, "/api/restaurants/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode login: %w", err)
	}
	return &resp.Restaurant, nil
}

// AdminLogin starts an admin session.
func (c *Client) AdminLogin(ctx context.Context, username, password string) error {
	_, err := c.mutate(ctx, http.MethodPost, "/api/admin/login", map[string]string{
		"username": username,
		"password": password,
	})
	return err
}

func (c *Client) decodeItem(body []byte) (*model.MenuItem, error) {
	var m model.MenuItem
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decode menu item: %w", err)
	}
	if err := catalog.ValidateMenuItem(-1, m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, m model.MenuItem) (*model.MenuItem, error) {
	body, err := c.mutate(ctx, http.MethodPost, "/api/menuitems", m)
	if err != nil {
		return nil, err
	}
	return c.decodeItem(body)
}

func (c *Client) UpdateMenuItem(ctx context.Context, id int64, m model.MenuItem) (*model.MenuItem, error) {
	body, err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/api/menuitems/%d", id), m)
	if err != nil {
		return nil, err
	}
	return c.decodeItem(body)
}

func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	_, err := c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/api/menuitems/%d", id), nil)
	return err
}
