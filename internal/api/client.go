package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/mossgarden/wpnav/internal/nav"
)

// debugWriter receives --debug output; swapped out in tests.
var debugWriter io.Writer = os.Stderr

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
	// MaxRetries for rate limit errors.
	MaxRetries = 3
	// InitialBackoff for rate limit retries.
	InitialBackoff = 2 * time.Second
	// perPage is the page size used when following pagination. 100 is the
	// REST API's maximum.
	perPage = 100
)

// Error types for specific API failures.
type (
	// AuthenticationError indicates rejected or missing credentials.
	AuthenticationError struct{ Message string }
	// RateLimitError indicates the server is throttling requests.
	RateLimitError struct{ Message string }
	// NotFoundError indicates a resource was not found.
	NotFoundError struct{ Message string }
	// ValidationError indicates the server rejected the request as invalid.
	ValidationError struct{ Message string }
)

func (e AuthenticationError) Error() string { return e.Message }
func (e RateLimitError) Error() string      { return e.Message }
func (e NotFoundError) Error() string       { return e.Message }
func (e ValidationError) Error() string     { return e.Message }

// Client talks to a WordPress site's REST API (/wp-json/wp/v2).
type Client struct {
	site       string
	username   string
	password   string
	userAgent  string
	httpClient *http.Client
	backoff    time.Duration
	debug      bool
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithTimeout sets a custom timeout for the HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithDebug enables request/response logging to stderr.
func WithDebug(debug bool) ClientOption {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(agent string) ClientOption {
	return func(c *Client) {
		c.userAgent = agent
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the site at the given base URL. Empty
// credentials produce an anonymous client, limited to public endpoints
// (pages, usually, but not menus — those require authentication).
func NewClient(site, username, password string, opts ...ClientOption) *Client {
	c := &Client{
		site:      site,
		username:  username,
		password:  password,
		userAgent: "wpnav",
		backoff:   InitialBackoff,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Site returns the site base URL.
func (c *Client) Site() string {
	return c.site
}

// SetDebug enables or disables debug logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// ListMenus returns all classic menus, following pagination.
func (c *Client) ListMenus(ctx context.Context) ([]Menu, error) {
	var menus []Menu
	err := c.fetchAll(ctx, "/wp/v2/menus", nil, func(body []byte) (int, error) {
		var page []Menu
		if err := json.Unmarshal(body, &page); err != nil {
			return 0, err
		}
		menus = append(menus, page...)
		return len(page), nil
	})
	if err != nil {
		return nil, err
	}
	if menus == nil {
		menus = []Menu{}
	}
	return menus, nil
}

// ListMenuItems returns the flat item list of one menu in editor order.
func (c *Client) ListMenuItems(ctx context.Context, menuID int) ([]nav.MenuItem, error) {
	query := url.Values{}
	query.Set("menus", strconv.Itoa(menuID))
	query.Set("order", "asc")
	query.Set("orderby", "menu_order")

	var items []nav.MenuItem
	err := c.fetchAll(ctx, "/wp/v2/menu-items", query, func(body []byte) (int, error) {
		var page []nav.MenuItem
		if err := json.Unmarshal(body, &page); err != nil {
			return 0, err
		}
		items = append(items, page...)
		return len(page), nil
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []nav.MenuItem{}
	}
	return items, nil
}

// ListPages returns published top-level pages, ascending by id.
func (c *Client) ListPages(ctx context.Context) ([]nav.Page, error) {
	query := url.Values{}
	query.Set("parent", "0")
	query.Set("order", "asc")
	query.Set("orderby", "id")

	var pages []nav.Page
	err := c.fetchAll(ctx, "/wp/v2/pages", query, func(body []byte) (int, error) {
		var page []nav.Page
		if err := json.Unmarshal(body, &page); err != nil {
			return 0, err
		}
		pages = append(pages, page...)
		return len(page), nil
	})
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []nav.Page{}
	}
	return pages, nil
}

// fetchAll requests every page of a collection endpoint. decode consumes one
// response body and reports how many records it contained; fetching stops
// when the server's X-WP-TotalPages is exhausted or a short page arrives.
func (c *Client) fetchAll(ctx context.Context, path string, query url.Values, decode func([]byte) (int, error)) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", strconv.Itoa(perPage))

	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))
		body, header, err := c.callCtx(ctx, path, query)
		if err != nil {
			return err
		}

		count, err := decode(body)
		if err != nil {
			return fmt.Errorf("failed to parse response from %s: %w", path, err)
		}

		totalPages, _ := strconv.Atoi(header.Get("X-WP-TotalPages"))
		if totalPages > 0 {
			if page >= totalPages {
				return nil
			}
			continue
		}
		// No pagination header: a short page means we are done.
		if count < perPage {
			return nil
		}
	}
}

// callCtx makes one GET request, retrying on rate limit responses with
// exponential backoff.
func (c *Client) callCtx(ctx context.Context, path string, query url.Values) ([]byte, http.Header, error) {
	backoff := c.backoff
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			if c.debug {
				fmt.Fprintf(debugWriter, "wpnav: rate limited, retrying in %s\n", backoff)
			}
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		body, header, err := c.doRequest(ctx, path, query)
		if err == nil {
			return body, header, nil
		}
		lastErr = err
		if _, rateLimited := err.(RateLimitError); !rateLimited {
			return nil, nil, err
		}
	}
	return nil, nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, http.Header, error) {
	endpoint := c.site + "/wp-json" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	if c.debug {
		fmt.Fprintf(debugWriter, "wpnav: GET %s\n", endpoint)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		fmt.Fprintf(debugWriter, "wpnav: %d %s (%d bytes)\n", resp.StatusCode, path, len(body))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, resp.Header, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, nil, AuthenticationError{Message: restErrorMessage(body, "authentication failed")}
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil, NotFoundError{Message: restErrorMessage(body, "resource not found")}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, nil, RateLimitError{Message: restErrorMessage(body, "rate limit exceeded")}
	case resp.StatusCode == http.StatusBadRequest:
		return nil, nil, ValidationError{Message: restErrorMessage(body, "invalid request")}
	default:
		return nil, nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, path, restErrorMessage(body, "unknown error"))
	}
}

// restErrorMessage pulls the human-readable message out of a REST error
// envelope ({"code": ..., "message": ...}), falling back when absent.
func restErrorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fallback
}
