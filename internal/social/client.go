// Package social fetches recent posts from an external social media API
// and exposes them to the public site. The upstream is optional; without
// credentials the module reports itself unconfigured instead of failing.
package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNotConfigured is returned when no API endpoint or token is set.
var ErrNotConfigured = errors.New("social feed not configured")

// maxPosts bounds how many posts a single fetch returns.
const maxPosts = 20

// Post is one social media post in the public feed.
type Post struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	ImageURL  string    `json:"image_url,omitempty"`
	Permalink string    `json:"permalink"`
	PostedAt  time.Time `json:"posted_at"`
}

// FeedClient fetches recent posts.
type FeedClient interface {
	// RecentPosts returns up to limit posts, newest first.
	// Returns ErrNotConfigured when no upstream is set.
	RecentPosts(ctx context.Context, limit int) ([]Post, error)
}

// Compile-time interface guard.
var _ FeedClient = (*HTTPFeedClient)(nil)

// HTTPFeedClient implements FeedClient against a JSON REST endpoint using
// a bearer token.
type HTTPFeedClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPFeedClient creates a client. Empty baseURL or token leaves the
// client unconfigured; RecentPosts then returns ErrNotConfigured.
func NewHTTPFeedClient(baseURL, token string) *HTTPFeedClient {
	return &HTTPFeedClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether the client has an upstream and credentials.
func (c *HTTPFeedClient) Configured() bool {
	return c.baseURL != "" && c.token != ""
}

func (c *HTTPFeedClient) RecentPosts(ctx context.Context, limit int) ([]Post, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if limit <= 0 || limit > maxPosts {
		limit = maxPosts
	}

	u, err := url.Parse(c.baseURL + "/posts")
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed upstream returned %d", resp.StatusCode)
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}
