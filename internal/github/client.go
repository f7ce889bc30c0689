// Package github fetches public repository listings from the GitHub API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"devconnector/internal/middleware"
)

// ErrNoProfile means GitHub has no such user (or the repos are unreadable).
var ErrNoProfile = errors.New("github profile not found")

const defaultBaseURL = "https://api.github.com"

// Client calls the GitHub REST API. Credentials are optional and only raise
// the unauthenticated rate limit when present.
type Client struct {
	BaseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
}

// NewClient returns a GitHub client with the given OAuth app credentials.
func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		BaseURL:      defaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// Repos returns the five most recently created public repositories of a user
// as the raw JSON array GitHub served. Any non-200 answer maps to ErrNoProfile.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if c.clientID != "" {
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.clientSecret)
	}
	uri := fmt.Sprintf("%s/users/%s/repos?%s", c.BaseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "node.js")
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.http.Do(req)
	if err != nil {
		middleware.GithubRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		middleware.GithubRequests.WithLabelValues("not_found").Inc()
		return nil, ErrNoProfile
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		middleware.GithubRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	middleware.GithubRequests.WithLabelValues("ok").Inc()
	return json.RawMessage(body), nil
}
