// Package gerrit is a small REST client for the parts of the Gerrit API the
// delete flow talks to.
package gerrit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stuttgart-things/delete-repo/internal/action"
)

// XSSIPrefix is prepended by Gerrit to every JSON response
const XSSIPrefix = ")]}'"

// Client is the API client for a Gerrit server
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	User       string
	Password   string

	mu     sync.Mutex
	repos  []ProjectInfo
	cached bool
	// generation is bumped by InvalidateReposCache so a listing fetched
	// across an invalidation is not stored
	generation uint64
}

// NewClient creates a new Gerrit API client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithHTTPClient creates a new Gerrit API client with a custom HTTP client
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
	}
}

// WithCredentials sets HTTP basic credentials. Authenticated calls go
// through the /a/ prefix like Gerrit expects.
func (c *Client) WithCredentials(user, password string) *Client {
	c.User = user
	c.Password = password
	return c
}

func (c *Client) authenticated() bool {
	return c.User != "" && c.Password != ""
}

// Fetch sends one request. body, when non-nil, is sent as JSON. A non-2xx
// status is not an error; only transport failures are.
func (c *Client) Fetch(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	if c.authenticated() {
		path = "/a" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authenticated() {
		req.SetBasicAuth(c.User, c.Password)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       StripXSSI(data),
	}, nil
}

// StripXSSI removes the magic prefix line from a Gerrit response body
func StripXSSI(data []byte) []byte {
	if !bytes.HasPrefix(data, []byte(XSSIPrefix)) {
		return data
	}
	data = data[len(XSSIPrefix):]
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[i+1:]
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Fetch(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ProjectConfig returns the actions the server offers on a project
func (c *Client) ProjectConfig(ctx context.Context, name string) (*action.Config, error) {
	var cfg action.Config
	if err := c.getJSON(ctx, "/projects/"+url.PathEscape(name)+"/config", &cfg); err != nil {
		return nil, fmt.Errorf("fetching config of %s: %w", name, err)
	}
	return &cfg, nil
}

// ListProjects returns all visible projects sorted by name. The result is
// cached until InvalidateReposCache is called.
func (c *Client) ListProjects(ctx context.Context) ([]ProjectInfo, error) {
	c.mu.Lock()
	if c.cached {
		repos := c.repos
		c.mu.Unlock()
		return repos, nil
	}
	generation := c.generation
	c.mu.Unlock()

	var byName map[string]ProjectInfo
	if err := c.getJSON(ctx, "/projects/?d", &byName); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	repos := make([]ProjectInfo, 0, len(byName))
	for name, info := range byName {
		info.Name = name
		repos = append(repos, info)
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })

	c.mu.Lock()
	if c.generation == generation {
		c.repos = repos
		c.cached = true
	}
	c.mu.Unlock()

	return repos, nil
}

// InvalidateReposCache drops the cached project listing
func (c *Client) InvalidateReposCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repos = nil
	c.cached = false
	c.generation++
}
