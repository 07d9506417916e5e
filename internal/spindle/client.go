package spindle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher is the read side of the Spindle API that rewake refreshes from.
// *Client implements it; tests substitute fakes.
type Fetcher interface {
	FetchStatus(ctx context.Context) (*StatusResponse, error)
	FetchQueue(ctx context.Context) ([]QueueItem, error)
}

var _ Fetcher = (*Client)(nil)

// ErrNilClient is returned by methods called on a nil *Client.
var ErrNilClient = errors.New("client is nil")

// Client talks to the Spindle HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7487"
	defaultUserAgent = "rewake/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
	}, nil
}

// Addr returns the API host:port, filling in the scheme's default port.
func (c *Client) Addr() string {
	if c == nil {
		return ""
	}
	if c.baseURL.Port() != "" {
		return c.baseURL.Host
	}
	port := "80"
	if c.baseURL.Scheme == "https" {
		port = "443"
	}
	return net.JoinHostPort(c.baseURL.Hostname(), port)
}

// FetchStatus retrieves daemon and workflow status information.
func (c *Client) FetchStatus(ctx context.Context) (*StatusResponse, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	var payload StatusResponse
	if err := c.get(ctx, "/api/status", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchQueue retrieves the current queue snapshot.
func (c *Client) FetchQueue(ctx context.Context) ([]QueueItem, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	var payload QueueListResponse
	if err := c.get(ctx, "/api/queue", &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_bind %q: missing host", apiBind)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
