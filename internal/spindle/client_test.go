package spindle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL(http://) returned nil error, want missing host")
	}
}

func TestClient_Addr(t *testing.T) {
	tests := []struct {
		bind string
		want string
	}{
		{"10.0.0.5:9999", "10.0.0.5:9999"},
		{"http://spindle.lan", "spindle.lan:80"},
		{"https://spindle.lan", "spindle.lan:443"},
		{"", defaultAPIBind},
	}
	for _, tt := range tests {
		c, err := NewClient(tt.bind)
		if err != nil {
			t.Fatalf("NewClient(%q) returned error: %v", tt.bind, err)
		}
		if got := c.Addr(); got != tt.want {
			t.Errorf("NewClient(%q).Addr() = %q, want %q", tt.bind, got, tt.want)
		}
	}
	var nilClient *Client
	if nilClient.Addr() != "" {
		t.Fatalf("nil client Addr should be empty")
	}
}

func TestClient_FetchesEndpoints(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotUserAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/status":
			_ = json.NewEncoder(w).Encode(StatusResponse{Running: true, PID: 123})
		case "/api/queue":
			_ = json.NewEncoder(w).Encode(QueueListResponse{Items: []QueueItem{{ID: 42, DiscTitle: "Disc"}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	status, err := c.FetchStatus(ctx)
	if err != nil {
		t.Fatalf("FetchStatus returned error: %v", err)
	}
	if status.PID != 123 || !status.Running {
		t.Fatalf("FetchStatus payload = %#v, want running pid=123", status)
	}

	items, err := c.FetchQueue(ctx)
	if err != nil {
		t.Fatalf("FetchQueue returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != 42 {
		t.Fatalf("FetchQueue items = %#v, want one item id=42", items)
	}
	mu.Lock()
	defer mu.Unlock()
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_ErrorStatusAndDecode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/status":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/api/queue":
			_, _ = w.Write([]byte("{not json"))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := c.FetchStatus(context.Background()); err == nil || !strings.Contains(err.Error(), "status 503") {
		t.Fatalf("FetchStatus error = %v, want status 503", err)
	}
	if _, err := c.FetchQueue(context.Background()); err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchQueue error = %v, want decode response", err)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchStatus(context.Background()); !errors.Is(err, ErrNilClient) {
		t.Fatalf("FetchStatus on nil = %v, want ErrNilClient", err)
	}
	if _, err := c.FetchQueue(context.Background()); !errors.Is(err, ErrNilClient) {
		t.Fatalf("FetchQueue on nil = %v, want ErrNilClient", err)
	}
}
