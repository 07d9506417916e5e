// Package spindle provides an HTTP client for the Spindle daemon API.
//
// # Client Usage
//
//	client, err := spindle.NewClient("127.0.0.1:7487")
//	if err != nil {
//		return fmt.Errorf("init spindle client: %w", err)
//	}
//	status, err := client.FetchStatus(ctx)
//	queue, err := client.FetchQueue(ctx)
//
// # API Endpoints
//
//   - GET /api/status: daemon status and queue statistics
//   - GET /api/queue: queue items
//
// Addr exposes the resolved host:port so the network watcher can probe the
// same endpoint the client fetches from.
//
// # Error Handling
//
// All errors are wrapped with fmt.Errorf:
//   - "execute request: dial tcp: connection refused"
//   - "api /api/status returned status 500"
//   - "decode response: unexpected end of JSON input"
//
// The client never retries. The app poller owns cadence and backoff, and the
// refresh trigger decides when a failure warrants a network watch.
package spindle
