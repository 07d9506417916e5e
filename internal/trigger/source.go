package trigger

import (
	"context"
	"strings"
)

// LifecycleState is the normalised foreground/background state of the host.
type LifecycleState int

const (
	// Active means the host is in the foreground and has the user's attention.
	Active LifecycleState = iota
	// Inactive means the host just left the foreground.
	Inactive
	// Background covers every other non-foreground state the platform reports
	// (suspended, hidden). It gates like Inactive.
	Background
)

// String returns a human-readable representation of the state.
func (s LifecycleState) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	case Background:
		return "background"
	default:
		return "unknown"
	}
}

// ConnectionType classifies the transport of the current network path.
type ConnectionType string

const (
	ConnectionNone     ConnectionType = "none"
	ConnectionWifi     ConnectionType = "wifi"
	ConnectionCellular ConnectionType = "cellular"
	ConnectionEthernet ConnectionType = "ethernet"
	ConnectionLoopback ConnectionType = "loopback"
	ConnectionUnknown  ConnectionType = "unknown"
)

// Reachable reports whether the type denotes any usable network path.
// Matching against "none" is case-insensitive.
func (t ConnectionType) Reachable() bool {
	return !strings.EqualFold(strings.TrimSpace(string(t)), string(ConnectionNone))
}

// Connectivity describes one reachability observation.
type Connectivity struct {
	Type ConnectionType
	Addr string // local address used for the probe, empty when unreachable
}

// Subscription is the handle returned by a subscribe call. Unsubscribe must be
// safe to call more than once.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

// Unsubscribe calls f.
func (f SubscriptionFunc) Unsubscribe() {
	if f != nil {
		f()
	}
}

// LifecycleSource delivers host foreground/background changes.
type LifecycleSource interface {
	SubscribeLifecycle(fn func(LifecycleState)) Subscription
}

// ConnectivitySource answers one-shot reachability probes and delivers
// reachability changes.
type ConnectivitySource interface {
	Probe(ctx context.Context) (bool, error)
	SubscribeConnectivity(fn func(Connectivity)) Subscription
}
