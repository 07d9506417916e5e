package trigger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// connectivityListener arms a reachability watch only after a probe confirms
// the network is down, then fetches on every change to a reachable type.
type connectivityListener struct {
	source  ConnectivitySource
	request func(Reason)
	log     *zap.Logger

	mu     sync.Mutex
	sub    Subscription
	arming bool // a registration is between probe result and Subscribe returning
	probes int
	closed bool
}

func (c *connectivityListener) handleNetwork(ctx context.Context) {
	if c.source == nil {
		return
	}
	c.mu.Lock()
	if c.closed || c.sub != nil {
		c.mu.Unlock()
		return
	}
	c.probes++
	c.mu.Unlock()

	go c.probe(ctx)
}

func (c *connectivityListener) probe(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		c.probes--
		c.mu.Unlock()
	}()

	reachable, err := c.source.Probe(ctx)
	if err != nil {
		c.log.Debug("reachability probe failed", zap.Error(err))
		return
	}
	if reachable {
		// The failure happened with the network up; a watch would not help.
		c.log.Debug("network reachable, not arming connectivity watch")
		return
	}
	c.register()
}

// register enforces the single-subscription rule at registration time so that
// overlapping probes cannot leak a second handle.
func (c *connectivityListener) register() {
	c.mu.Lock()
	if c.closed || c.sub != nil || c.arming {
		c.mu.Unlock()
		c.log.Debug("connectivity watch already armed, dropping registration")
		return
	}
	c.arming = true
	c.mu.Unlock()

	sub := c.source.SubscribeConnectivity(c.onChange)

	c.mu.Lock()
	c.arming = false
	if sub == nil {
		c.mu.Unlock()
		c.log.Debug("connectivity source returned no subscription")
		return
	}
	if c.closed {
		c.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	c.sub = sub
	c.mu.Unlock()
	c.log.Info("network unreachable, watching for recovery")
}

func (c *connectivityListener) onChange(conn Connectivity) {
	c.mu.Lock()
	armed := !c.closed && (c.sub != nil || c.arming)
	c.mu.Unlock()
	if !armed {
		return
	}
	if !conn.Type.Reachable() {
		c.log.Debug("connectivity changed, still offline")
		return
	}
	c.log.Info("network recovered", zap.String("type", string(conn.Type)))
	c.request(ReasonNetwork)
}

func (c *connectivityListener) detach() {
	c.mu.Lock()
	c.closed = true
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub == nil {
		return
	}
	sub.Unsubscribe()
	c.log.Debug("connectivity listener detached")
}

func (c *connectivityListener) status() (armed bool, probes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sub != nil, c.probes
}
