package trigger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reason identifies what caused a fetch.
type Reason string

const (
	ReasonResume  Reason = "resume"
	ReasonNetwork Reason = "network"
)

// Stats is a point-in-time view of a Controller.
type Stats struct {
	Mounted           bool
	LifecycleAttached bool
	NetworkArmed      bool
	PendingProbes     int
	Fetches           int
	LastReason        Reason
	LastFetch         time.Time
}

// Controller composes the lifecycle and connectivity listeners and keeps their
// subscriptions consistent with its own mount/unmount lifecycle.
type Controller struct {
	cfg    Config
	log    *zap.Logger
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc

	lifecycle *lifecycleListener
	network   *connectivityListener

	mu         sync.Mutex
	mounted    bool
	unmounted  bool
	fetches    int
	lastReason Reason
	lastFetch  time.Time
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock replaces time.Now for resume gating.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithContext sets the parent of the context passed to probes and fetches.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// New builds a Controller. Nothing is subscribed until Mount.
func New(cfg Config, lifecycle LifecycleSource, connectivity ConnectivitySource, opts ...Option) *Controller {
	c := &Controller{
		cfg: cfg,
		log: zap.NewNop(),
		now: time.Now,
		ctx: context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(c.ctx)
	c.log = c.log.Named("trigger")

	c.lifecycle = &lifecycleListener{
		source:  lifecycle,
		enabled: cfg.HandleAppState(),
		delay:   cfg.EffectiveResumeDelay(),
		now:     c.now,
		request: c.fire,
		log:     c.log,
	}
	c.network = &connectivityListener{
		source:  connectivity,
		request: c.fire,
		log:     c.log,
	}
	return c
}

// Mount attaches the lifecycle listener when app state handling is enabled.
// It is a no-op when already mounted or after Unmount.
func (c *Controller) Mount() {
	c.mu.Lock()
	if c.mounted || c.unmounted {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	c.mu.Unlock()

	c.lifecycle.attach()
}

// Unmount detaches the lifecycle listener, then any connectivity watch, and
// cancels in-flight probes. Safe to call from any state, any number of times.
func (c *Controller) Unmount() {
	c.mu.Lock()
	c.mounted = false
	c.unmounted = true
	c.mu.Unlock()

	c.lifecycle.detach()
	c.network.detach()
	c.cancel()
}

// RequestNetworkWatch asks the controller to fetch once the network recovers.
// Call it after a failed fetch. It returns immediately; the reachability probe
// runs on its own goroutine and repeated calls never arm a second watch.
func (c *Controller) RequestNetworkWatch() {
	c.network.handleNetwork(c.ctx)
}

// HandleLifecycle feeds a lifecycle change directly, as a source would.
// Ignored unless the lifecycle listener is attached.
func (c *Controller) HandleLifecycle(state LifecycleState) {
	c.lifecycle.onStateChange(state)
}

// Stats reports the current subscription set and fetch counters.
func (c *Controller) Stats() Stats {
	armed, probes := c.network.status()

	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Mounted:           c.mounted,
		LifecycleAttached: c.lifecycle.attached(),
		NetworkArmed:      armed,
		PendingProbes:     probes,
		Fetches:           c.fetches,
		LastReason:        c.lastReason,
		LastFetch:         c.lastFetch,
	}
}

func (c *Controller) fire(reason Reason) {
	fetch := c.cfg.Fetch
	if fetch == nil {
		c.log.Debug("no fetch configured, skipping", zap.String("reason", string(reason)))
		return
	}

	c.mu.Lock()
	c.fetches++
	c.lastReason = reason
	c.lastFetch = c.now()
	c.mu.Unlock()

	c.log.Debug("triggering fetch", zap.String("reason", string(reason)))
	fetch(c.ctx)
}
