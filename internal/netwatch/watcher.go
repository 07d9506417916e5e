package netwatch

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/rewake/internal/event"
	"github.com/five82/rewake/internal/trigger"
)

const (
	defaultProbeTimeout = 3 * time.Second
	defaultInterval     = 5 * time.Second
)

// DialFunc opens a connection; it matches (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Options configure a Watcher. Zero values use defaults.
type Options struct {
	ProbeTimeout time.Duration
	Interval     time.Duration
	Logger       *zap.Logger
	Dial         DialFunc
	Classify     func(net.Addr) trigger.ConnectionType
}

// Watcher is a trigger.ConnectivitySource that judges reachability by opening
// a TCP connection to a target address. While anyone is subscribed it samples
// on a fixed interval and publishes whenever the connection type changes.
type Watcher struct {
	addr     string
	timeout  time.Duration
	interval time.Duration
	log      *zap.Logger
	dial     DialFunc
	classify func(net.Addr) trigger.ConnectionType

	bus event.Bus[trigger.Connectivity]

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	last   trigger.ConnectionType
	closed bool
}

var _ trigger.ConnectivitySource = (*Watcher)(nil)

// New builds a Watcher for addr (host:port).
func New(addr string, opts Options) (*Watcher, error) {
	target := strings.TrimSpace(addr)
	if _, _, err := net.SplitHostPort(target); err != nil {
		return nil, fmt.Errorf("parse watch address %q: %w", addr, err)
	}

	w := &Watcher{
		addr:     target,
		timeout:  opts.ProbeTimeout,
		interval: opts.Interval,
		log:      opts.Logger,
		dial:     opts.Dial,
		classify: opts.Classify,
	}
	if w.timeout <= 0 {
		w.timeout = defaultProbeTimeout
	}
	if w.interval <= 0 {
		w.interval = defaultInterval
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	w.log = w.log.Named("netwatch")
	if w.dial == nil {
		w.dial = (&net.Dialer{}).DialContext
	}
	if w.classify == nil {
		w.classify = classifyAddr
	}
	w.bus.OnFirst = w.start
	w.bus.OnEmpty = w.stop
	return w, nil
}

// Addr returns the probe target.
func (w *Watcher) Addr() string {
	return w.addr
}

// Probe implements trigger.ConnectivitySource. A failed dial means the network
// is unreachable; only a cancelled caller context is reported as an error.
func (w *Watcher) Probe(ctx context.Context) (bool, error) {
	conn, err := w.Sample(ctx)
	if err != nil {
		return false, err
	}
	return conn.Type.Reachable(), nil
}

// Sample performs one reachability check.
func (w *Watcher) Sample(ctx context.Context) (trigger.Connectivity, error) {
	if err := ctx.Err(); err != nil {
		return trigger.Connectivity{}, err
	}
	dctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	conn, err := w.dial(dctx, "tcp", w.addr)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return trigger.Connectivity{}, ctxErr
		}
		w.log.Debug("probe dial failed", zap.String("addr", w.addr), zap.Error(err))
		return trigger.Connectivity{Type: trigger.ConnectionNone}, nil
	}
	defer func() { _ = conn.Close() }()

	local := conn.LocalAddr()
	result := trigger.Connectivity{Type: w.classify(local)}
	if local != nil {
		result.Addr = local.String()
	}
	return result, nil
}

// SubscribeConnectivity implements trigger.ConnectivitySource. The first
// subscriber starts sampling; the last Unsubscribe stops it.
func (w *Watcher) SubscribeConnectivity(fn func(trigger.Connectivity)) trigger.Subscription {
	return w.bus.Subscribe(fn)
}

// Watching reports whether the sampling goroutine is running.
func (w *Watcher) Watching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}

// Close stops sampling and waits for the goroutine to exit. Later
// subscriptions never start sampling again.
func (w *Watcher) Close() {
	w.mu.Lock()
	w.closed = true
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (w *Watcher) start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	w.last = ""
	go w.run(ctx, w.done)
	w.log.Debug("connectivity sampling started", zap.Duration("interval", w.interval))
}

// stop does not wait for the goroutine: it may be called from a subscriber
// running on that goroutine.
func (w *Watcher) stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		w.log.Debug("connectivity sampling stopped")
	}
}

func (w *Watcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.sampleAndPublish(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Watcher) sampleAndPublish(ctx context.Context) {
	conn, err := w.Sample(ctx)
	if err != nil {
		return
	}

	w.mu.Lock()
	changed := conn.Type != w.last
	w.last = conn.Type
	w.mu.Unlock()

	if !changed || ctx.Err() != nil {
		return
	}
	w.log.Debug("connectivity changed", zap.String("type", string(conn.Type)), zap.String("local", conn.Addr))
	w.bus.Publish(conn)
}
