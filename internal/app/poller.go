package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/rewake/internal/spindle"
	"github.com/five82/rewake/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// Poller refreshes the store on a fixed cadence, backing off while refreshes
// fail, and refreshes immediately when kicked.
type Poller struct {
	store    *state.Store
	client   spindle.Fetcher
	interval time.Duration
	log      *zap.Logger
	kick     chan state.RefreshReason

	mu        sync.Mutex
	onFailure func()
}

// NewPoller builds a Poller. A non-positive interval uses the default.
func NewPoller(store *state.Store, client spindle.Fetcher, interval time.Duration, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		store:    store,
		client:   client,
		interval: interval,
		log:      log.Named("poller"),
		kick:     make(chan state.RefreshReason, 1),
	}
}

// OnFailure registers fn to run after every failed refresh.
func (p *Poller) OnFailure(fn func()) {
	p.mu.Lock()
	p.onFailure = fn
	p.mu.Unlock()
}

// Kick requests an immediate refresh. Kicks that arrive while one is already
// pending are coalesced. It never blocks.
func (p *Poller) Kick(reason state.RefreshReason) {
	select {
	case p.kick <- reason:
	default:
	}
}

// Fetch adapts Kick to the trigger's fetch capability.
func (p *Poller) Fetch(context.Context) {
	p.Kick(state.ReasonTrigger)
}

// Run refreshes until ctx is cancelled. The first refresh happens at once.
func (p *Poller) Run(ctx context.Context) error {
	reason := state.ReasonPoll
	for {
		p.refresh(ctx, reason)

		wait := calculateBackoff(p.store.Failures(), p.interval)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			reason = state.ReasonPoll
		case reason = <-p.kick:
			timer.Stop()
		}
	}
}

func (p *Poller) refresh(ctx context.Context, reason state.RefreshReason) {
	status, err := p.client.FetchStatus(ctx)
	if err == nil {
		var queue []spindle.QueueItem
		queue, err = p.client.FetchQueue(ctx)
		if err == nil {
			p.store.Update(reason, status, queue, nil)
			return
		}
	}
	if ctx.Err() != nil {
		return
	}

	p.store.Update(reason, nil, nil, err)
	p.log.Warn("refresh failed", zap.String("reason", string(reason)),
		zap.Int("failures", p.store.Failures()), zap.Error(err))

	p.mu.Lock()
	onFailure := p.onFailure
	p.mu.Unlock()
	if onFailure != nil {
		onFailure()
	}
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
