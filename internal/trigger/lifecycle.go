package trigger

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// lifecycleListener turns foreground/background changes into resume fetches,
// gated by how long the host was away.
type lifecycleListener struct {
	source  LifecycleSource
	enabled bool
	delay   time.Duration
	now     func() time.Time
	request func(Reason)
	log     *zap.Logger

	attachMu sync.Mutex // serialises attach/detach; never held by callbacks
	detached bool      // guarded by attachMu

	mu            sync.Mutex
	sub           Subscription
	inactiveSince time.Time
	marked        bool
	away          bool
}

func (l *lifecycleListener) attach() {
	if !l.enabled || l.source == nil {
		return
	}
	l.attachMu.Lock()
	defer l.attachMu.Unlock()

	if l.detached || l.attached() {
		return
	}
	sub := l.source.SubscribeLifecycle(l.onStateChange)
	if sub == nil {
		l.log.Debug("lifecycle source returned no subscription")
		return
	}
	l.mu.Lock()
	l.sub = sub
	l.mu.Unlock()
	l.log.Debug("lifecycle listener attached", zap.Duration("resume_delay", l.delay))
}

func (l *lifecycleListener) detach() {
	l.attachMu.Lock()
	defer l.attachMu.Unlock()
	l.detached = true

	l.mu.Lock()
	sub := l.sub
	l.sub = nil
	l.mu.Unlock()

	if sub == nil {
		return
	}
	sub.Unsubscribe()
	l.log.Debug("lifecycle listener detached")
}

func (l *lifecycleListener) attached() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sub != nil
}

func (l *lifecycleListener) onStateChange(state LifecycleState) {
	l.mu.Lock()
	if l.sub == nil {
		l.mu.Unlock()
		return
	}
	now := l.now()

	switch state {
	case Active:
		l.away = false
		due := !l.marked || now.Sub(l.inactiveSince) >= l.delay
		var away time.Duration
		if l.marked {
			away = now.Sub(l.inactiveSince)
		}
		l.mu.Unlock()

		if !due {
			l.log.Debug("resume within delay, skipping fetch",
				zap.Duration("away", away), zap.Duration("resume_delay", l.delay))
			return
		}
		l.request(ReasonResume)
		return

	case Inactive:
		l.inactiveSince = now
		l.marked = true
		l.away = true

	default:
		// Already away: keep the original mark so background states cannot
		// shorten the measured absence.
		if !l.away {
			l.inactiveSince = now
			l.marked = true
			l.away = true
		}
	}
	l.mu.Unlock()
}
