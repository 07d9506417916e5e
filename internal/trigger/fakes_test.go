package trigger

import (
	"context"
	"sync"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeLifecycle struct {
	mu         sync.Mutex
	subs       map[int]func(LifecycleState)
	nextID     int
	subscribes int
}

func newFakeLifecycle() *fakeLifecycle {
	return &fakeLifecycle{subs: make(map[int]func(LifecycleState))}
}

func (f *fakeLifecycle) SubscribeLifecycle(fn func(LifecycleState)) Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.subscribes++
	return SubscriptionFunc(func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	})
}

func (f *fakeLifecycle) deliver(state LifecycleState) {
	f.mu.Lock()
	fns := make([]func(LifecycleState), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

func (f *fakeLifecycle) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// fakeNetwork answers probes from a queue of results. When gate is non-nil,
// probes block until it is closed.
type fakeNetwork struct {
	mu         sync.Mutex
	reachable  bool
	err        error
	gate       chan struct{}
	probes     int
	subs       map[int]func(Connectivity)
	nextID     int
	subscribes int
}

func newFakeNetwork(reachable bool) *fakeNetwork {
	return &fakeNetwork{reachable: reachable, subs: make(map[int]func(Connectivity))}
}

func (f *fakeNetwork) Probe(ctx context.Context) (bool, error) {
	f.mu.Lock()
	f.probes++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reachable, f.err
}

func (f *fakeNetwork) SubscribeConnectivity(fn func(Connectivity)) Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.subscribes++
	return SubscriptionFunc(func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	})
}

func (f *fakeNetwork) deliver(conn Connectivity) {
	f.mu.Lock()
	fns := make([]func(Connectivity), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(conn)
	}
}

func (f *fakeNetwork) set(reachable bool, err error) {
	f.mu.Lock()
	f.reachable = reachable
	f.err = err
	f.mu.Unlock()
}

func (f *fakeNetwork) counts() (probes, subscribes, active int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes, f.subscribes, len(f.subs)
}

type fetchCounter struct {
	mu sync.Mutex
	n  int
}

func (f *fetchCounter) Fetch(context.Context) {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
}

func (f *fetchCounter) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}
