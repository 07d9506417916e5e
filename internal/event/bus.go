// Package event provides a small fan-out bus whose subscriptions are removed
// through the handle returned by Subscribe rather than by comparing callbacks.
package event

import (
	"sync"
)

// Bus delivers published values to every current subscriber, in subscription
// order, on the publishing goroutine. The zero value is ready to use.
type Bus[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscriber[T]

	// OnEmpty, when set, runs after the last subscriber unsubscribes.
	OnEmpty func()
	// OnFirst, when set, runs after the first subscriber is added.
	OnFirst func()
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Handle removes one subscription. Unsubscribe is idempotent.
type Handle struct {
	once   sync.Once
	remove func()
}

// Unsubscribe detaches the subscription.
func (h *Handle) Unsubscribe() {
	if h == nil {
		return
	}
	h.once.Do(h.remove)
}

// Subscribe registers fn and returns its handle.
func (b *Bus[T]) Subscribe(fn func(T)) *Handle {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber[T]{id: id, fn: fn})
	first := len(b.subs) == 1
	onFirst := b.OnFirst
	b.mu.Unlock()

	if first && onFirst != nil {
		onFirst()
	}
	return &Handle{remove: func() { b.remove(id) }}
}

// Publish calls every subscriber with v. Callbacks run without the bus lock,
// so they may subscribe or unsubscribe.
func (b *Bus[T]) Publish(v T) {
	b.mu.RLock()
	fns := make([]func(T), len(b.subs))
	for i, s := range b.subs {
		fns[i] = s.fn
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of active subscriptions.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	removed := false
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			removed = true
			break
		}
	}
	empty := removed && len(b.subs) == 0
	onEmpty := b.OnEmpty
	b.mu.Unlock()

	if empty && onEmpty != nil {
		onEmpty()
	}
}
