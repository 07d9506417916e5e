package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishesToSubscribersInOrder(t *testing.T) {
	var b Bus[int]
	var got []string

	b.Subscribe(func(v int) { got = append(got, "a") })
	b.Subscribe(func(v int) { got = append(got, "b") })
	b.Publish(1)

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, b.Len())
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	var b Bus[string]
	calls := 0

	h := b.Subscribe(func(string) { calls++ })
	keep := b.Subscribe(func(string) {})
	h.Unsubscribe()
	h.Unsubscribe()
	b.Publish("x")

	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, b.Len())
	keep.Unsubscribe()
	assert.Equal(t, 0, b.Len())

	var nilHandle *Handle
	nilHandle.Unsubscribe()
}

func TestBus_FirstAndEmptyHooks(t *testing.T) {
	var first, empty int
	b := &Bus[int]{
		OnFirst: func() { first++ },
		OnEmpty: func() { empty++ },
	}

	h1 := b.Subscribe(func(int) {})
	h2 := b.Subscribe(func(int) {})
	assert.Equal(t, 1, first)

	h1.Unsubscribe()
	assert.Equal(t, 0, empty)
	h2.Unsubscribe()
	h2.Unsubscribe()
	assert.Equal(t, 1, empty)

	b.Subscribe(func(int) {})
	assert.Equal(t, 2, first)
}

func TestBus_CallbackMayUnsubscribeItself(t *testing.T) {
	var b Bus[int]
	calls := 0
	var h *Handle
	h = b.Subscribe(func(int) {
		calls++
		h.Unsubscribe()
	})

	b.Publish(1)
	b.Publish(2)

	assert.Equal(t, 1, calls)
}
