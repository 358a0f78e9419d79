// internal/common/notify/hub.go
package notify

import "sync"

const defaultBuffer = 16

// Hub fans snapshots out to subscribers. A subscriber whose buffer is full
// is closed and dropped instead of blocking the publisher.
type Hub[T any] struct {
	mu      sync.Mutex
	subs    map[int]chan T
	nextSub int
	buffer  int
	closed  bool
}

func NewHub[T any](buffer int) *Hub[T] {
	if buffer < 1 {
		buffer = defaultBuffer
	}
	return &Hub[T]{
		subs:   make(map[int]chan T),
		buffer: buffer,
	}
}

func (h *Hub[T]) Publish(value T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- value:
		default:
			close(ch)
			delete(h.subs, id)
		}
	}
}

// Subscribe returns a channel of future values and a cancel func that closes it.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan T, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextSub
	h.nextSub++
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			close(sub)
			delete(h.subs, id)
		}
	}
	return ch, cancel
}

// Close closes every subscriber; later Subscribe calls get a closed channel.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
	h.closed = true
}

func (h *Hub[T]) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
