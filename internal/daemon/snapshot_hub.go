package daemon

import (
	"sync"

	"corkboard/internal/types"
)

// hub fans a value out to every subscriber. Sends never block: a watcher
// that cannot keep up silently drops intermediate values, which is safe
// because every broadcast is a complete snapshot, not a delta.
type hub[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan T
}

func newHub[T any]() *hub[T] {
	return &hub[T]{subs: make(map[int]chan T)}
}

func (h *hub[T]) Add() (<-chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	ch := make(chan T, 16)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		sub, ok := h.subs[id]
		if ok {
			delete(h.subs, id)
		}
		h.mu.Unlock()
		if ok {
			close(sub)
		}
	}
	return ch, cancel
}

func (h *hub[T]) Broadcast(value T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- value:
		default:
		}
	}
}

type noteHub = hub[types.Snapshot]

func newNoteHub() *noteHub {
	return newHub[types.Snapshot]()
}

type messageHub = hub[[]*types.Message]

func newMessageHub() *messageHub {
	return newHub[[]*types.Message]()
}
