package store

import (
	"strings"
	"sync"
)

// Hub fans writes out to path subscribers. Store implementations embed one
// and call Notify after every successful write or delete.
type Hub struct {
	mu   sync.Mutex
	subs map[int]*subscription
	next int
}

type subscription struct {
	path string

	// mu serializes callback invocations against cancellation: Notify
	// holds it while the callback runs, and cancel takes it before
	// marking the subscription dead, so no callback can start after
	// cancel returns.
	mu        sync.Mutex
	cancelled bool
	onChange  func()
}

// NewHub returns an empty subscription hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]*subscription)}
}

// Subscribe registers onChange for path. See Store.Subscribe for the
// notification and cancellation contract.
func (h *Hub) Subscribe(path string, onChange func()) CancelFunc {
	sub := &subscription{path: path, onChange: onChange}

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = sub
	h.mu.Unlock()

	return func() {
		sub.mu.Lock()
		sub.cancelled = true
		sub.mu.Unlock()

		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Notify invokes every live subscription related to the changed path: exact
// matches, subscriptions on an ancestor of the change, and subscriptions on
// a descendant (a deleted ancestor wipes everything below it).
func (h *Hub) Notify(changed string) {
	h.mu.Lock()
	var matched []*subscription
	for _, sub := range h.subs {
		if pathsRelated(sub.path, changed) {
			matched = append(matched, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range matched {
		sub.mu.Lock()
		if !sub.cancelled {
			sub.onChange()
		}
		sub.mu.Unlock()
	}
}

// pathsRelated reports whether a and b are the same path or one contains
// the other.
func pathsRelated(a, b string) bool {
	return a == b ||
		strings.HasPrefix(b, a+"/") ||
		strings.HasPrefix(a, b+"/")
}
