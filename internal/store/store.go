// Package store defines the path-keyed document store the rest of the
// application persists through.
//
// Documents are JSON values addressed by slash-separated paths
// (e.g. "events/ev1/expenses/ex1"). Writes replace the whole document at a
// path; there is no partial patch. Concurrent writers to the same path get
// last-write-wins at full-document granularity.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = errors.New("document not found")

// CancelFunc cancels a subscription. It is idempotent, and once it returns
// the subscription's callback will not be invoked again. It must not be
// called from inside the callback itself: it blocks until any in-flight
// invocation has returned.
type CancelFunc func()

// Store is the persistence interface. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get reads the document at path into out. Returns ErrNotFound when
	// nothing is stored there.
	Get(ctx context.Context, path string, out any) error

	// Set writes v as the full document at path, replacing any previous
	// value, and wakes subscribers watching the path or any of its
	// ancestors or descendants.
	Set(ctx context.Context, path string, v any) error

	// Push appends v under path with a generated unique key and returns
	// that key. The document lands at path/<key>.
	Push(ctx context.Context, path string, v any) (string, error)

	// Delete removes the document at path and every document below it.
	// Deleting a path with nothing under it is not an error.
	Delete(ctx context.Context, path string) error

	// Children returns the direct child documents of path, keyed by child
	// name. Interior nodes (children that only have documents deeper down)
	// are not included; use Keys for those.
	Children(ctx context.Context, path string) (map[string]json.RawMessage, error)

	// Keys returns the sorted direct child names under path, including
	// interior nodes.
	Keys(ctx context.Context, path string) ([]string, error)

	// Subscribe registers onChange to run whenever a write or delete
	// touches path, one of its ancestors, or anything below it. Callbacks
	// carry no payload: subscribers re-read the subtree they care about,
	// so every notification reflects the full current state. Independent
	// subscriptions on the same path are individually cancelable.
	Subscribe(path string, onChange func()) CancelFunc

	// Close releases any resources held by the store.
	Close() error
}
