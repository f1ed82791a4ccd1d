package reactive

import "sync/atomic"

// Listener is anything that can be notified when a dependency changes.
// Memos and effects implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	MarkDirty()

	// ID returns a unique identifier used for deduplication.
	ID() uint64
}

// Cleanup is returned by effects to release resources.
// It runs before the effect re-runs and when the effect is disposed.
type Cleanup func()

var globalIDCounter uint64

// nextID returns the next unique ID for a reactive primitive.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
