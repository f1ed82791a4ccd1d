package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a derived value. It computes once on creation, recomputes as soon
// as a dependency notifies, and caches the result until the next
// notification. Subscribers are notified only when the result changes.
type Memo[T any] struct {
	base signalBase

	compute func() T

	value   T
	valueMu sync.RWMutex

	sources   []*signalBase
	sourcesMu sync.Mutex

	equal func(T, T) bool

	// computing guards against circular dependencies.
	computing atomic.Bool
	disposed  atomic.Bool
}

// NewMemo creates a memo and computes its initial value. When created under
// an Owner, the memo unsubscribes from its sources when the owner is
// disposed.
func NewMemo[T any](compute func() T) *Memo[T] {
	m := &Memo[T]{
		base:    signalBase{id: nextID()},
		compute: compute,
	}
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(m.dispose)
	}
	m.recompute()
	return m
}

// Get returns the cached value and subscribes the current listener.
func (m *Memo[T]) Get() T {
	m.base.track()
	return m.Peek()
}

// Peek returns the cached value without subscribing.
func (m *Memo[T]) Peek() T {
	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// MarkDirty recomputes the memo and propagates a change to subscribers.
func (m *Memo[T]) MarkDirty() {
	if m.disposed.Load() {
		return
	}
	if m.recompute() {
		m.base.notifySubscribers()
	}
}

// ID returns the memo's unique identifier.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// WithEquals sets a custom equality function and returns the memo.
func (m *Memo[T]) WithEquals(fn func(T, T) bool) *Memo[T] {
	m.equal = fn
	return m
}

func (m *Memo[T]) addSource(source *signalBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()
	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

func (m *Memo[T]) clearSources() {
	m.sourcesMu.Lock()
	sources := m.sources
	m.sources = nil
	m.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(m)
	}
}

// recompute runs compute with the memo as the current listener and reports
// whether the cached value changed.
func (m *Memo[T]) recompute() bool {
	if m.computing.Swap(true) {
		return false
	}
	defer m.computing.Store(false)

	m.clearSources()

	old := setCurrentListener(m)
	next := m.compute()
	setCurrentListener(old)

	m.valueMu.Lock()
	changed := !m.equals(m.value, next)
	m.value = next
	m.valueMu.Unlock()
	return changed
}

func (m *Memo[T]) equals(a, b T) bool {
	if m.equal != nil {
		return m.equal(a, b)
	}
	return defaultEquals(a, b)
}

func (m *Memo[T]) dispose() {
	if m.disposed.Swap(true) {
		return
	}
	m.clearSources()
}
