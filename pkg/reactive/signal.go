package reactive

import (
	"reflect"
	"sync"
)

// signalBase provides type-erased subscriber management shared by Signal
// and Memo.
type signalBase struct {
	id uint64

	subs  []Listener
	subMu sync.RWMutex
}

// sourceTracker is implemented by listeners that remember what they read,
// so they can unsubscribe before re-running.
type sourceTracker interface {
	addSource(source *signalBase)
}

// track subscribes the current listener, if any.
func (s *signalBase) track() {
	l := getCurrentListener()
	if l == nil {
		return
	}
	s.subscribe(l)
	if t, ok := l.(sourceTracker); ok {
		t.addSource(s)
	}
}

// subscribe adds a listener, deduplicated by ID.
func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			// Order is preserved: listeners run in subscription order.
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notifySubscribers marks every subscriber dirty, or queues them when a
// batch is open. Subscribers are copied first so no lock is held while
// listeners run.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	ctx := getTrackingContext()
	if ctx.batchDepth > 0 {
		ctx.pendingUpdates = append(ctx.pendingUpdates, subs...)
		return
	}
	for _, sub := range subs {
		sub.MarkDirty()
	}
}

func (s *signalBase) subscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// Signal is a reactive value container.
type Signal[T any] struct {
	base signalBase

	value T
	mu    sync.RWMutex

	// equal decides whether a write is a change. nil means defaultEquals.
	equal func(T, T) bool
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base:  signalBase{id: nextID()},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	s.base.track()
	return value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and notifies subscribers if it differs from the current
// value.
func (s *Signal[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update atomically replaces the value with fn(current).
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	old := s.value
	next := fn(old)
	changed := !s.equals(old, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// WithEquals sets a custom equality function and returns the signal.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the signal's unique identifier.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == where the dynamic types allow it and falls back to
// reflect.DeepEqual for slices, maps and other non-comparable values.
func defaultEquals[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == nil && bv == nil
	}
	ta := reflect.TypeOf(av)
	if ta == reflect.TypeOf(bv) && ta.Comparable() {
		switch ta.Kind() {
		case reflect.Slice, reflect.Map, reflect.Func:
		default:
			return av == bv
		}
	}
	return reflect.DeepEqual(a, b)
}
