package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a side effect that re-runs when anything it read changes.
// The Cleanup returned by the previous run is called first.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*signalBase
	sourcesMu sync.Mutex

	owner *Owner

	pending  atomic.Bool
	disposed atomic.Bool
}

// MarkDirty schedules the effect on its owner. Ownerless effects re-run
// synchronously.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if !e.pending.CompareAndSwap(false, true) {
		return
	}
	if e.owner == nil {
		e.run()
		return
	}
	e.owner.scheduleEffect(e)
}

// ID returns the effect's unique identifier.
func (e *Effect) ID() uint64 {
	return e.id
}

// Dispose runs the last cleanup and unsubscribes from every source.
// Calling it more than once is safe.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}
	if e.cleanup != nil {
		c := e.cleanup
		e.cleanup = nil
		c()
	}
	e.clearSources()
}

func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}
	e.pending.Store(false)

	if e.cleanup != nil {
		c := e.cleanup
		e.cleanup = nil
		c()
	}
	e.clearSources()

	oldListener := setCurrentListener(e)
	oldOwner := setCurrentOwner(e.owner)
	cleanup := e.fn()
	setCurrentOwner(oldOwner)
	setCurrentListener(oldListener)

	// Disposed while running: nothing will call the cleanup later.
	if e.disposed.Load() {
		if cleanup != nil {
			cleanup()
		}
		e.clearSources()
		return
	}
	e.cleanup = cleanup
}

func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

func (e *Effect) clearSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(e)
	}
}

// CreateEffect creates an effect under the current owner and runs it
// immediately.
//
//	reactive.CreateEffect(func() reactive.Cleanup {
//	    if !open.Get() {
//	        return nil
//	    }
//	    stop := startWatching()
//	    return stop
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	owner := getCurrentOwner()
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}
	if owner != nil {
		owner.registerEffect(e)
	}
	e.run()
	return e
}

// OnCleanup registers fn with the current owner. Without an owner it is a
// no-op.
func OnCleanup(fn func()) {
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
