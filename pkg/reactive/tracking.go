package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine.
type trackingContext struct {
	// currentOwner owns effects created while it is set.
	currentOwner *Owner

	// currentListener is subscribed to every signal read while it is set.
	currentListener Listener

	// batchDepth counts nested Batch calls.
	batchDepth int

	// pendingUpdates are listeners to notify when the outermost batch ends.
	pendingUpdates []Listener
}

var trackingContexts sync.Map

// goroutineID parses the current goroutine id from the runtime stack header
// ("goroutine <id> [running]:").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getTrackingContext() *trackingContext {
	gid := goroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

func getCurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

// WithOwner runs fn with owner as the current owner. Effects created inside
// fn are registered with owner and disposed with it.
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// Untracked runs fn without subscribing the current listener to anything
// read inside it.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// ReleaseGoroutine drops the tracking context of the calling goroutine.
// Host loops call it before exiting.
func ReleaseGoroutine() {
	trackingContexts.Delete(goroutineID())
}
