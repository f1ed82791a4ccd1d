package live

import (
	"sync"
	"time"

	"github.com/vango-dev/popover/pkg/host"
)

// remoteFrames is a host.Host whose frames come from the browser. NextFrame
// asks the page for a requestAnimationFrame callback; the callback reports
// fresh geometry and the frame then runs on the loop. When the page does
// not answer within the timeout the frame runs anyway.
type remoteFrames struct {
	loop    *host.Loop
	send    func(ServerMessage)
	timeout time.Duration

	mu      sync.Mutex
	next    uint64
	pending map[uint64]*frameRequest
}

type frameRequest struct {
	fn    func()
	timer *time.Timer
}

var _ host.Host = (*remoteFrames)(nil)

func newRemoteFrames(loop *host.Loop, timeout time.Duration, send func(ServerMessage)) *remoteFrames {
	return &remoteFrames{
		loop:    loop,
		send:    send,
		timeout: timeout,
		pending: make(map[uint64]*frameRequest),
	}
}

func (f *remoteFrames) NextFrame(fn func()) func() {
	f.mu.Lock()
	f.next++
	id := f.next
	req := &frameRequest{fn: fn}
	f.pending[id] = req
	req.timer = time.AfterFunc(f.timeout, func() {
		_ = f.loop.Post(func() { f.complete(id) })
	})
	f.mu.Unlock()

	f.send(ServerMessage{Type: MsgRAF, Frame: id})
	return func() { f.take(id) }
}

func (f *remoteFrames) Defer(fn func()) func() {
	return f.loop.Defer(fn)
}

func (f *remoteFrames) Interactive() bool {
	return true
}

// complete runs frame id if it is still pending. It must be called on the
// loop goroutine.
func (f *remoteFrames) complete(id uint64) bool {
	req := f.take(id)
	if req == nil {
		return false
	}
	req.fn()
	return true
}

func (f *remoteFrames) take(id uint64) *frameRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.pending[id]
	if !ok {
		return nil
	}
	delete(f.pending, id)
	req.timer.Stop()
	return req
}

// cancelAll drops every pending frame.
func (f *remoteFrames) cancelAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, req := range f.pending {
		req.timer.Stop()
		delete(f.pending, id)
	}
}

func (f *remoteFrames) pendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
