package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/popover/pkg/reactive"
)

// ErrLoopStopped is returned by Post after the loop has exited.
var ErrLoopStopped = errors.New("host: loop stopped")

// DefaultFrameInterval approximates one display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop is a Host that serializes every callback onto a single goroutine.
// Reactive state driven from a Loop is never touched concurrently.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool

	frameInterval time.Duration
	interactive   bool
	logger        *slog.Logger
}

var _ Host = (*Loop)(nil)

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrameInterval sets the delay used by NextFrame.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// WithInteractive marks the loop as driving a real user surface.
func WithInteractive(interactive bool) LoopOption {
	return func(l *Loop) {
		l.interactive = interactive
	}
}

// WithLoopLogger sets the logger used for recovered panics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake:          make(chan struct{}, 1),
		frameInterval: DefaultFrameInterval,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues fn to run on the loop goroutine.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrLoopStopped
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Call runs fn on the loop and waits for it to return.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.Post(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextFrame runs fn on the loop after one frame interval.
func (l *Loop) NextFrame(fn func()) func() {
	t := newTask(fn)
	timer := time.AfterFunc(l.frameInterval, func() {
		_ = l.Post(func() { t.run() })
	})
	return func() {
		t.cancel()
		timer.Stop()
	}
}

// Defer queues fn behind everything already posted, so it runs after the
// current callback returns.
func (l *Loop) Defer(fn func()) func() {
	t := newTask(fn)
	_ = l.Post(func() { t.run() })
	return t.cancel
}

// Interactive reports whether the loop drives a real user surface.
func (l *Loop) Interactive() bool {
	return l.interactive
}

// Run processes callbacks until ctx is done. Queued callbacks that have not
// started are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer reactive.ReleaseGoroutine()
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
	}()

	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.runSafe(fn)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) runSafe(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}
