package host

import (
	"context"
	"testing"
	"time"
)

func TestManualFrameAndTick(t *testing.T) {
	m := NewManual(true)

	var order []string
	m.NextFrame(func() {
		order = append(order, "frame")
		m.NextFrame(func() { order = append(order, "next-frame") })
	})
	m.Defer(func() { order = append(order, "tick") })

	if n := m.Tick(); n != 1 {
		t.Errorf("expected 1 tick callback, got %d", n)
	}
	if n := m.Frame(); n != 1 {
		t.Errorf("expected 1 frame callback, got %d", n)
	}
	if m.PendingFrames() != 1 {
		t.Errorf("callback queued during a frame should wait for the next one")
	}
	m.Frame()

	want := []string{"tick", "frame", "next-frame"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestManualCancel(t *testing.T) {
	m := NewManual(false)
	ran := false
	cancel := m.NextFrame(func() { ran = true })
	cancel()
	cancel()

	if m.PendingFrames() != 0 {
		t.Errorf("cancelled frame should not count as pending")
	}
	if n := m.Frame(); n != 0 || ran {
		t.Errorf("cancelled callback must not run")
	}
	if m.Interactive() {
		t.Error("expected non-interactive host")
	}
}

func TestManualFlush(t *testing.T) {
	m := NewManual(true)
	steps := 0
	var step func()
	step = func() {
		steps++
		if steps < 3 {
			m.Defer(step)
		}
	}
	m.Defer(step)
	m.Flush(10)

	if steps != 3 || m.Pending() != 0 {
		t.Errorf("expected 3 steps and an empty queue, got %d steps, %d pending", steps, m.Pending())
	}
}

func TestLoopSerializesCallbacks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLoop(WithFrameInterval(time.Millisecond), WithInteractive(true))
	go l.Run(ctx)

	var order []string
	err := l.Call(ctx, func() {
		order = append(order, "first")
		l.Defer(func() { order = append(order, "deferred") })
		order = append(order, "second")
	})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}

	done := make(chan struct{})
	l.NextFrame(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("frame callback did not run")
	}

	if err := l.Call(ctx, func() {}); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	want := []string{"first", "second", "deferred"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], order[i])
		}
	}
}

func TestLoopRecoversPanics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLoop()
	go l.Run(ctx)

	_ = l.Post(func() { panic("boom") })
	if err := l.Call(ctx, func() {}); err != nil {
		t.Fatalf("loop should survive a panicking callback: %v", err)
	}
}

func TestLoopPostAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop()

	stopped := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	if err := l.Post(func() {}); err != ErrLoopStopped {
		t.Errorf("expected ErrLoopStopped, got %v", err)
	}
}
