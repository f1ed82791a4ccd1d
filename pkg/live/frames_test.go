package live

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/popover/pkg/host"
)

func startLoop(t *testing.T) *host.Loop {
	t.Helper()
	loop := host.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return loop
}

type sentMessages struct {
	mu   sync.Mutex
	msgs []ServerMessage
}

func (s *sentMessages) send(msg ServerMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *sentMessages) last() ServerMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msgs[len(s.msgs)-1]
}

func TestRemoteFrameCompletedByClient(t *testing.T) {
	loop := startLoop(t)
	sent := &sentMessages{}
	frames := newRemoteFrames(loop, time.Hour, sent.send)

	ran := make(chan struct{})
	frames.NextFrame(func() { close(ran) })

	msg := sent.last()
	if msg.Type != MsgRAF || msg.Frame != 1 {
		t.Fatalf("expected raf request for frame 1, got %+v", msg)
	}

	var completed bool
	if err := loop.Call(context.Background(), func() { completed = frames.complete(msg.Frame) }); err != nil {
		t.Fatal(err)
	}
	if !completed {
		t.Fatal("frame should complete")
	}
	select {
	case <-ran:
	default:
		t.Fatal("frame callback did not run")
	}

	if frames.complete(msg.Frame) {
		t.Error("a frame must only run once")
	}
}

func TestRemoteFrameTimeout(t *testing.T) {
	loop := startLoop(t)
	frames := newRemoteFrames(loop, 10*time.Millisecond, (&sentMessages{}).send)

	ran := make(chan struct{})
	frames.NextFrame(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("frame should run after the timeout")
	}
	if frames.pendingCount() != 0 {
		t.Error("frame should no longer be pending")
	}
}

func TestRemoteFrameCancel(t *testing.T) {
	loop := startLoop(t)
	frames := newRemoteFrames(loop, 10*time.Millisecond, (&sentMessages{}).send)

	ran := make(chan struct{}, 1)
	cancel := frames.NextFrame(func() { ran <- struct{}{} })
	cancel()

	time.Sleep(50 * time.Millisecond)
	select {
	case <-ran:
		t.Fatal("canceled frame must not run")
	default:
	}
	if frames.complete(1) {
		t.Error("canceled frame must not complete")
	}
}
