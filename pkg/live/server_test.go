package live

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/popover/pkg/dom"
	"github.com/vango-dev/popover/pkg/floating"
)

func newTestServer(t *testing.T, mutate func(*Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Registry = prometheus.NewRegistry()
	cfg.FrameTimeout = time.Second
	if mutate != nil {
		mutate(cfg)
	}
	srv := New(cfg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitFor reads messages until match returns true.
func waitFor(t *testing.T, conn *websocket.Conn, what string, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		var msg ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", what, err)
		}
		if match(msg) {
			return msg
		}
	}
}

func sendJSON(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestPage(t *testing.T) {
	_, ts := newTestServer(t, func(c *Config) {
		c.Triggers = []string{"Alpha", "<Beta>"}
	})

	status, body := get(t, ts.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	for _, want := range []string{`data-node="trigger-0"`, "Alpha", "&lt;Beta&gt;", `data-node="content"`, `src="/client.js"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	status, body = get(t, ts.URL+"/client.js")
	if status != http.StatusOK || !strings.Contains(body, "requestAnimationFrame") {
		t.Errorf("unexpected client script response %d", status)
	}

	if status, _ := get(t, ts.URL+"/healthz"); status != http.StatusNoContent {
		t.Errorf("healthz status = %d", status)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv, ts := newTestServer(t, func(c *Config) {
		c.Positioning.Placement = floating.Bottom
	})
	conn := dial(t, ts)

	// Mount mirrors the closed state.
	waitFor(t, conn, "closed content attrs", func(m ServerMessage) bool {
		return m.Type == MsgAttrs && m.Target == "content" && m.Set["data-state"] == "closed"
	})

	sendJSON(t, conn, ClientMessage{Type: MsgClick, Target: "trigger-1"})

	waitFor(t, conn, "expanded trigger", func(m ServerMessage) bool {
		return m.Type == MsgAttrs && m.Target == "trigger-1" && m.Set["aria-expanded"] == "true"
	})
	raf := waitFor(t, conn, "raf", func(m ServerMessage) bool { return m.Type == MsgRAF })

	sendJSON(t, conn, ClientMessage{
		Type:  MsgFrame,
		Frame: raf.Frame,
		Rects: map[string]dom.Rect{
			"trigger-1": {X: 100, Y: 50, Width: 80, Height: 30},
			"content":   {X: 0, Y: 0, Width: 200, Height: 100},
		},
		Viewport: &dom.Rect{Width: 1024, Height: 768},
	})

	place := waitFor(t, conn, "place", func(m ServerMessage) bool { return m.Type == MsgPlace })
	if place.Target != "content" || place.Position == nil {
		t.Fatalf("unexpected place message %+v", place)
	}
	if place.Position.Side != "bottom" || place.Position.Y != 50+30+floating.DefaultGutter {
		t.Errorf("unexpected position %+v", place.Position)
	}

	sendJSON(t, conn, ClientMessage{Type: MsgKeyDown, Target: "content", Key: "Escape"})

	waitFor(t, conn, "hidden content", func(m ServerMessage) bool {
		return m.Type == MsgAttrs && m.Target == "content" && m.Set["data-state"] == "closed"
	})
	focus := waitFor(t, conn, "focus", func(m ServerMessage) bool { return m.Type == MsgFocus })
	if focus.Target != "trigger-1" {
		t.Errorf("focus should return to trigger-1, got %q", focus.Target)
	}

	if n := srv.SessionCount(); n != 1 {
		t.Errorf("SessionCount() = %d, want 1", n)
	}
	conn.Close()

	deadline := time.Now().Add(3 * time.Second)
	for srv.SessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session was not cleaned up")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFrameTimeoutFallback(t *testing.T) {
	_, ts := newTestServer(t, func(c *Config) {
		c.FrameTimeout = 20 * time.Millisecond
	})
	conn := dial(t, ts)

	sendJSON(t, conn, ClientMessage{
		Type: MsgLayout,
		Rects: map[string]dom.Rect{
			"trigger-0": {X: 10, Y: 10, Width: 50, Height: 20},
			"content":   {Width: 100, Height: 40},
		},
		Viewport: &dom.Rect{Width: 800, Height: 600},
	})
	sendJSON(t, conn, ClientMessage{Type: MsgClick, Target: "trigger-0"})

	// No frame answer is sent; the timeout positions with known geometry.
	place := waitFor(t, conn, "place", func(m ServerMessage) bool { return m.Type == MsgPlace })
	if place.Position == nil || place.Position.Y != 10+20+floating.DefaultGutter {
		t.Errorf("unexpected position %+v", place.Position)
	}
}

// lockedBuffer collects log output written from session goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestInvalidMessagesKeepSessionAlive(t *testing.T) {
	logs := &lockedBuffer{}
	_, ts := newTestServer(t, func(c *Config) {
		c.Logger = slog.New(slog.NewJSONHandler(logs, nil))
	})
	conn := dial(t, ts)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	sendJSON(t, conn, ClientMessage{Type: MsgClick, Target: "missing"})
	sendJSON(t, conn, ClientMessage{Type: MsgClick, Target: "trigger-2"})

	waitFor(t, conn, "open after bad input", func(m ServerMessage) bool {
		return m.Type == MsgAttrs && m.Target == "trigger-2" && m.Set["data-state"] == "open"
	})

	// The click on trigger-2 was handled after both bad messages.
	out := logs.String()
	for _, code := range []string{`"code":"E160"`, `"code":"E162"`} {
		if !strings.Contains(out, code) {
			t.Errorf("missing protocol log with %s in:\n%s", code, out)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts)

	sendJSON(t, conn, ClientMessage{Type: MsgClick, Target: "trigger-0"})
	waitFor(t, conn, "open", func(m ServerMessage) bool {
		return m.Type == MsgAttrs && m.Target == "content" && m.Set["data-state"] == "open"
	})

	// Transitions are counted after the effects that sent the attrs.
	wants := []string{
		"popover_live_sessions 1",
		`popover_transitions_total{to="open"} 1`,
	}
	deadline := time.Now().Add(3 * time.Second)
	for {
		status, body := get(t, ts.URL+"/metrics")
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		missing := ""
		for _, want := range wants {
			if !strings.Contains(body, want) {
				missing = want
				break
			}
		}
		if missing == "" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("metrics missing %q:\n%s", missing, body)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServerMessageJSON(t *testing.T) {
	data, err := json.Marshal(ServerMessage{Type: MsgRAF, Frame: 3})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"raf","frame":3}` {
		t.Errorf("unexpected encoding %s", data)
	}
}

func TestSessionTeardownWhenMountFails(t *testing.T) {
	srv := New(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := make(chan error, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := srv.upgrader.Upgrade(w, r, nil)
		if err != nil {
			result <- err
			return
		}
		result <- newSession(srv, conn).run(ctx)
	}))
	t.Cleanup(ts.Close)

	conn := dial(t, ts)

	select {
	case err := <-result:
		if err == nil {
			t.Fatal("run with a cancelled context should fail to mount")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after mount failed")
	}

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := conn.ReadMessage()
	if err == nil {
		t.Fatal("expected the server to close the connection")
	}
	if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
		t.Fatalf("connection left open: %v", err)
	}
}
