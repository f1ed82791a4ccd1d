package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	perrors "github.com/vango-dev/popover/internal/errors"
	"github.com/vango-dev/popover/pkg/dom"
	"github.com/vango-dev/popover/pkg/floating"
	"github.com/vango-dev/popover/pkg/host"
	"github.com/vango-dev/popover/pkg/observe"
	"github.com/vango-dev/popover/pkg/popover"
)

// outboxSize bounds messages waiting for the writer.
const outboxSize = 256

// errOutboxFull ends a session whose browser stopped reading.
var errOutboxFull = errors.New("live: outbox full")

// Session is one browser connection and the popover it drives. Everything
// except the socket reader and writer runs on the session loop.
type Session struct {
	ID string

	server *Server
	conn   *websocket.Conn
	logger *slog.Logger

	loop    *host.Loop
	frames  *remoteFrames
	doc     *dom.Document
	popover *popover.Popover
	tracing *observe.Tracing

	bindings []*popover.Binding

	outbox chan ServerMessage
	failed chan error

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

func newSession(s *Server, conn *websocket.Conn) *Session {
	id := uuid.NewString()
	logger := s.logger.With("session_id", id)

	sess := &Session{
		ID:     id,
		server: s,
		conn:   conn,
		logger: logger,
		loop:   host.NewLoop(host.WithInteractive(true), host.WithLoopLogger(logger)),
		doc:    dom.NewDocument(),
		outbox: make(chan ServerMessage, outboxSize),
		failed: make(chan error, 1),
	}
	sess.frames = newRemoteFrames(sess.loop, s.config.FrameTimeout, sess.send)
	return sess
}

// run drives the session until the connection or ctx ends.
func (sess *Session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess.mu.Lock()
	sess.cancel = cancel
	closed := sess.closed
	sess.mu.Unlock()
	if closed {
		sess.conn.Close()
		return context.Canceled
	}

	ctx, span := sess.server.tracer.Start(ctx, "live.session",
		trace.WithAttributes(attribute.String("popover.session_id", sess.ID)),
	)
	defer span.End()
	sess.logger.Info("session started")

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = sess.loop.Run(ctx)
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		sess.writeLoop(ctx)
	}()

	defer func() {
		cancel()
		<-loopDone
		<-writerDone
		sess.conn.Close()
	}()

	if err := sess.loop.Call(ctx, func() { sess.mount(ctx) }); err != nil {
		return err
	}

	err := sess.readLoop(ctx)

	unmountCtx, unmountCancel := context.WithTimeout(context.Background(), time.Second)
	_ = sess.loop.Call(unmountCtx, sess.unmount)
	unmountCancel()
	return err
}

// Close ends the session.
func (sess *Session) Close() {
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return
	}
	sess.closed = true
	cancel := sess.cancel
	sess.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	_ = sess.conn.SetReadDeadline(time.Now())
}

// mount builds the document and the popover. It runs on the loop.
func (sess *Session) mount(ctx context.Context) {
	cfg := sess.server.config
	sess.doc.SetMutationSink(sess.mirror)

	var observers []popover.Observer
	if sess.server.metrics != nil {
		observers = append(observers, sess.server.metrics)
	}
	sess.tracing = observe.NewTracing(
		observe.WithTracerProvider(sess.server.provider),
		observe.WithParentContext(ctx),
	)
	observers = append(observers, sess.tracing)

	sess.popover = popover.New(
		popover.WithPositioning(cfg.Positioning),
		popover.WithOpen(cfg.Open),
		popover.WithHost(sess.frames),
		popover.WithPositioner(floating.NewEngine(sess.doc, floating.WithEngineLogger(sess.logger))),
		popover.WithLogger(sess.logger),
		popover.WithObserver(observe.Multi(observers...)),
	)

	p := sess.popover
	for i := range cfg.Triggers {
		sess.bindings = append(sess.bindings, p.Trigger.Bind(sess.doc.Create(triggerNode(i))))
	}
	sess.bindings = append(sess.bindings,
		p.Content.Bind(sess.doc.Create(contentNode)),
		p.Arrow.Bind(sess.doc.Create(arrowNode)),
		p.Close.Bind(sess.doc.Create(closeNode)),
	)
}

// unmount releases the popover. It runs on the loop.
func (sess *Session) unmount() {
	for i := len(sess.bindings) - 1; i >= 0; i-- {
		sess.bindings[i].Release()
	}
	if sess.popover != nil {
		sess.popover.Dispose()
	}
	sess.frames.cancelAll()
	if sess.tracing != nil {
		sess.tracing.End()
	}
	sess.doc.SetMutationSink(nil)
}

func (sess *Session) readLoop(ctx context.Context) error {
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			select {
			case ferr := <-sess.failed:
				return ferr
			default:
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		msg, err := DecodeClientMessage(data)
		if err != nil {
			sess.protocolError(perrors.FromError(err, "E160"))
			continue
		}
		if err := sess.loop.Post(func() { sess.handle(msg) }); err != nil {
			return err
		}
	}
}

func (sess *Session) writeLoop(ctx context.Context) {
	timeout := sess.server.config.WriteTimeout
	for {
		select {
		case <-ctx.Done():
			_ = sess.conn.SetWriteDeadline(time.Now().Add(timeout))
			_ = sess.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-sess.outbox:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(timeout))
			if err := sess.conn.WriteJSON(msg); err != nil {
				sess.fail(fmt.Errorf("live: write %s: %w", msg.Type, err))
				return
			}
		}
	}
}

// send queues msg for the writer. A session whose outbox is full is
// closed rather than blocking the loop.
func (sess *Session) send(msg ServerMessage) {
	select {
	case sess.outbox <- msg:
	default:
		sess.fail(errOutboxFull)
	}
}

func (sess *Session) fail(err error) {
	select {
	case sess.failed <- err:
	default:
	}
	sess.Close()
}

// mirror forwards document mutations to the browser.
func (sess *Session) mirror(m dom.Mutation) {
	if msg, ok := mutationMessage(m); ok {
		sess.send(msg)
	}
}

// handle applies one client message. It runs on the loop.
func (sess *Session) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgClick:
		if !sess.doc.Click(msg.Target) {
			sess.unknownElement(msg)
		}

	case MsgKeyDown:
		ev := dom.Event{Type: dom.EventKeyDown, Key: msg.Key}
		if node, ok := sess.doc.Node(msg.Target); ok {
			ev.Target = node
		}
		if !sess.doc.Dispatch(msg.Target, ev) {
			sess.unknownElement(msg)
			return
		}
		if msg.Key == "Escape" {
			sess.popover.Close.Handler()(ev)
		}

	case MsgFrame:
		sess.applyGeometry(msg)
		if !sess.frames.complete(msg.Frame) {
			sess.logger.Debug("late frame ignored", "frame", msg.Frame)
		}

	case MsgLayout:
		sess.applyGeometry(msg)
		sess.doc.NotifyLayout()
	}
}

func (sess *Session) applyGeometry(msg ClientMessage) {
	for id, r := range msg.Rects {
		if node, ok := sess.doc.Node(id); ok {
			node.SetRect(r)
		}
	}
	if msg.Viewport != nil {
		sess.doc.SetViewport(*msg.Viewport)
	}
}

func (sess *Session) unknownElement(msg ClientMessage) {
	sess.protocolError(perrors.New("E162").WithDetail(fmt.Sprintf("No element %q in this session.", msg.Target)))
}

func (sess *Session) protocolError(err *perrors.PopoverError) {
	sess.logger.Warn("protocol error", "code", err.Code, "error", err.FormatCompact())
}
