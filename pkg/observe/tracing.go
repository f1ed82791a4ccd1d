package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/popover/pkg/popover"
)

const defaultTracerName = "popover"

// TracingOption configures the tracing observer.
type TracingOption func(*tracingConfig)

type tracingConfig struct {
	tracerName string
	provider   trace.TracerProvider
	ctx        context.Context
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *tracingConfig) {
		c.tracerName = name
	}
}

// WithTracerProvider sets the provider. The default is the global one.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *tracingConfig) {
		c.provider = tp
	}
}

// WithParentContext sets the context episode spans are started from, so
// they nest under a connection or request span.
func WithParentContext(ctx context.Context) TracingOption {
	return func(c *tracingConfig) {
		c.ctx = ctx
	}
}

// Tracing records one span per open episode. The span starts when a
// popover opens and ends when it closes. Positioning and focus events are
// attached as span events.
type Tracing struct {
	tracer trace.Tracer
	ctx    context.Context

	mu    sync.Mutex
	spans map[string]trace.Span
}

var _ popover.Observer = (*Tracing)(nil)

// NewTracing creates a tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	config := tracingConfig{
		tracerName: defaultTracerName,
		ctx:        context.Background(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.provider == nil {
		config.provider = otel.GetTracerProvider()
	}

	return &Tracing{
		tracer: config.provider.Tracer(config.tracerName),
		ctx:    config.ctx,
		spans:  make(map[string]trace.Span),
	}
}

func (t *Tracing) OpenChanged(id string, open bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if open {
		if _, ok := t.spans[id]; ok {
			return
		}
		_, span := t.tracer.Start(t.ctx, "popover.open",
			trace.WithAttributes(attribute.String("popover.id", id)),
		)
		t.spans[id] = span
		return
	}

	if span, ok := t.spans[id]; ok {
		delete(t.spans, id)
		span.End()
	}
}

func (t *Tracing) PositionRequested(id string) {
	t.event(id, "position.requested")
}

func (t *Tracing) PositionFailed(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if span, ok := t.spans[id]; ok {
		span.RecordError(err)
		span.SetStatus(codes.Error, "positioning unavailable")
	}
}

func (t *Tracing) HandleInstalled(id string) {
	t.event(id, "handle.installed")
}

func (t *Tracing) HandleDisposed(id string) {
	t.event(id, "handle.disposed")
}

// FocusRestored happens after the episode span has ended, so it gets a
// short span of its own.
func (t *Tracing) FocusRestored(id string) {
	_, span := t.tracer.Start(t.ctx, "popover.focus_restored",
		trace.WithAttributes(attribute.String("popover.id", id)),
	)
	span.End()
}

// End ends every open episode span. Hosts call it when a session ends.
func (t *Tracing) End() {
	t.mu.Lock()
	spans := t.spans
	t.spans = make(map[string]trace.Span)
	t.mu.Unlock()

	for _, span := range spans {
		span.SetAttributes(attribute.Bool("popover.abandoned", true))
		span.End()
	}
}

func (t *Tracing) event(id, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if span, ok := t.spans[id]; ok {
		span.AddEvent(name)
	}
}
