package observe

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/popover/pkg/dom"
	"github.com/vango-dev/popover/pkg/host"
	"github.com/vango-dev/popover/pkg/popover"
	"github.com/vango-dev/popover/pkg/popovertest"
)

type harness struct {
	doc  *dom.Document
	host *host.Manual
	pos  *popovertest.Positioner
	p    *popover.Popover
}

func newHarness(t *testing.T, obs popover.Observer) *harness {
	t.Helper()
	h := &harness{
		doc:  dom.NewDocument(),
		host: host.NewManual(true),
		pos:  popovertest.NewPositioner(),
	}
	h.p = popover.New(
		popover.WithHost(h.host),
		popover.WithPositioner(h.pos),
		popover.WithObserver(obs),
		popover.WithIDGenerator(popover.NewSequenceGenerator("pc")),
	)
	t.Cleanup(h.p.Dispose)

	h.p.Trigger.Bind(h.doc.Create("trigger"))
	h.p.Content.Bind(h.doc.Create("content"))
	return h
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))
	h := newHarness(t, m)

	h.doc.Click("trigger")
	h.host.Frame()

	if got := testutil.ToFloat64(m.transitions.WithLabelValues("open")); got != 1 {
		t.Errorf("expected 1 open transition, got %v", got)
	}
	if got := testutil.ToFloat64(m.positionRequests); got != 1 {
		t.Errorf("expected 1 position request, got %v", got)
	}
	if got := testutil.ToFloat64(m.liveHandles); got != 1 {
		t.Errorf("expected 1 live handle, got %v", got)
	}

	h.doc.Click("trigger")
	h.host.Tick()

	if got := testutil.ToFloat64(m.transitions.WithLabelValues("closed")); got != 1 {
		t.Errorf("expected 1 close transition, got %v", got)
	}
	if got := testutil.ToFloat64(m.liveHandles); got != 0 {
		t.Errorf("expected no live handles, got %v", got)
	}
	if got := testutil.ToFloat64(m.focusRestores); got != 1 {
		t.Errorf("expected 1 focus restore, got %v", got)
	}

	// Two transition series plus four scalar metrics.
	if n := testutil.CollectAndCount(reg); n != 6 {
		t.Errorf("expected 6 collected metrics, got %d", n)
	}
}

func TestMetricsCountsFailures(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	h := newHarness(t, m)
	h.pos.FailWith(errors.New("boom"))

	h.doc.Click("trigger")
	h.host.Frame()

	if got := testutil.ToFloat64(m.positionFailures); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.liveHandles); got != 0 {
		t.Errorf("expected no live handles, got %v", got)
	}
}

func TestTracingEpisodeSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tr := NewTracing(WithTracerProvider(tp))
	h := newHarness(t, tr)

	h.doc.Click("trigger")
	h.host.Frame()
	if n := len(sr.Ended()); n != 0 {
		t.Fatalf("episode span must stay open while the popover is open, %d ended", n)
	}

	h.doc.Click("trigger")
	h.host.Tick()

	ended := sr.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected episode and focus spans, got %d", len(ended))
	}
	episode := ended[0]
	if episode.Name() != "popover.open" {
		t.Errorf("expected popover.open, got %q", episode.Name())
	}

	var names []string
	for _, ev := range episode.Events() {
		names = append(names, ev.Name)
	}
	want := []string{"position.requested", "handle.installed", "handle.disposed"}
	if len(names) != len(want) {
		t.Fatalf("expected events %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], names[i])
		}
	}

	if ended[1].Name() != "popover.focus_restored" {
		t.Errorf("expected focus span, got %q", ended[1].Name())
	}
}

func TestTracingRecordsFailure(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tr := NewTracing(WithTracerProvider(tp))
	h := newHarness(t, tr)
	h.pos.Decline(true)

	h.doc.Click("trigger")
	h.host.Frame()
	tr.End()

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected one span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", ended[0].Status())
	}
}

func TestMultiSkipsNil(t *testing.T) {
	a := &popovertest.Observer{}
	b := &popovertest.Observer{}
	obs := Multi(a, nil, b)

	obs.OpenChanged("x", true)
	obs.PositionFailed("x", errors.New("nope"))

	for _, rec := range []*popovertest.Observer{a, b} {
		if got := rec.Events(); len(got) != 2 || got[0] != "open:true" || got[1] != "position-failed" {
			t.Errorf("unexpected events %v", got)
		}
	}
}
