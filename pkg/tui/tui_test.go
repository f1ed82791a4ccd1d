package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vango-dev/popover/pkg/floating"
	"github.com/vango-dev/popover/pkg/popover"
	"github.com/vango-dev/popover/pkg/popovertest"
)

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	frame = frameMsg(time.Time{})
	size  = tea.WindowSizeMsg{Width: 80, Height: 24}
)

func newModel(t *testing.T, cfg Config) Model {
	t.Helper()
	if cfg.Triggers == nil {
		cfg.Triggers = []string{"Profile", "Settings"}
	}
	m := New(cfg)
	t.Cleanup(m.Close)
	return press(t, m, size)
}

func TestActivateOpensAndPositions(t *testing.T) {
	m := newModel(t, Config{})

	m = press(t, m, enter)
	if !m.Popover().Open.Peek() {
		t.Fatal("popover should be open after enter")
	}
	if m.content.Attrs().Has("hidden") {
		t.Error("content should be visible")
	}
	if _, ok := m.content.Position(); ok {
		t.Error("content positioned before a frame")
	}

	m = press(t, m, frame)
	pos, ok := m.content.Position()
	if !ok {
		t.Fatal("content not positioned after frame")
	}
	anchor := m.triggers[0].Rect()
	if pos.Side != floating.SideBottom {
		t.Errorf("side = %q, want bottom", pos.Side)
	}
	if want := anchor.Bottom() + 1; pos.Y != want {
		t.Errorf("Y = %v, want %v", pos.Y, want)
	}

	view := m.View()
	if !strings.Contains(view, "Anchored to Profile") {
		t.Errorf("view missing content body:\n%s", view)
	}
	if !strings.Contains(view, "▲") {
		t.Errorf("view missing arrow:\n%s", view)
	}
}

func TestEscClosesAndRestoresFocus(t *testing.T) {
	m := newModel(t, Config{})

	m = press(t, m, tab, enter, frame)
	if got := m.Popover().Open.PeekActiveTrigger(); got == nil || got.ID() != "trigger-1" {
		t.Fatalf("active trigger = %v, want trigger-1", got)
	}

	// Focus the close button, then close with esc.
	m = press(t, m, tab)
	if m.doc.ActiveElement() != m.closeBtn {
		t.Fatalf("focus = %v, want close button", m.doc.ActiveElement())
	}
	m = press(t, m, esc)

	if m.Popover().Open.Peek() {
		t.Fatal("popover should be closed after esc")
	}
	if got := m.doc.ActiveElement(); got != m.triggers[1] {
		t.Errorf("focus = %v, want trigger-1", got)
	}
	if strings.Contains(m.View(), "Anchored to") {
		t.Error("closed content still rendered")
	}
}

func TestCloseButtonCloses(t *testing.T) {
	m := newModel(t, Config{})

	m = press(t, m, enter, frame, tab, tab, enter)
	if m.Popover().Open.Peek() {
		t.Fatal("close button should close the popover")
	}
	if m.Popover().Content.HasHandle() {
		t.Error("positioning handle still live after close")
	}
}

func TestFocusRingSkipsHiddenClose(t *testing.T) {
	m := newModel(t, Config{})

	m = press(t, m, tab, tab)
	if got := m.doc.ActiveElement(); got != m.triggers[0] {
		t.Errorf("focus = %v, want wrap to trigger-0", got)
	}
}

func TestFlipsAboveNearBottomEdge(t *testing.T) {
	m := newModel(t, Config{Open: true})
	m = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 10}, frame)

	pos, ok := m.content.Position()
	if !ok {
		t.Fatal("initially open popover not positioned")
	}
	if pos.Side != floating.SideTop {
		t.Errorf("side = %q, want top", pos.Side)
	}
}

func TestObserverAndQuit(t *testing.T) {
	obs := &popovertest.Observer{}
	m := newModel(t, Config{Observer: obs, Positioning: popover.DefaultPositioning()})

	m = press(t, m, enter, frame)
	if obs.Count("open:true") != 1 {
		t.Errorf("open notifications = %d, want 1", obs.Count("open:true"))
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not produce QuitMsg")
	}
}

func TestCanvasDraw(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		in   string
		want []string
	}{
		{"inside", 3, 0, "ab", []string{"   ab     ", "          "}},
		{"clipped right", 8, 1, "xyz", []string{"          ", "        xy"}},
		{"clipped left", -1, 0, "xyz", []string{"yz        ", "          "}},
		{"multiline", 0, 1, "a\nb", []string{"          ", "a         "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCanvas(10, 2)
			c.draw(tt.x, tt.y, tt.in)
			if got := c.String(); got != strings.Join(tt.want, "\n") {
				t.Errorf("canvas =\n%q\nwant\n%q", got, strings.Join(tt.want, "\n"))
			}
		})
	}
}
