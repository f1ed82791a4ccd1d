// Package tui hosts a popover in the terminal. Triggers are a row of
// buttons, the content is an overlay box, and terminal cells stand in for
// pixels when positioning.
package tui

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vango-dev/popover/pkg/dom"
	"github.com/vango-dev/popover/pkg/floating"
	"github.com/vango-dev/popover/pkg/host"
	"github.com/vango-dev/popover/pkg/popover"
)

const (
	contentNode = "content"
	arrowNode   = "arrow"
	closeNode   = "close"

	buttonGap = 2
	marginX   = 2
)

// Config configures the terminal host.
type Config struct {
	Triggers    []string
	Positioning popover.Positioning
	Open        bool
	FPS         int
	Logger      *slog.Logger
	Observer    popover.Observer
}

// cellPositioning scales pixel spacing down to terminal cells.
func cellPositioning(p popover.Positioning) popover.Positioning {
	p.Gutter = 1
	p.OverflowPadding = 0
	p.ArrowSize = 1
	return p
}

type frameMsg time.Time

// Model is the bubbletea model for the popover demo.
type Model struct {
	keys KeyMap
	help help.Model
	fps  int

	host     *host.Manual
	doc      *dom.Document
	pop      *popover.Popover
	bindings []*popover.Binding

	labels   []string
	triggers []*dom.Node
	content  *dom.Node
	closeBtn *dom.Node

	width, height int
}

// New creates the model and binds its popover.
func New(cfg Config) Model {
	if len(cfg.Triggers) == 0 {
		cfg.Triggers = []string{"Popover"}
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	if !cfg.Positioning.Placement.Valid() {
		cfg.Positioning = popover.DefaultPositioning()
	}

	m := Model{
		keys:   DefaultKeyMap(),
		help:   help.New(),
		fps:    cfg.FPS,
		host:   host.NewManual(true),
		doc:    dom.NewDocument(),
		labels: cfg.Triggers,
	}

	opts := []popover.Option{
		popover.WithPositioning(cellPositioning(cfg.Positioning)),
		popover.WithOpen(cfg.Open),
		popover.WithHost(m.host),
		popover.WithPositioner(floating.NewEngine(m.doc, floating.WithEngineLogger(cfg.Logger))),
		popover.WithLogger(cfg.Logger),
		popover.WithObserver(cfg.Observer),
	}
	m.pop = popover.New(opts...)

	for i := range cfg.Triggers {
		n := m.doc.Create(triggerID(i))
		m.triggers = append(m.triggers, n)
		m.bindings = append(m.bindings, m.pop.Trigger.Bind(n))
	}
	m.content = m.doc.Create(contentNode)
	m.closeBtn = m.doc.Create(closeNode)
	m.bindings = append(m.bindings,
		m.pop.Content.Bind(m.content),
		m.pop.Arrow.Bind(m.doc.Create(arrowNode)),
		m.pop.Close.Bind(m.closeBtn),
	)

	m.triggers[0].Focus()
	return m
}

func triggerID(i int) string {
	return "trigger-" + strconv.Itoa(i)
}

// Popover returns the hosted popover.
func (m Model) Popover() *popover.Popover {
	return m.pop
}

// Close releases the popover bindings.
func (m Model) Close() {
	for i := len(m.bindings) - 1; i >= 0; i-- {
		m.bindings[i].Release()
	}
	m.pop.Dispose()
}

// Init starts the frame clock.
func (m Model) Init() tea.Cmd {
	return m.nextFrame()
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages. Deferred popover work runs once the message has
// been handled.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.relayout()

	case frameMsg:
		m.relayout()
		m.host.Frame()
		cmd = m.nextFrame()

	case tea.KeyMsg:
		if m.handleKey(msg) {
			cmd = tea.Quit
		}
		m.relayout()
	}

	m.host.Tick()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (quit bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return true
	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.Activate):
		if active := m.doc.ActiveElement(); active != nil {
			m.doc.Click(active.ID())
		}
	case key.Matches(msg, m.keys.Close):
		m.pop.Close.Handler()(dom.Event{Type: dom.EventKeyDown, Key: "Escape"})
	}
	return false
}

// focusables returns the focus ring: every trigger, then the close button
// while the content is visible.
func (m Model) focusables() []*dom.Node {
	ring := append([]*dom.Node(nil), m.triggers...)
	if !m.content.Attrs().Has("hidden") {
		ring = append(ring, m.closeBtn)
	}
	return ring
}

func (m Model) moveFocus(delta int) {
	ring := m.focusables()
	idx := 0
	active := m.doc.ActiveElement()
	for i, n := range ring {
		if n == active {
			idx = (i + delta + len(ring)) % len(ring)
			break
		}
	}
	ring[idx].Focus()
}

// relayout measures every node in cells and reports the viewport.
func (m *Model) relayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	row := max(m.height/2-1, 0)
	x := marginX
	for i, n := range m.triggers {
		btn := buttonStyle.Render(m.labels[i])
		w, h := lipgloss.Width(btn), lipgloss.Height(btn)
		n.SetRect(dom.Rect{X: float64(x), Y: float64(row), Width: float64(w), Height: float64(h)})
		x += w + buttonGap
	}

	body := m.renderContent(false)
	m.content.SetRect(dom.Rect{
		Width:  float64(lipgloss.Width(body)),
		Height: float64(lipgloss.Height(body)),
	})

	m.doc.SetViewport(dom.Rect{Width: float64(m.width), Height: float64(m.height - 1)})
	m.doc.NotifyLayout()
}

func (m Model) renderButton(label string, n *dom.Node, focused bool) string {
	style := buttonStyle
	if state, _ := n.Attr("data-state"); state == "open" && n == m.pop.Open.PeekActiveTrigger() {
		style = openButtonStyle
	}
	if focused {
		style = focusedButtonStyle
	}
	return style.Render(label)
}

func (m Model) renderContent(closeFocused bool) string {
	closeBtn := closeStyle.Render("[ Close ]")
	if closeFocused {
		closeBtn = focusedCloseStyle.Render("[ Close ]")
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Popover"),
		"Anchored to "+m.anchorLabel(),
		"",
		closeBtn,
	)
	return contentStyle.Render(body)
}

func (m Model) anchorLabel() string {
	anchor := m.pop.Open.PeekActiveTrigger()
	for i, n := range m.triggers {
		if dom.Element(n) == anchor {
			return m.labels[i]
		}
	}
	return "nothing"
}

// View renders the triggers, the overlay and the help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	c := newCanvas(m.width, m.height-1)

	active := m.doc.ActiveElement()
	for i, n := range m.triggers {
		r := n.Rect()
		c.draw(int(r.X), int(r.Y), m.renderButton(m.labels[i], n, n == active))
	}

	if !m.content.Attrs().Has("hidden") {
		if pos, ok := m.content.Position(); ok {
			body := m.renderContent(m.closeBtn == active)
			c.draw(int(pos.X), int(pos.Y), body)
			m.drawArrow(c, pos, lipgloss.Width(body), lipgloss.Height(body))
		}
	}

	return c.String() + "\n" + m.help.View(m.keys)
}

func (m Model) drawArrow(c *canvas, pos dom.Position, w, h int) {
	x, y := int(pos.X), int(pos.Y)
	ax, ay := int(pos.ArrowX+0.5), int(pos.ArrowY+0.5)
	switch pos.Side {
	case floating.SideBottom:
		c.draw(x+ax, y-1, arrowStyle.Render("▲"))
	case floating.SideTop:
		c.draw(x+ax, y+h, arrowStyle.Render("▼"))
	case floating.SideRight:
		c.draw(x-1, y+ay, arrowStyle.Render("◀"))
	case floating.SideLeft:
		c.draw(x+w, y+ay, arrowStyle.Render("▶"))
	}
}

// Run runs the terminal host until the user quits or ctx is done.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	m := New(cfg)
	defer m.Close()

	opts = append(opts, tea.WithContext(ctx))
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
