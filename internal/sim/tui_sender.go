// Live delivery dashboard rendered with bubbletea
package sim

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"e2sim/internal/config"
	"e2sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// deliveryMsg carries one delivery attempt into the TUI.
type deliveryMsg struct {
	destination string
	kind        string
	result      Result
	ts          time.Time
}

const feedCapacity = 200

// TUISender decorates another sender with a live terminal dashboard showing
// per-destination outcome counters and a scrolling delivery feed.
type TUISender struct {
	inner      Sender
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUISender starts a bubbletea program and returns the decorating sender.
func NewTUISender(cfg *config.SimulationConfig, inner Sender) *TUISender {
	w := &TUISender{inner: inner, done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		// Quitting the TUI stops the whole simulator.
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Send implements Sender.
func (w *TUISender) Send(ctx context.Context, destination string, ind telemetry.Indication) (Result, error) {
	res, err := w.inner.Send(ctx, destination, ind)
	if err == nil {
		w.program.Send(deliveryMsg{destination: destination, kind: ind.Kind(), result: res, ts: time.Now()})
	}
	return res, err
}

// Close stops the TUI without signalling the process.
func (w *TUISender) Close() {
	w.sendSignal.Store(false)
	if p, ok := w.program.(*tea.Program); ok {
		p.Quit()
	}
	<-w.done
}

type destCounters struct {
	delivered   int
	rejected    int
	unreachable int
	failed      int
}

type tuiModel struct {
	order    []string
	counters map[string]*destCounters
	tbl      table.Model
	feed     viewport.Model
	lines    []string
	width    int
	ready    bool
}

var (
	tuiTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tuiFeedStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	outcomeStyles = map[Outcome]lipgloss.Style{
		OutcomeDelivered:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		OutcomeRejected:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		OutcomeUnreachable: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		OutcomeMalformed:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

func newTUIModel(cfg *config.SimulationConfig) tuiModel {
	m := tuiModel{counters: make(map[string]*destCounters)}
	if cfg != nil {
		for _, d := range cfg.Destinations {
			m.order = append(m.order, d.Name)
			m.counters[d.Name] = &destCounters{}
		}
	}
	m.tbl = table.New(
		table.WithColumns([]table.Column{
			{Title: "Destination", Width: 20},
			{Title: "Delivered", Width: 10},
			{Title: "Rejected", Width: 10},
			{Title: "Unreachable", Width: 12},
			{Title: "Failed", Width: 8},
		}),
		table.WithHeight(len(m.order)+1),
	)
	m.feed = viewport.New(80, 10)
	m.refreshTable()
	return m
}

func (m *tuiModel) record(msg deliveryMsg) {
	c, ok := m.counters[msg.destination]
	if !ok {
		c = &destCounters{}
		m.counters[msg.destination] = c
		m.order = append(m.order, msg.destination)
	}
	switch msg.result.Outcome {
	case OutcomeDelivered:
		c.delivered++
	case OutcomeRejected:
		c.rejected++
	case OutcomeUnreachable:
		c.unreachable++
	case OutcomeMalformed:
		c.failed++
	}

	style := outcomeStyles[msg.result.Outcome]
	line := fmt.Sprintf("%s %-16s -> %-18s %s",
		msg.ts.Format("15:04:05"), msg.kind, msg.destination,
		style.Render(msg.result.Outcome.String()))
	m.lines = append(m.lines, line)
	if len(m.lines) > feedCapacity {
		m.lines = m.lines[len(m.lines)-feedCapacity:]
	}
	m.refreshFeed()
	m.refreshTable()
}

func (m *tuiModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.order))
	for _, name := range m.order {
		c := m.counters[name]
		rows = append(rows, table.Row{
			name,
			fmt.Sprintf("%d", c.delivered),
			fmt.Sprintf("%d", c.rejected),
			fmt.Sprintf("%d", c.unreachable),
			fmt.Sprintf("%d", c.failed),
		})
	}
	m.tbl.SetRows(rows)
	m.tbl.SetHeight(len(rows) + 1)
}

func (m *tuiModel) refreshFeed() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	content := ""
	for _, l := range m.lines {
		content += wordwrap.String(l, width-4) + "\n"
	}
	m.feed.SetContent(content)
	m.feed.GotoBottom()
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		feedHeight := msg.Height - len(m.order) - 8
		if feedHeight < 3 {
			feedHeight = 3
		}
		m.feed.Width = msg.Width - 4
		m.feed.Height = feedHeight
		m.refreshFeed()
		m.ready = true
	case deliveryMsg:
		m.record(msg)
	}

	var cmd tea.Cmd
	m.feed, cmd = m.feed.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		tuiTitleStyle.Render("e2sim deliveries"),
		m.tbl.View(),
		tuiFeedStyle.Render(m.feed.View()),
		"q: quit",
	)
}
