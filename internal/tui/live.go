// Package tui renders live growth progress in the terminal. The
// generator runs in its own goroutine and feeds Progress values over a
// channel; the graph itself never crosses the boundary.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/biomorph/internal/grow"
)

const (
	graphWidth   = 60
	graphHeight  = 8
	barWidth     = 40
	historyLimit = 600
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// doneMsg carries the run outcome into the model.
type doneMsg struct{ err error }

type Model struct {
	typ      string
	progress <-chan grow.Progress
	done     <-chan error

	phase   grow.Phase
	tick    int
	nodes   int
	conns   int
	target  int
	history []float64
	err     error
	closed  bool
}

func NewModel(typ string, progress <-chan grow.Progress, done <-chan error) Model {
	return Model{
		typ:      typ,
		progress: progress,
		done:     done,
		history:  make([]float64, 0, historyLimit),
	}
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

// wait blocks on the next progress value or run completion.
func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case p, ok := <-m.progress:
			if !ok {
				return doneMsg{}
			}
			return p
		case err := <-m.done:
			return doneMsg{err: err}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case grow.Progress:
		m.phase = msg.Phase
		m.tick = msg.Tick
		m.nodes = msg.NodeCount
		m.conns = msg.ConnCount
		if msg.Target > 0 {
			m.target = msg.Target
		}
		if len(m.history) < historyLimit {
			m.history = append(m.history, float64(msg.NodeCount))
		}
		return m, m.wait()
	case doneMsg:
		m.closed = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("biomorph · %s", m.typ)))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("phase", m.phase.String())
	row("tick", fmt.Sprintf("%d", m.tick))
	row("nodes", fmt.Sprintf("%d", m.nodes))
	row("connections", fmt.Sprintf("%d", m.conns))

	if m.target > 0 {
		filled := m.nodes * barWidth / m.target
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		row("target", fmt.Sprintf("%s %d/%d", barStyle.Render(bar), m.nodes, m.target))
	}

	if len(m.history) > 1 {
		plot := asciigraph.Plot(m.history,
			asciigraph.Width(graphWidth),
			asciigraph.Height(graphHeight),
			asciigraph.Caption("node count"),
		)
		b.WriteString(graphStyle.Render(plot))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(valueStyle.Render(fmt.Sprintf("run ended: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("q quit"))
	return b.String()
}
