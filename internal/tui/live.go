package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/reactord/internal/solver"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Monitor is a bubbletea model that integrates a system live and plots one
// watched component while listing the rest.
type Monitor struct {
	sys        solver.System
	integrator solver.Integrator
	labels     []string
	watch      int // component plotted as a sparkline

	state solver.State
	t     float64
	dt    float64

	stepsPerFrame int
	history       []float64
	width         int
	paused        bool
	err           error
}

func NewMonitor(sys solver.System, integ solver.Integrator, x0 solver.State, labels []string, watch int, dt float64) *Monitor {
	return &Monitor{
		sys:           sys,
		integrator:    integ,
		labels:        labels,
		watch:         watch,
		state:         x0.Clone(),
		dt:            dt,
		stepsPerFrame: 20,
		history:       make([]float64, 0, historyCapacity),
		width:         80,
	}
}

func (m *Monitor) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+":
			m.stepsPerFrame *= 2
		case "-":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		if !m.paused && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Monitor) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		next, err := m.integrator.Step(m.sys, m.state, m.t, m.dt)
		if err != nil {
			m.err = err
			return
		}
		m.state = next
		m.t += m.dt
	}
	m.history = append(m.history, m.state[m.watch])
	if len(m.history) > historyCapacity {
		m.history = m.history[len(m.history)-historyCapacity:]
	}
}

func (m *Monitor) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("reactord live") + "\n")

	graphWidth := m.width - 20
	if graphWidth < 20 {
		graphWidth = 20
	}
	if len(m.history) > 1 {
		plot := asciigraph.Plot(m.history,
			asciigraph.Height(10),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(m.labels[m.watch]))
		b.WriteString(graphStyle.Render(plot) + "\n")
	}

	var stats strings.Builder
	stats.WriteString(labelStyle.Render("time") + valueStyle.Render(fmt.Sprintf("%.6g s", m.t)) + "\n")
	stats.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%.3g s", m.dt)) + "\n")
	for i, lbl := range m.labels {
		stats.WriteString(labelStyle.Render(lbl) + valueStyle.Render(fmt.Sprintf("%.6g", m.state[i])) + "\n")
	}
	b.WriteString(statsStyle.Render(stats.String()))

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("integration failed: "+m.err.Error()))
	}
	b.WriteString("\n" + helpStyle.Render("space pause · +/- speed · q quit"))
	return b.String()
}

// RunMonitor blocks running the live view until the user quits.
func RunMonitor(m *Monitor) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
