package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/selkora/hyperfield/internal/equation"
)

const (
	historyCapacity = 300
	graphWidth      = 70
	graphHeight     = 8
	barWidth        = 30
)

type TickMsg time.Time

// Model is the live bubbletea view over a running calculator.
type Model struct {
	calc          *equation.Calculator
	fps           int
	running       bool
	cycle         int
	latest        equation.DimensionData
	history       []float64
	coeffNames    []string
	initialCoeffs map[string]float64
	initialDim    int
	selected      int
	showHelp      bool
}

func NewModel(calc *equation.Calculator, fps int) Model {
	coeffs := calc.Coefficients()
	names := make([]string, 0, len(coeffs))
	initial := make(map[string]float64, len(coeffs))
	for name, v := range coeffs {
		names = append(names, name)
		initial[name] = v
	}
	sort.Strings(names)

	if fps <= 0 {
		fps = 30
	}

	return Model{
		calc:          calc,
		fps:           fps,
		running:       true,
		latest:        calc.UpdateCache(),
		history:       make([]float64, 0, historyCapacity),
		coeffNames:    names,
		initialCoeffs: initial,
		initialDim:    calc.CurrentDimension(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			for name, v := range m.initialCoeffs {
				m.calc.SetCoefficient(name, v)
			}
			// The cycle wraps, so walking forward always reaches the
			// starting dimension again.
			for m.calc.CurrentDimension() != m.initialDim {
				m.calc.AdvanceCycle()
			}
			m.latest = m.calc.UpdateCache()
			m.history = m.history[:0]
			m.cycle = 0
		case "tab":
			m.selected = (m.selected + 1) % len(m.coeffNames)
		case "up", "k":
			m.adjustSelected(1.05)
		case "down", "j":
			m.adjustSelected(0.95)
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.latest = m.calc.UpdateCache()
			m.calc.AdvanceCycle()
			m.cycle++

			m.history = append(m.history, m.latest.Observable)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, m.tick()
	}

	return m, nil
}

func (m *Model) adjustSelected(factor float64) {
	name := m.coeffNames[m.selected]
	v := m.calc.Coefficients()[name]
	if v == 0 {
		v = 1e-3
	}
	m.calc.SetCoefficient(name, v*factor)
}

func (m Model) View() string {
	var sb strings.Builder

	status := "running"
	if !m.running {
		status = "paused"
	}
	sb.WriteString(headerStyle.Render(fmt.Sprintf("hyperfield  dimension %d/%d  cycle %d  [%s]",
		m.latest.Dimension, m.calc.MaxDimensions(), m.cycle, status)))
	sb.WriteString("\n")

	sb.WriteString(m.renderBars())
	sb.WriteString("\n")

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("observable"),
		)
		sb.WriteString(graphStyle.Render(graph))
		sb.WriteString("\n")
	}

	sb.WriteString(m.renderCoefficients())

	if m.showHelp {
		sb.WriteString(helpStyle.Render(
			"space pause · tab select · up/down adjust · r reset · q quit"))
	} else {
		sb.WriteString(helpStyle.Render("? help · q quit"))
	}
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderBars() string {
	rows := []struct {
		name  string
		value float64
	}{
		{"observable", m.latest.Observable},
		{"potential", m.latest.Potential},
		{"dark matter", m.latest.DarkMatter},
		{"dark energy", m.latest.DarkEnergy},
	}

	maxAbs := 1.0
	for _, r := range rows {
		if a := math.Abs(r.value); a > maxAbs {
			maxAbs = a
		}
	}

	var sb strings.Builder
	for _, r := range rows {
		filled := int(math.Abs(r.value) / maxAbs * barWidth)
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		sb.WriteString(labelStyle.Render(r.name))
		sb.WriteString(barStyles[r.name].Render(bar))
		sb.WriteString(valueStyle.Render(fmt.Sprintf("  %+.4f", r.value)))
		sb.WriteString("\n")
	}
	return panelStyle.Render(sb.String()) + "\n"
}

func (m Model) renderCoefficients() string {
	coeffs := m.calc.Coefficients()

	var sb strings.Builder
	for i, name := range m.coeffNames {
		line := fmt.Sprintf("%-18s %.4f", name, coeffs[name])
		if i == m.selected {
			sb.WriteString(activeStyle.Render("> " + line))
		} else {
			sb.WriteString(valueStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	return panelStyle.Render(sb.String()) + "\n"
}

// Run starts the live view and blocks until the user quits.
func Run(calc *equation.Calculator, fps int) error {
	p := tea.NewProgram(NewModel(calc, fps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
