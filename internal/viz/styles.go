package viz

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	barStyles = map[string]lipgloss.Style{
		"observable":  lipgloss.NewStyle().Foreground(lipgloss.Color("48")),
		"potential":   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"dark matter": lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		"dark energy": lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
	}
)
