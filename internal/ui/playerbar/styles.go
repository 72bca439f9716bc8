package playerbar

import "github.com/charmbracelet/lipgloss"

var (
	barStyle          = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	metaStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	progressTimeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)
