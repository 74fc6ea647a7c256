package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)
