package ui

import "github.com/charmbracelet/lipgloss"

var (
	highlight = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	subtle    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	danger    = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	success   = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#58D68D"}

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	barStyle      = lipgloss.NewStyle().Foreground(subtle)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(subtle)
	pendingStyle  = lipgloss.NewStyle().Italic(true)
	categoryStyle = lipgloss.NewStyle().Foreground(subtle)
	helpStyle     = lipgloss.NewStyle().Foreground(subtle)
	errorStyle    = lipgloss.NewStyle().Foreground(danger)
	infoStyle     = lipgloss.NewStyle().Foreground(success)
	labelStyle    = lipgloss.NewStyle().Width(13)
)

var dialogStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(highlight).
	Padding(1, 2)
