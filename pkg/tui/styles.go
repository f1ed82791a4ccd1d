package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#9D8CFF"}
	muted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	openButtonStyle = buttonStyle.
			BorderForeground(accent).
			Foreground(accent)

	focusedButtonStyle = buttonStyle.
				BorderForeground(accent).
				Bold(true)

	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	closeStyle        = lipgloss.NewStyle().Foreground(muted)
	focusedCloseStyle = lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true)

	arrowStyle = lipgloss.NewStyle().Foreground(accent)
)
