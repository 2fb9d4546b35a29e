package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the live view.
const (
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorWarning   = lipgloss.Color("#EAB308") // Yellow
	colorDanger    = lipgloss.Color("#EF4444") // Red
	colorMuted     = lipgloss.Color("#6B7280") // Gray
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleStale = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger)

	styleContent = lipgloss.NewStyle().
			Padding(1, 2)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)
