package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/resmon/status"
)

// levelIcons maps each level to its indicator.
var levelIcons = map[status.Level]string{
	status.LevelHealthy:  "●", // ● green dot
	status.LevelWarning:  "●", // ● yellow dot
	status.LevelCritical: "●", // ● red dot
	status.LevelUnknown:  "○", // ○ gray outline
}

var levelColors = map[status.Level]lipgloss.Color{
	status.LevelHealthy:  colorOK,
	status.LevelWarning:  colorWarning,
	status.LevelCritical: colorDanger,
	status.LevelUnknown:  colorMuted,
}

// RenderLevel renders a colored indicator followed by text. Empty text
// renders the indicator alone.
func RenderLevel(level status.Level, text string) string {
	color, ok := levelColors[level]
	if !ok {
		color = colorMuted
		level = status.LevelUnknown
	}
	icon := lipgloss.NewStyle().Foreground(color).Render(levelIcons[level])
	if text == "" {
		return icon
	}
	return icon + " " + text
}
