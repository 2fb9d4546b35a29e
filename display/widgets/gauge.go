package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gauge palette.
var (
	colorOK      = lipgloss.Color("#22C55E")
	colorWarning = lipgloss.Color("#EAB308")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// GaugeConfig controls a horizontal usage-versus-limit bar.
type GaugeConfig struct {
	// Width is the bar width in cells (default 20).
	Width int
	// Usage and Limit are in the same unit. A non-positive Limit renders
	// an empty muted bar.
	Usage float64
	Limit float64
	// Label is optional text shown to the left of the bar.
	Label string
	// ShowPercent appends "XX%" of the limit.
	ShowPercent bool
	// WarningRatio is the fraction of the limit at which the bar turns
	// yellow (default 0.9). Above the limit it is red.
	WarningRatio float64
}

// DefaultGaugeConfig returns a GaugeConfig with sensible defaults.
func DefaultGaugeConfig() GaugeConfig {
	return GaugeConfig{
		Width:        20,
		ShowPercent:  true,
		WarningRatio: 0.9,
	}
}

// Ratio returns usage as a fraction of limit, 0 for a non-positive limit.
// The result may exceed 1.
func (c GaugeConfig) Ratio() float64 {
	if c.Limit <= 0 {
		return 0
	}
	return c.Usage / c.Limit
}

// gaugeColor picks the fill color. Exactly at the limit is not over it.
func gaugeColor(usage, limit, warningRatio float64) lipgloss.Color {
	switch {
	case limit <= 0:
		return colorMuted
	case usage > limit:
		return colorDanger
	case usage >= warningRatio*limit:
		return colorWarning
	default:
		return colorOK
	}
}

// RenderGauge renders a bar gauge.
// Format: [Label] [████████░░░░] [XX%]
func RenderGauge(cfg GaugeConfig) string {
	width := cfg.Width
	if width <= 0 {
		width = 20
	}
	warn := cfg.WarningRatio
	if warn <= 0 {
		warn = 0.9
	}

	ratio := cfg.Ratio()
	fill := math.Max(0, math.Min(1, ratio))
	filled := int(math.Round(fill * float64(width)))

	style := lipgloss.NewStyle().Foreground(gaugeColor(cfg.Usage, cfg.Limit, warn))
	bar := style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)

	var sb strings.Builder
	if cfg.Label != "" {
		sb.WriteString(cfg.Label)
		sb.WriteString(" ")
	}
	sb.WriteString(bar)
	if cfg.ShowPercent {
		fmt.Fprintf(&sb, " %3.0f%%", ratio*100)
	}
	return sb.String()
}
