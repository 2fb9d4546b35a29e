// Package widgets renders resource snapshots as terminal text with lipgloss.
package widgets

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/resmon/collectors"
	"gitlab.com/tinyland/lab/resmon/status"
)

var (
	panelTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	panelMuted = lipgloss.NewStyle().Foreground(colorMuted)
	panelBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// PanelConfig controls RenderPanel.
type PanelConfig struct {
	// Width is the total panel width including the border. Values below
	// MinPanelWidth are raised to it.
	Width int
	// Now is used for relative times (default time.Now).
	Now func() time.Time
}

// MinPanelWidth fits a label, a short bar and the numbers.
const MinPanelWidth = 44

// RenderPanel renders the resource panel for s. A nil snapshot renders a
// placeholder.
func RenderPanel(s *collectors.UsageSnapshot, cfg PanelConfig) string {
	width := cfg.Width
	if width < MinPanelWidth {
		width = MinPanelWidth
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	inner := width - 4 // border and padding

	if s == nil {
		body := panelTitle.Render("resmon") + "\n" + RenderLevel(status.LevelUnknown, panelMuted.Render("no data yet"))
		return panelBox.Width(inner).Render(body)
	}

	report := status.Evaluate(s)
	lines := []string{
		fmt.Sprintf("%s  %s  %s",
			panelTitle.Render("resmon"),
			RenderLevel(report.Overall, report.Overall.String()),
			panelMuted.Render("updated "+formatAge(now().Sub(s.Timestamp))+" ago"),
		),
		"",
	}

	// Padding (2), label (7), percent (5), gap (2) and the longest detail
	// (34) leave the rest for the bar.
	barWidth := inner - 50
	if barWidth < 6 {
		barWidth = 6
	}
	rows := []struct {
		label string
		usage float64
		limit float64
	}{
		{"memory", s.MemoryUsageBytes, s.Limits.MemoryLimitBytes},
		{"cpu", s.CPUUsagePercent, s.Limits.CPULimitPercent},
		{"disk", s.DiskUsageBytes, s.Limits.DiskLimitBytes},
	}
	for i, r := range rows {
		g := RenderGauge(GaugeConfig{
			Width:        barWidth,
			Usage:        r.usage,
			Limit:        r.limit,
			Label:        fmt.Sprintf("%-6s", r.label),
			ShowPercent:  true,
			WarningRatio: status.WarningRatio,
		})
		lines = append(lines, g+"  "+panelMuted.Render(report.Components[i].Reason))
	}

	if s.ArchiveFreeBytes > 0 {
		lines = append(lines, "", panelMuted.Render(fmt.Sprintf("archive filesystem: %s free", FormatBytes(float64(s.ArchiveFreeBytes)))))
	}
	if e := s.LastEviction; e != nil {
		line := fmt.Sprintf("last eviction %s ago: %d pairs, %s freed",
			formatAge(now().Sub(e.At)), e.Pairs, FormatBytes(float64(e.FreedBytes)))
		if e.Failures > 0 {
			line += fmt.Sprintf(", %d failed", e.Failures)
		}
		lines = append(lines, panelMuted.Render(line))
	}

	return panelBox.Width(inner).Render(strings.Join(lines, "\n"))
}

// FormatBytes formats a byte count with decimal units.
func FormatBytes(b float64) string {
	switch {
	case b >= collectors.BytesPerGB:
		return fmt.Sprintf("%.2f GB", b/collectors.BytesPerGB)
	case b >= collectors.BytesPerMB:
		return fmt.Sprintf("%.1f MB", b/collectors.BytesPerMB)
	case b >= 1000:
		return fmt.Sprintf("%.1f kB", b/1000)
	default:
		return fmt.Sprintf("%.0f B", b)
	}
}

func formatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
