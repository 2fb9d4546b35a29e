// Package tui is the live resource view. It polls the snapshot the daemon
// publishes to the cache and redraws gauges and short history lines.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/resmon/cache"
	"gitlab.com/tinyland/lab/resmon/collectors"
	"gitlab.com/tinyland/lab/resmon/display/widgets"
)

// maxHistory bounds the per-resource history kept for sparklines.
const maxHistory = 120

// Options configures the live view.
type Options struct {
	// Store is where the daemon publishes snapshots.
	Store *cache.Store
	// Refresh is how often the cache is re-read (default 2s).
	Refresh time.Duration
	// MaxAge marks snapshots older than this as stale. Typically twice the
	// daemon poll interval.
	MaxAge time.Duration
}

// Model is the Bubbletea model for the live view.
type Model struct {
	opts Options

	width  int
	height int
	ready  bool

	snap        *collectors.UsageSnapshot
	fresh       bool
	err         error
	lastUpdated time.Time

	cpuHistory  []float64
	diskHistory []float64

	help help.Model
	now  func() time.Time
}

// NewModel returns a Model reading from opts.Store.
func NewModel(opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = 2 * time.Second
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = time.Minute
	}
	return Model{opts: opts, help: help.New(), now: time.Now}
}

// Init starts the first read and the refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchSnapshotCmd(m.opts.Store, m.opts.MaxAge), tickCmd(m.opts.Refresh))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			return m, fetchSnapshotCmd(m.opts.Store, m.opts.MaxAge)
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.opts.Store, m.opts.MaxAge), tickCmd(m.opts.Refresh))

	case snapshotMsg:
		m.applySnapshot(msg)
	}

	return m, nil
}

// applySnapshot records a read. History grows only when the daemon has
// published a new cycle.
func (m *Model) applySnapshot(msg snapshotMsg) {
	m.err = msg.err
	if msg.err != nil || msg.snap == nil {
		return
	}
	isNew := m.snap == nil || msg.snap.Timestamp.After(m.snap.Timestamp)
	m.snap = msg.snap
	m.fresh = msg.fresh
	m.lastUpdated = m.now()
	if isNew {
		m.cpuHistory = appendBounded(m.cpuHistory, msg.snap.CPUUsagePercent)
		m.diskHistory = appendBounded(m.diskHistory, msg.snap.DiskUsageBytes)
	}
}

func appendBounded(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > maxHistory {
		h = h[len(h)-maxHistory:]
	}
	return h
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	width := m.width - 4
	panel := widgets.RenderPanel(m.snap, widgets.PanelConfig{Width: width, Now: m.now})

	sections := []string{panel}
	if hist := m.renderHistory(width); hist != "" {
		sections = append(sections, hist)
	}
	if m.snap != nil && !m.fresh {
		sections = append(sections, styleStale.Render("snapshot is stale: is the daemon running?"))
	}
	if m.err != nil {
		sections = append(sections, styleError.Render("read failed: "+m.err.Error()))
	}

	content := styleContent.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())
}

func (m Model) renderHistory(width int) string {
	if len(m.cpuHistory) < 2 {
		return ""
	}
	spark := width - 10
	if spark < 10 {
		spark = 10
	}
	var cpuLimit, diskLimit float64
	if m.snap != nil {
		cpuLimit = m.snap.Limits.CPULimitPercent
		diskLimit = m.snap.Limits.DiskLimitBytes
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render("history"),
		fmt.Sprintf("cpu   %s", widgets.RenderSparkline(m.cpuHistory, spark, cpuLimit)),
		fmt.Sprintf("disk  %s", widgets.RenderSparkline(m.diskHistory, spark, diskLimit)),
	)
}

func (m Model) renderFooter() string {
	footer := m.help.View(keys)
	if !m.lastUpdated.IsZero() {
		footer += styleMuted.Render(fmt.Sprintf("  read %s", m.lastUpdated.Format("15:04:05")))
	}
	return styleFooter.Render(footer)
}

// Run starts the live view and blocks until the user quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}
