package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/resmon/cache"
	"gitlab.com/tinyland/lab/resmon/collectors"
	"gitlab.com/tinyland/lab/resmon/status"
)

// snapshotMsg carries the result of a cache read.
type snapshotMsg struct {
	snap  *collectors.UsageSnapshot
	fresh bool
	err   error
}

// tickMsg schedules the next cache read.
type tickMsg time.Time

// fetchSnapshotCmd reads the published snapshot off the UI goroutine.
func fetchSnapshotCmd(store *cache.Store, maxAge time.Duration) tea.Cmd {
	return func() tea.Msg {
		snap, fresh, err := status.LoadSnapshot(store, maxAge)
		return snapshotMsg{snap: snap, fresh: fresh, err: err}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}
