package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/resmon/cache"
	"gitlab.com/tinyland/lab/resmon/collectors"
	"gitlab.com/tinyland/lab/resmon/status"
)

// isQuitCmd executes a tea.Cmd and returns true if it produces a tea.QuitMsg.
func isQuitCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func newTestModel(t *testing.T) (Model, *cache.Store) {
	t.Helper()
	store, err := cache.NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(Options{Store: store, Refresh: time.Second, MaxAge: time.Hour}), store
}

func ready(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(Options{})
	if m.opts.Refresh != 2*time.Second || m.opts.MaxAge != time.Minute {
		t.Errorf("defaults = %+v", m.opts)
	}
	if m.ready || m.snap != nil {
		t.Error("new model should be empty and not ready")
	}
	if m.View() != "Initializing..." {
		t.Errorf("View before resize = %q", m.View())
	}
}

func TestUpdateQuit(t *testing.T) {
	m, _ := newTestModel(t)
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		if _, cmd := m.Update(k); !isQuitCmd(cmd) {
			t.Errorf("%v should quit", k)
		}
	}
}

func TestFetchReadsPublishedSnapshot(t *testing.T) {
	m, store := newTestModel(t)
	snap := collectors.MockUsageSnapshot()
	status.NewReporter(store, nil).Publish(*snap)

	msg := fetchSnapshotCmd(store, time.Hour)().(snapshotMsg)
	if msg.err != nil || msg.snap == nil || !msg.fresh {
		t.Fatalf("fetch = %+v", msg)
	}

	next, _ := ready(m).Update(msg)
	m = next.(Model)
	if m.snap == nil || m.snap.CPUUsagePercent != snap.CPUUsagePercent {
		t.Errorf("model snapshot = %+v", m.snap)
	}
	if !strings.Contains(m.View(), "healthy") {
		t.Errorf("view should show the level:\n%s", m.View())
	}
}

func TestHistoryGrowsOnlyOnNewCycles(t *testing.T) {
	m := ready(NewModel(Options{}))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, ts := range []time.Time{base, base, base.Add(time.Minute), base.Add(2 * time.Minute)} {
		s := collectors.MockUsageSnapshot()
		s.Timestamp = ts
		s.CPUUsagePercent = float64(i)
		next, _ := m.Update(snapshotMsg{snap: s, fresh: true})
		m = next.(Model)
	}
	if len(m.cpuHistory) != 3 {
		t.Errorf("history length = %d, want 3", len(m.cpuHistory))
	}
	if !strings.Contains(m.View(), "history") {
		t.Error("history section should render with 2+ points")
	}
}

func TestHistoryBounded(t *testing.T) {
	var h []float64
	for i := 0; i < maxHistory+25; i++ {
		h = appendBounded(h, float64(i))
	}
	if len(h) != maxHistory || h[len(h)-1] != float64(maxHistory+24) {
		t.Errorf("len=%d last=%v", len(h), h[len(h)-1])
	}
}

func TestStaleAndErrorShown(t *testing.T) {
	m := ready(NewModel(Options{}))
	next, _ := m.Update(snapshotMsg{snap: collectors.MockUsageSnapshot(), fresh: false})
	m = next.(Model)
	if !strings.Contains(m.View(), "stale") {
		t.Error("stale snapshot should be flagged")
	}

	next, _ = m.Update(snapshotMsg{err: errors.New("permission denied")})
	m = next.(Model)
	if !strings.Contains(m.View(), "permission denied") {
		t.Error("read error should be shown")
	}
	if m.snap == nil {
		t.Error("previous snapshot should be kept after a failed read")
	}
}

func TestTickSchedulesFetch(t *testing.T) {
	m, _ := newTestModel(t)
	if _, cmd := m.Update(tickMsg(time.Now())); cmd == nil {
		t.Error("tick should schedule a fetch and the next tick")
	}
}

func TestHelpToggle(t *testing.T) {
	m := ready(NewModel(Options{}))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !next.(Model).help.ShowAll {
		t.Error("? should expand help")
	}
}
