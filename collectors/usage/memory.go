// Package usage provides the three resource gauges the monitor samples each
// cycle: heap memory of the agent, the agent's share of system CPU over a
// one-second window, and the recursive size of the message archive.
package usage

import (
	"context"
	"runtime"
)

// MemoryGauge reports the agent's heap memory in use, in bytes.
type MemoryGauge struct {
	readMemStats func(*runtime.MemStats)
}

// NewMemoryGauge creates a MemoryGauge backed by the Go runtime.
func NewMemoryGauge() *MemoryGauge {
	return &MemoryGauge{readMemStats: runtime.ReadMemStats}
}

// Name returns the gauge identifier.
func (g *MemoryGauge) Name() string { return "memory" }

// Measure returns heap bytes obtained from the OS minus heap bytes sitting
// idle. The value is approximate and never fails.
func (g *MemoryGauge) Measure(context.Context) (float64, error) {
	var ms runtime.MemStats
	g.readMemStats(&ms)
	return float64(ms.HeapSys) - float64(ms.HeapIdle), nil
}
