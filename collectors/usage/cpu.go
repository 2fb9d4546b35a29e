package usage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// DefaultCPUWindow is the sampling window between the two counter reads.
const DefaultCPUWindow = time.Second

// TickReader returns a monotonically increasing CPU tick counter.
type TickReader func() (uint64, error)

// CPUGauge reports the agent's share of total system CPU time, in percent,
// measured between two reads of the process and system tick counters.
type CPUGauge struct {
	logger *slog.Logger
	window time.Duration

	// Overridable counter readers and window wait for testing.
	readProcessTicks TickReader
	readTotalTicks   TickReader
	wait             func(ctx context.Context, d time.Duration) error
}

// NewCPUGauge creates a CPUGauge for the current process using the
// platform's process accounting source.
// If logger is nil, a no-op logger is used.
func NewCPUGauge(logger *slog.Logger) *CPUGauge {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	proc, total := platformTickReaders(os.Getpid())
	return &CPUGauge{
		logger:           logger,
		window:           DefaultCPUWindow,
		readProcessTicks: proc,
		readTotalTicks:   total,
		wait:             sleepContext,
	}
}

// Name returns the gauge identifier.
func (g *CPUGauge) Name() string { return "cpu" }

// Measure blocks for the sampling window and returns
// 100 * processDelta / totalDelta. A zero total delta, a counter that went
// backwards, or a failed counter read yields 0. Only cancellation of ctx
// is reported as an error.
func (g *CPUGauge) Measure(ctx context.Context) (float64, error) {
	proc0, total0, ok0 := g.sample()

	if err := g.wait(ctx, g.window); err != nil {
		return 0, err
	}

	proc1, total1, ok1 := g.sample()
	if !ok0 || !ok1 {
		return 0, nil
	}

	return cpuPercent(proc0, proc1, total0, total1), nil
}

// sample reads both counters. Read failures are logged and reported through
// ok so the caller can treat the window as a zero reading.
func (g *CPUGauge) sample() (proc, total uint64, ok bool) {
	ok = true
	proc, err := g.readProcessTicks()
	if err != nil {
		g.logger.Warn("error getting CPU usage", "source", "process", "error", err)
		ok = false
	}
	total, err = g.readTotalTicks()
	if err != nil {
		g.logger.Warn("error getting CPU usage", "source", "system", "error", err)
		ok = false
	}
	return proc, total, ok
}

// cpuPercent computes the process share of the total tick delta.
func cpuPercent(proc0, proc1, total0, total1 uint64) float64 {
	if total1 <= total0 || proc1 < proc0 {
		return 0
	}
	return 100 * float64(proc1-proc0) / float64(total1-total0)
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
