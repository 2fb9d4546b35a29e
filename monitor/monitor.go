// Package monitor runs the resource sampling loop: every interval it reads
// the memory, CPU and disk gauges, evaluates them against the current
// limits, publishes the snapshot, and evicts old archives when the disk
// limit is exceeded.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/resmon/archive"
	"gitlab.com/tinyland/lab/resmon/collectors"
)

// Sink receives one snapshot per cycle. Publish must not block the loop
// for long and reports its own failures.
type Sink interface {
	Publish(snapshot collectors.UsageSnapshot)
}

// Evictor frees archive space.
type Evictor interface {
	Evict(ctx context.Context, targetFree float64) (archive.Result, error)
}

// Options wires a Monitor.
type Options struct {
	// Interval is the sleep between cycles.
	Interval time.Duration

	Memory collectors.Gauge
	CPU    collectors.Gauge
	Disk   collectors.Gauge

	// FreeSpace optionally reports free bytes on the archive filesystem.
	FreeSpace func() (uint64, error)

	Limits  *Limits
	Sink    Sink
	Evictor Evictor

	// Logger for cycle events. Nil is safe (a discard logger is used).
	Logger *slog.Logger
}

// Monitor is the sampler loop. A Monitor is driven by one goroutine; Run and
// RunOnce must not be called concurrently.
type Monitor struct {
	interval  time.Duration
	memory    collectors.Gauge
	cpu       collectors.Gauge
	disk      collectors.Gauge
	freeSpace func() (uint64, error)
	limits    *Limits
	sink      Sink
	evictor   Evictor
	logger    *slog.Logger

	lastEviction *collectors.EvictionSummary

	// Overridable clock for testing.
	now   func() time.Time
	after func(d time.Duration) <-chan time.Time
}

// New validates opts and builds a Monitor.
func New(opts Options) (*Monitor, error) {
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("monitor: interval must be positive, got %s", opts.Interval)
	}
	if opts.Memory == nil || opts.CPU == nil || opts.Disk == nil {
		return nil, errors.New("monitor: memory, cpu and disk gauges are required")
	}
	if opts.Limits == nil {
		return nil, errors.New("monitor: limits are required")
	}
	if opts.Sink == nil {
		return nil, errors.New("monitor: sink is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Monitor{
		interval:  opts.Interval,
		memory:    opts.Memory,
		cpu:       opts.CPU,
		disk:      opts.Disk,
		freeSpace: opts.FreeSpace,
		limits:    opts.Limits,
		sink:      opts.Sink,
		evictor:   opts.Evictor,
		logger:    logger,
		now:       time.Now,
		after:     time.After,
	}, nil
}

// Run sleeps for the interval, runs a cycle, and repeats until ctx is
// cancelled. Cycle failures are logged and never end the loop. Run returns
// ctx.Err().
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("started", "interval", m.interval)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("stopped")
			return ctx.Err()
		case <-m.after(m.interval):
		}

		if _, err := m.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				m.logger.Info("stopped")
				return ctx.Err()
			}
			m.logger.Log(ctx, logLevel(err), "error getting usage data", "error", err)
		}
	}
}

// RunOnce performs a single cycle without the leading sleep and returns the
// published snapshot. Measurement failures degrade the affected reading
// and are returned joined with any eviction failure after the snapshot has
// been published. If ctx is cancelled before publishing, nothing is
// published and ctx.Err() is returned.
func (m *Monitor) RunOnce(ctx context.Context) (snap collectors.UsageSnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StepError{Step: StepCycle, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	limits := m.limits.Load()
	m.logger.Debug("get usage data")

	var errs []error
	measure := func(g collectors.Gauge, step Step) float64 {
		v, err := g.Measure(ctx)
		if err != nil {
			errs = append(errs, &StepError{Step: step, Err: err})
		}
		return v
	}

	meas := collectors.Measurements{
		MemoryBytes: measure(m.memory, StepMeasureMemory),
		CPUPercent:  measure(m.cpu, StepMeasureCPU),
		DiskBytes:   measure(m.disk, StepMeasureDisk),
	}
	if err := ctx.Err(); err != nil {
		return snap, err
	}

	snap = Evaluate(meas, limits, m.now())
	if m.freeSpace != nil {
		if free, err := m.freeSpace(); err != nil {
			m.logger.Debug("archive free space unavailable", "error", err)
		} else {
			snap.ArchiveFreeBytes = free
		}
	}
	snap.LastEviction = m.lastEviction

	m.logViolations(snap)
	m.sink.Publish(snap)

	if snap.DiskViolation && m.evictor != nil {
		target := TargetFree(meas.DiskBytes, limits.DiskLimitBytes)
		res, err := m.evictor.Evict(ctx, target)
		m.lastEviction = &collectors.EvictionSummary{
			At:          res.FinishedAt,
			TargetBytes: target,
			FreedBytes:  res.Freed,
			Pairs:       len(res.Deleted),
			Failures:    len(res.Failures),
		}
		if err != nil {
			errs = append(errs, &StepError{Step: StepEvict, Err: err})
		}
	}

	return snap, errors.Join(errs...)
}

func (m *Monitor) logViolations(s collectors.UsageSnapshot) {
	if !s.AnyViolation() {
		return
	}
	m.logger.Warn("resource limit exceeded",
		"memory_violation", s.MemoryViolation,
		"cpu_violation", s.CPUViolation,
		"disk_violation", s.DiskViolation,
		"memory_bytes", s.MemoryUsageBytes,
		"cpu_percent", s.CPUUsagePercent,
		"disk_bytes", s.DiskUsageBytes,
	)
}
