// Package collectors defines the measurement interface and the shared data
// model for resmon. Each gauge measures a single resource of the running
// agent (heap memory, CPU share, archive disk footprint) and returns one
// scalar per call.
package collectors

import "context"

// Gauge is the interface that all usage collectors implement.
type Gauge interface {
	// Name returns the gauge's identifier ("memory", "cpu", "disk").
	Name() string

	// Measure takes one reading. Units are gauge-specific: bytes for memory
	// and disk, percent for CPU. Gauges that degrade to a zero reading on
	// transient failures report nil and log the failure themselves.
	Measure(ctx context.Context) (float64, error)
}

// GaugeFunc adapts a plain function to the Gauge interface.
type GaugeFunc struct {
	GaugeName string
	Fn        func(ctx context.Context) (float64, error)
}

// Name returns the configured gauge name.
func (g GaugeFunc) Name() string { return g.GaugeName }

// Measure calls the wrapped function.
func (g GaugeFunc) Measure(ctx context.Context) (float64, error) { return g.Fn(ctx) }
