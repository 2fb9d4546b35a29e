package monitor

import (
	"errors"
	"fmt"
	"log/slog"
)

// Step identifies the part of a cycle that failed.
type Step string

const (
	StepMeasureMemory Step = "measure-memory"
	StepMeasureCPU    Step = "measure-cpu"
	StepMeasureDisk   Step = "measure-disk"
	StepEvict         Step = "evict"
	// StepCycle marks a panic recovered from the cycle body.
	StepCycle Step = "cycle"
)

// StepError wraps a failure with the cycle step it came from.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("monitor: %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Degraded reports whether the cycle still produced a usable snapshot
// despite this failure. Measurement failures degrade to a partial reading
// and eviction failures leave the snapshot already published.
func (e *StepError) Degraded() bool {
	switch e.Step {
	case StepMeasureMemory, StepMeasureCPU, StepMeasureDisk, StepEvict:
		return true
	default:
		return false
	}
}

// logLevel picks the log severity for a cycle error.
func logLevel(err error) slog.Level {
	var se *StepError
	if errors.As(err, &se) && se.Degraded() {
		return slog.LevelWarn
	}
	return slog.LevelError
}
