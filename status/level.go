package status

import (
	"fmt"

	"gitlab.com/tinyland/lab/resmon/collectors"
)

// Level represents resource health.
type Level int

const (
	LevelHealthy  Level = iota // Everything within limits
	LevelWarning               // Close to a limit
	LevelCritical              // A limit is exceeded
	LevelUnknown               // No snapshot yet
)

// WarningRatio is the fraction of a limit at which a resource is reported
// as a warning.
const WarningRatio = 0.9

// String returns the human-readable name for a Level.
func (l Level) String() string {
	switch l {
	case LevelHealthy:
		return "healthy"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// severity orders levels. Critical > Warning > Unknown > Healthy.
func severity(l Level) int {
	switch l {
	case LevelHealthy:
		return 0
	case LevelUnknown:
		return 1
	case LevelWarning:
		return 2
	case LevelCritical:
		return 3
	default:
		return 0
	}
}

func worst(a, b Level) Level {
	if severity(a) >= severity(b) {
		return a
	}
	return b
}

// ComponentStatus holds the classification of a single resource.
type ComponentStatus struct {
	Component string `json:"component"` // "memory", "cpu", "disk"
	Level     Level  `json:"level"`
	Reason    string `json:"reason,omitempty"`
}

// Report is the classification of a whole snapshot.
type Report struct {
	Overall    Level             `json:"overall"`
	Components []ComponentStatus `json:"components"`
}

// Classify returns the overall level for a snapshot.
func Classify(s *collectors.UsageSnapshot) Level {
	return Evaluate(s).Overall
}

// Evaluate classifies each resource in s. A nil snapshot is unknown.
func Evaluate(s *collectors.UsageSnapshot) Report {
	if s == nil {
		return Report{Overall: LevelUnknown}
	}

	components := []ComponentStatus{
		classify("memory", s.MemoryViolation, s.MemoryUsageBytes, s.Limits.MemoryLimitBytes,
			fmt.Sprintf("%.0f MB of %.0f MB", s.MemoryUsageBytes/collectors.BytesPerMB, s.Limits.MemoryLimitBytes/collectors.BytesPerMB)),
		classify("cpu", s.CPUViolation, s.CPUUsagePercent, s.Limits.CPULimitPercent,
			fmt.Sprintf("%.1f%% of %.0f%%", s.CPUUsagePercent, s.Limits.CPULimitPercent)),
		classify("disk", s.DiskViolation, s.DiskUsageBytes, s.Limits.DiskLimitBytes,
			fmt.Sprintf("%.2f GB of %.2f GB", s.DiskUsageBytes/collectors.BytesPerGB, s.Limits.DiskLimitBytes/collectors.BytesPerGB)),
	}

	overall := LevelHealthy
	for _, c := range components {
		overall = worst(overall, c.Level)
	}
	return Report{Overall: overall, Components: components}
}

// classify trusts the snapshot's violation flag for critical and only
// derives the warning band from the raw numbers.
func classify(name string, violated bool, usage, limit float64, detail string) ComponentStatus {
	switch {
	case violated:
		return ComponentStatus{Component: name, Level: LevelCritical, Reason: "over limit: " + detail}
	case limit > 0 && usage >= WarningRatio*limit:
		return ComponentStatus{Component: name, Level: LevelWarning, Reason: "near limit: " + detail}
	default:
		return ComponentStatus{Component: name, Level: LevelHealthy, Reason: detail}
	}
}
