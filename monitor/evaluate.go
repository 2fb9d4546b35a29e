package monitor

import (
	"time"

	"gitlab.com/tinyland/lab/resmon/collectors"
)

// HeadroomFactor is the fraction of the disk limit eviction aims for.
const HeadroomFactor = 0.75

// Evaluate compares measurements against limits. Each flag is set when the
// usage is strictly greater than its limit.
func Evaluate(m collectors.Measurements, l collectors.LimitSet, at time.Time) collectors.UsageSnapshot {
	return collectors.UsageSnapshot{
		Timestamp:        at,
		MemoryUsageBytes: m.MemoryBytes,
		CPUUsagePercent:  m.CPUPercent,
		DiskUsageBytes:   m.DiskBytes,
		MemoryViolation:  m.MemoryBytes > l.MemoryLimitBytes,
		CPUViolation:     m.CPUPercent > l.CPULimitPercent,
		DiskViolation:    m.DiskBytes > l.DiskLimitBytes,
		MemoryUsageMB:    m.MemoryBytes / collectors.BytesPerMB,
		DiskUsageGB:      m.DiskBytes / collectors.BytesPerGB,
		Limits:           l,
	}
}

// TargetFree returns how many bytes to evict so that disk usage falls to
// HeadroomFactor of the limit.
func TargetFree(diskUsage, diskLimit float64) float64 {
	return diskUsage - HeadroomFactor*diskLimit
}
