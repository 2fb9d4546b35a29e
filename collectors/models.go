package collectors

import "time"

// Unit scales used by the original status reporter and by the limit
// configuration (disk in GB, memory in MB, both decimal).
const (
	BytesPerMB = 1_000_000
	BytesPerGB = 1_000_000_000
)

// LimitSet holds the configured resource ceilings. Values are trusted as
// supplied; a LimitSet is never mutated after construction, callers replace
// it wholesale.
type LimitSet struct {
	// DiskLimitBytes is the maximum archive footprint in bytes.
	DiskLimitBytes float64 `json:"disk_limit_bytes"`

	// CPULimitPercent is the maximum CPU share of the agent (0-100).
	CPULimitPercent float64 `json:"cpu_limit_percent"`

	// MemoryLimitBytes is the maximum heap in use in bytes.
	MemoryLimitBytes float64 `json:"memory_limit_bytes"`
}

// Measurements is the raw reading triple taken in one cycle.
type Measurements struct {
	MemoryBytes float64 `json:"memory_bytes"`
	CPUPercent  float64 `json:"cpu_percent"`
	DiskBytes   float64 `json:"disk_bytes"`
}

// EvictionSummary describes the most recent archive eviction.
type EvictionSummary struct {
	// At records when the eviction finished.
	At time.Time `json:"at"`

	// TargetBytes is how much space was requested.
	TargetBytes float64 `json:"target_bytes"`

	// FreedBytes is the accounted space released (index plus data sizes).
	FreedBytes int64 `json:"freed_bytes"`

	// Pairs is the number of archive pairs processed.
	Pairs int `json:"pairs"`

	// Failures counts files whose removal the filesystem refused.
	Failures int `json:"failures"`
}

// UsageSnapshot is one cycle's published usage and violation report.
// A snapshot is built fresh every cycle and not retained by the sampler.
type UsageSnapshot struct {
	// Timestamp records when the cycle's measurements completed.
	Timestamp time.Time `json:"timestamp"`

	MemoryUsageBytes float64 `json:"memory_usage_bytes"`
	CPUUsagePercent  float64 `json:"cpu_usage_percent"`
	DiskUsageBytes   float64 `json:"disk_usage_bytes"`

	MemoryViolation bool `json:"memory_violation"`
	CPUViolation    bool `json:"cpu_violation"`
	DiskViolation   bool `json:"disk_violation"`

	// MemoryUsageMB and DiskUsageGB are the display-scaled values the
	// agent's status report carries.
	MemoryUsageMB float64 `json:"memory_usage_mb"`
	DiskUsageGB   float64 `json:"disk_usage_gb"`

	// Limits is the limit set the violations were evaluated against.
	Limits LimitSet `json:"limits"`

	// ArchiveFreeBytes is the free space left on the archive filesystem,
	// 0 when it could not be determined.
	ArchiveFreeBytes uint64 `json:"archive_free_bytes,omitempty"`

	// LastEviction is the most recent eviction run, if any.
	LastEviction *EvictionSummary `json:"last_eviction,omitempty"`
}

// AnyViolation reports whether at least one limit was exceeded.
func (s *UsageSnapshot) AnyViolation() bool {
	return s.MemoryViolation || s.CPUViolation || s.DiskViolation
}
