package collectors

import (
	"time"
)

// MockLimitSet returns the default limits (50 GB disk, 80% CPU, 4096 MB
// memory) in bytes and percent.
func MockLimitSet() LimitSet {
	return LimitSet{
		DiskLimitBytes:   50 * BytesPerGB,
		CPULimitPercent:  80,
		MemoryLimitBytes: 4096 * BytesPerMB,
	}
}

// MockUsageSnapshot returns a snapshot well inside MockLimitSet.
// Useful for UI initialization and testing without a running daemon.
func MockUsageSnapshot() *UsageSnapshot {
	limits := MockLimitSet()
	mem := 512 * float64(BytesPerMB)
	disk := 12.5 * float64(BytesPerGB)

	return &UsageSnapshot{
		Timestamp:        time.Now(),
		MemoryUsageBytes: mem,
		CPUUsagePercent:  12.5,
		DiskUsageBytes:   disk,
		MemoryUsageMB:    mem / BytesPerMB,
		DiskUsageGB:      disk / BytesPerGB,
		Limits:           limits,
		ArchiveFreeBytes: 200 * BytesPerGB,
	}
}

// MockViolatingSnapshot returns a snapshot whose disk usage exceeds the
// limit, with the eviction that followed.
func MockViolatingSnapshot() *UsageSnapshot {
	s := MockUsageSnapshot()
	s.DiskUsageBytes = 60 * BytesPerGB
	s.DiskUsageGB = 60
	s.DiskViolation = true
	s.LastEviction = &EvictionSummary{
		At:          s.Timestamp.Add(-30 * time.Second),
		TargetBytes: s.DiskUsageBytes - 0.75*s.Limits.DiskLimitBytes,
		FreedBytes:  22_600_000_000,
		Pairs:       118,
	}
	return s
}
