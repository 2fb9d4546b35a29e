// Package status publishes resource snapshots for readers outside the
// daemon and classifies them into health levels.
package status

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/resmon/cache"
	"gitlab.com/tinyland/lab/resmon/collectors"
)

// Cache keys written by the Reporter.
const (
	ResourcesKey = "resources"
	HealthKey    = "health"
)

// Health is the daemon liveness record.
type Health struct {
	Status     string    `json:"status"`
	LastPoll   time.Time `json:"last_poll"`
	Level      string    `json:"level"`
	Violations []string  `json:"violations,omitempty"`
}

// Reporter is the snapshot sink. It keeps the latest snapshot in memory and
// mirrors it to the cache store together with a health record. Store
// failures are logged and never reach the caller.
type Reporter struct {
	store  *cache.Store
	logger *slog.Logger

	mu     sync.RWMutex
	latest *collectors.UsageSnapshot
}

// NewReporter creates a Reporter. A nil store keeps snapshots in memory only.
func NewReporter(store *cache.Store, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reporter{store: store, logger: logger}
}

// Publish records s as the latest snapshot.
func (r *Reporter) Publish(s collectors.UsageSnapshot) {
	r.mu.Lock()
	r.latest = &s
	r.mu.Unlock()

	if r.store == nil {
		return
	}
	if err := cache.SetTyped(r.store, ResourcesKey, &s); err != nil {
		r.logger.Error("failed to publish usage snapshot", "error", err)
	}

	h := Health{
		Status:     "ok",
		LastPoll:   s.Timestamp,
		Level:      Classify(&s).String(),
		Violations: Violations(&s),
	}
	if err := cache.SetTyped(r.store, HealthKey, &h); err != nil {
		r.logger.Error("failed to write health file", "error", err)
	}
}

// Latest returns a copy of the most recent snapshot, or nil before the
// first publish.
func (r *Reporter) Latest() *collectors.UsageSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latest == nil {
		return nil
	}
	s := *r.latest
	return &s
}

// Violations names the resources whose limit s exceeds.
func Violations(s *collectors.UsageSnapshot) []string {
	if s == nil {
		return nil
	}
	var out []string
	if s.MemoryViolation {
		out = append(out, "memory")
	}
	if s.CPUViolation {
		out = append(out, "cpu")
	}
	if s.DiskViolation {
		out = append(out, "disk")
	}
	return out
}

// LoadSnapshot reads the last published snapshot from store. The boolean
// reports whether it is newer than maxAge.
func LoadSnapshot(store *cache.Store, maxAge time.Duration) (*collectors.UsageSnapshot, bool, error) {
	return cache.GetTyped[collectors.UsageSnapshot](store, ResourcesKey, maxAge)
}

// LoadHealth reads the health record from store.
func LoadHealth(store *cache.Store) (*Health, error) {
	h, _, err := cache.GetTyped[Health](store, HealthKey, 0)
	return h, err
}
