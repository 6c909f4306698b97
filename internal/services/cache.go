package services

import (
	"sync/atomic"
	"time"

	"github.com/sysmonitor/web-monitor/internal/models"
)

// SnapshotCache publishes inventory snapshots to concurrent readers.
// Publish is a single atomic pointer swap performed only by the refresh
// loop; readers never take a lock and never observe a half-built
// snapshot. The superseded snapshot is retained once for diagnostics.
type SnapshotCache struct {
	current  atomic.Pointer[models.Snapshot]
	previous atomic.Pointer[models.Snapshot]
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Current returns the last published snapshot. Before the first cycle
// completes it returns (nil, false): the explicit not-yet-collected
// sentinel.
func (c *SnapshotCache) Current() (*models.Snapshot, bool) {
	s := c.current.Load()
	return s, s != nil
}

// Previous returns the snapshot superseded by the current one.
func (c *SnapshotCache) Previous() (*models.Snapshot, bool) {
	s := c.previous.Load()
	return s, s != nil
}

// Publish swaps in a new snapshot. Called only from the refresh loop, so
// there is exactly one writer. Capture timestamps over published
// snapshots strictly increase even if the clock stalls.
func (c *SnapshotCache) Publish(s *models.Snapshot) {
	if prev := c.current.Load(); prev != nil && !s.CapturedAt.After(prev.CapturedAt) {
		// Not yet visible to readers; safe to adjust.
		s.CapturedAt = prev.CapturedAt.Add(time.Nanosecond)
	}
	old := c.current.Swap(s)
	if old != nil {
		c.previous.Store(old)
	}
}
