// Package freshness decides when a cached batch must be refetched.
package freshness

import (
	"time"

	"github.com/ytscout/ytscout/internal/store"
)

// Stale reports whether the queried batch needs a refetch: the batch is
// empty, a snapshot was never stamped with a fetch time, or any snapshot is
// older than maxAge. One old row refetches the whole batch — scores are
// batch-relative, so a partial refresh would mix scores from different
// batches.
//
// The policy is advisory; callers may refetch regardless.
func Stale(snapshots []store.Snapshot, maxAge time.Duration) bool {
	if len(snapshots) == 0 {
		return true
	}
	for _, v := range snapshots {
		if v.FetchedAt.IsZero() {
			return true
		}
		if time.Since(v.FetchedAt) > maxAge {
			return true
		}
	}
	return false
}
