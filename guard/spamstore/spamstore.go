package spamstore

import (
	"context"
	"time"
)

// SpamStore tracks per-(group,user) message timestamps inside a sliding
// window. Observe appends `now`, prunes everything older than `now - window`,
// and reports whether the surviving count reached the threshold. On a trigger
// the key's history is cleared, so a fresh window starts and one burst is
// punished exactly once.
//
// Timestamps are assumed non-decreasing per process; back-dated observations
// are not supported.
type SpamStore interface {
	Observe(ctx context.Context, groupID, userID string, now time.Time, window time.Duration, threshold int) (bool, error)
}

func bucketKey(groupID, userID string) string {
	return groupID + "/" + userID
}
