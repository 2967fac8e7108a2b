package recallstore

import (
	"context"
	"time"
)

// Entries are evicted this long after recording, whether or not a recall was
// ever observed for them.
const TTL = 10 * time.Minute

// A cached message, held so its content can be reconstructed if the sender
// withdraws it.
type Entry struct {
	UserID  string    `json:"userId"`
	GroupID string    `json:"groupId"`
	Raw     string    `json:"raw"`
	Time    time.Time `json:"time"`
}

// RecallStore is a TTL-bounded cache of recently seen messages, keyed by
// message ID. Consume removes and returns the entry for an observed recall;
// a nil entry means the message was never cached or already expired, and the
// recall must be silently ignored. Stale entries are never reported.
type RecallStore interface {
	Record(ctx context.Context, messageID string, entry Entry) error
	Consume(ctx context.Context, messageID string) (*Entry, error)
}
