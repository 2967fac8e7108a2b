package engine

import (
	"time"

	"github.com/lengxi-root/groupguard/onebot"
)

// Mutable container for all the possible side-effects from rule execution.
//
// Rules enqueue enforcement here; nothing is issued against the action API
// until the apply pass at the end of event processing, which also fixes the
// ordering (delete before mute, notices before the deferred kick, etc).
type Effects struct {
	// Withdraw the triggering message.
	DeleteMessage bool
	// Mute the sender for this long. Zero means no mute.
	MuteSender time.Duration
	// Kick the sender immediately, as part of the apply pass.
	KickSender bool
	// Kick the sender after a short delay, fire-and-forget: the apply pass
	// schedules it and does not wait for the outcome.
	DeferredKick bool
	// Add the sender to the persisted global blacklist.
	BlacklistSender bool
	// Group messages (notices, replies, welcomes) to send, in enqueue order.
	Messages [][]onebot.Segment
	// Emoji ID to react to the triggering message with.
	React string
	// Restore the sender's display card to this value. Pointer because the
	// empty string is a valid card.
	SetCard *string
	// Stops further ordered rule evaluation for this event.
	Handled bool

	// KickDone is closed once a scheduled DeferredKick has executed. Filled
	// in by the apply pass; lets tests observe the kick without wall-clock
	// coupling.
	KickDone <-chan struct{}
}

func (e *Effects) MarkHandled() {
	e.Handled = true
}

func (e *Effects) SendMessage(content ...onebot.Segment) {
	e.Messages = append(e.Messages, content)
}
