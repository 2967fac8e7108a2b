package onebot

import (
	"context"
	"time"
)

// Group member roles as reported by the host.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
	RoleOwner  = "owner"
)

// Group member metadata, as returned by MemberInfo.
type MemberInfo struct {
	UserID   string
	Nickname string
	Card     string
	Role     string
}

// DisplayName returns the member's group card, falling back to nickname.
func (mi *MemberInfo) DisplayName() string {
	if mi.Card != "" {
		return mi.Card
	}
	return mi.Nickname
}

// The enforcement surface the moderation engine calls against the host
// backend. All calls are fallible and are not retried; a failed call
// propagates to the per-event caller.
type ActionAPI interface {
	// Kick removes a member from a group.
	Kick(ctx context.Context, groupID, userID string) error
	// Mute silences a member for the given duration. Zero duration unmutes.
	Mute(ctx context.Context, groupID, userID string, d time.Duration) error
	// SetWholeGroupMute toggles group-wide muting.
	SetWholeGroupMute(ctx context.Context, groupID string, enabled bool) error
	// DeleteMessage withdraws a message by ID.
	DeleteMessage(ctx context.Context, messageID string) error
	// SetCard overwrites a member's group display card.
	SetCard(ctx context.Context, groupID, userID, card string) error
	// SetSpecialTitle grants (or, with empty text, clears) a special title.
	SetSpecialTitle(ctx context.Context, groupID, userID, title string) error
	// ReactToMessage attaches an emoji reaction to a message.
	ReactToMessage(ctx context.Context, messageID, emojiID string) error
	SendGroupMessage(ctx context.Context, groupID string, content []Segment) error
	// SendForwardNodes sends a multi-node forwarded message to a group.
	SendForwardNodes(ctx context.Context, groupID string, nodes []Segment) error
	SendPrivateMessage(ctx context.Context, userID string, content []Segment) error
	// MemberInfo fetches fresh member metadata (role, card, nickname).
	MemberInfo(ctx context.Context, groupID, userID string) (*MemberInfo, error)
}
