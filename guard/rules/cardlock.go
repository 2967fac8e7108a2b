package rules

import (
	"github.com/lengxi-root/groupguard/guard/engine"
)

var _ engine.MessageRuleFunc = CardLockMessageRule

// Passive card-lock check: every message carries the sender's current card,
// so locked members are reconciled without any extra API call. Runs even
// when an earlier rule consumed the event, since it concerns display-name
// integrity rather than message content.
func CardLockMessageRule(c *engine.MessageContext) error {
	locked, ok := c.CardLock(c.Message.GroupID, c.Message.UserID)
	if !ok {
		return nil
	}
	if c.Message.SenderCard == locked {
		return nil
	}
	c.Logger.Info("locked card drifted, restoring",
		"current", c.Message.SenderCard, "locked", locked)
	c.RestoreCard(locked)
	return nil
}

var _ engine.MemberRuleFunc = CardLockEventRule

// Reactive card-lock check, triggered by a member-info-change event. The
// fresh card is re-fetched rather than trusted from the event payload; the
// two observation paths can each miss edits made through the other.
func CardLockEventRule(c *engine.MemberContext) error {
	locked, ok := c.CardLock(c.GroupID, c.UserID)
	if !ok {
		return nil
	}
	info := c.MemberInfo(c.GroupID, c.UserID)
	if info == nil {
		return nil
	}
	if info.Card == locked {
		return nil
	}
	c.Logger.Info("locked card changed via event, restoring",
		"current", info.Card, "locked", locked)
	c.RestoreCard(locked)
	return nil
}
