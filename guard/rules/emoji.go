package rules

import (
	"github.com/lengxi-root/groupguard/guard/config"
	"github.com/lengxi-root/groupguard/guard/engine"
)

// Emoji ID used for reactions (thumbs-up).
const reactEmojiID = "76"

// The sentinel target meaning "react to the bot's own messages".
const reactSelfTarget = "self"

var _ engine.MessageRuleFunc = EmojiReactRule

// Reacts to messages with an emoji: every message when the global flag is
// on, otherwise only senders on the group's target list.
func EmojiReactRule(c *engine.MessageContext) error {
	targets, global := c.EmojiReactTargets(c.Message.GroupID)
	if global {
		c.ReactWith(reactEmojiID)
		return nil
	}
	if len(targets) == 0 {
		return nil
	}
	if config.Contains(targets, c.Message.UserID) ||
		(config.Contains(targets, reactSelfTarget) && c.Message.UserID == c.Message.SelfID) {
		c.ReactWith(reactEmojiID)
	}
	return nil
}
