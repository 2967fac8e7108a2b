package rules

import (
	"github.com/lengxi-root/groupguard/guard/config"
	"github.com/lengxi-root/groupguard/guard/engine"
)

var _ engine.MessageRuleFunc = BlacklistMessageRule

// Blacklisted senders (global list or the group's own list) get their
// message withdrawn and are kicked immediately, before any other rule runs.
func BlacklistMessageRule(c *engine.MessageContext) error {
	if c.SenderExempt {
		return nil
	}
	globalBlack := c.IsBlacklisted(c.Message.UserID)
	groupBlack := config.Contains(c.Settings.GroupBlacklist, c.Message.UserID)
	if !globalBlack && !groupBlack {
		return nil
	}
	c.DeleteMessage()
	c.KickSender()
	c.MarkHandled()
	scope := "group"
	if globalBlack {
		scope = "global"
	}
	c.Logger.Info("blacklisted sender spoke, removing", "scope", scope)
	return nil
}
