package rules

import (
	"fmt"
	"strings"

	"github.com/lengxi-root/groupguard/guard/engine"
)

var _ engine.MessageRuleFunc = KeywordFilterRule

// Scans the raw message for filter keywords (group list exclusively when the
// group has one, else the global list) and escalates per the configured
// punish level. Escalation is cumulative: each level's actions are a
// superset of the previous level's.
//
//	>=1 delete the message
//	>=2 also mute the sender
//	>=3 also kick, after a short delay so the mute and notice land first
//	>=4 also add the sender to the persisted global blacklist
func KeywordFilterRule(c *engine.MessageContext) error {
	if c.SenderExempt {
		return nil
	}
	if len(c.Settings.FilterKeywords) == 0 {
		return nil
	}
	matched := ""
	for _, kw := range c.Settings.FilterKeywords {
		if kw != "" && strings.Contains(c.Message.Raw, kw) {
			matched = kw
			break
		}
	}
	if matched == "" {
		return nil
	}

	level := c.Settings.FilterPunishLevel
	c.Logger.Info("filter keyword triggered", "keyword", matched, "level", level)

	c.DeleteMessage()
	if level >= 2 {
		c.MuteSender(c.Settings.FilterBan)
		banMin := int(c.Settings.FilterBan.Minutes())
		c.Notify(fmt.Sprintf("⚠️ %s 触发违禁词，已禁言 %d 分钟", c.Message.UserID, banMin))
	}
	if level >= 3 {
		c.KickSenderDelayed()
		c.Notify(fmt.Sprintf("⚠️ %s 触发违禁词，已踢出", c.Message.UserID))
	}
	if level >= 4 {
		c.BlacklistSender()
	}
	c.MarkHandled()
	return nil
}
