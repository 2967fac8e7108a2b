package rules

import (
	"github.com/lengxi-root/groupguard/guard/config"
	"github.com/lengxi-root/groupguard/guard/engine"
)

var _ engine.MessageRuleFunc = TargetAutoRecallRule

// Messages from targeted users are withdrawn silently, with no notice.
func TargetAutoRecallRule(c *engine.MessageContext) error {
	if c.SenderExempt {
		return nil
	}
	if !config.Contains(c.Settings.TargetUsers, c.Message.UserID) {
		return nil
	}
	c.DeleteMessage()
	c.MarkHandled()
	c.Logger.Debug("targeted sender message withdrawn")
	return nil
}
