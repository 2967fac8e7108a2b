package rules

import (
	"fmt"

	"github.com/lengxi-root/groupguard/guard/engine"
)

var _ engine.MessageRuleFunc = SpamRateRule

// Sliding-window rate detection: when the sender's message count within the
// configured window reaches the threshold, mute them and reset the window so
// one burst is punished exactly once.
func SpamRateRule(c *engine.MessageContext) error {
	if c.SenderExempt {
		return nil
	}
	if !c.Settings.SpamDetect {
		return nil
	}
	if !c.ObserveSpam() {
		return nil
	}

	banMin := int(c.Settings.SpamBan.Minutes())
	c.MuteSender(c.Settings.SpamBan)
	c.Notify(fmt.Sprintf("⚠️ %s 刷屏检测触发，已禁言 %d 分钟", c.Message.UserID, banMin))
	c.MarkHandled()
	c.Logger.Info("spam window triggered",
		"window", c.Settings.SpamWindow, "threshold", c.Settings.SpamThreshold)
	return nil
}
