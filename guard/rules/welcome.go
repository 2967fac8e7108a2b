package rules

import (
	"github.com/lengxi-root/groupguard/guard/engine"
	"github.com/lengxi-root/groupguard/guard/qa"
)

var _ engine.MemberRuleFunc = WelcomeJoinRule

// Greets new members with the configured welcome template. No template
// configured means no greeting.
func WelcomeJoinRule(c *engine.MemberContext) error {
	tpl := c.Settings.WelcomeMessage
	if tpl == "" {
		return nil
	}
	c.Welcome(qa.Render(tpl, c.UserID, c.GroupID))
	return nil
}
