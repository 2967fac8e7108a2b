package rules

import (
	"github.com/lengxi-root/groupguard/guard/engine"
	"github.com/lengxi-root/groupguard/guard/qa"
)

var _ engine.MessageRuleFunc = QAReplyRule

// Keyword Q&A auto-reply. Group-custom groups only ever see their own list,
// never the global one; the effective list was already selected by the
// settings resolver. First matching entry wins.
func QAReplyRule(c *engine.MessageContext) error {
	if len(c.Settings.QAList) == 0 {
		return nil
	}
	reply, ok := c.MatchQA(c.Message.PlainText())
	if !ok {
		return nil
	}
	c.Reply(qa.Render(reply, c.Message.UserID, c.Message.GroupID))
	c.MarkHandled()
	c.Logger.Debug("qa entry matched")
	return nil
}
