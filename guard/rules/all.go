package rules

import (
	"github.com/lengxi-root/groupguard/guard/engine"
)

// DefaultRules wires every rule in its fixed priority order. The ordered
// message rules short-circuit; the post rules run regardless of whether an
// earlier rule consumed the event.
func DefaultRules() engine.RuleSet {
	return engine.RuleSet{
		MessageRules: []engine.MessageRuleFunc{
			BlacklistMessageRule,
			KeywordFilterRule,
			MsgTypeFilterRule,
			SpamRateRule,
			TargetAutoRecallRule,
			QAReplyRule,
		},
		PostMessageRules: []engine.MessageRuleFunc{
			CardLockMessageRule,
			EmojiReactRule,
		},
		JoinRules: []engine.MemberRuleFunc{
			WelcomeJoinRule,
		},
		CardRules: []engine.MemberRuleFunc{
			CardLockEventRule,
		},
	}
}
