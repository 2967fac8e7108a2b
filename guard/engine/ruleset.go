package engine

// Holds configuration of which rules should run for each event kind, and
// helps dispatch events to those rules.
type RuleSet struct {
	// MessageRules run in declared priority order; a rule marking the
	// context handled short-circuits the rest of this list.
	MessageRules []MessageRuleFunc
	// PostMessageRules always run, even when an earlier rule consumed the
	// event (card-lock reconciliation, emoji reactions).
	PostMessageRules []MessageRuleFunc
	JoinRules        []MemberRuleFunc
	CardRules        []MemberRuleFunc
}

// Executes the ordered message rules, honoring short-circuits, then the
// post rules. Only dispatches execution, does no other pre/post processing.
func (r *RuleSet) CallMessageRules(c *MessageContext) error {
	for _, f := range r.MessageRules {
		if err := f(c); err != nil {
			return err
		}
		if c.effects.Handled {
			break
		}
	}
	for _, f := range r.PostMessageRules {
		if err := f(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *RuleSet) CallJoinRules(c *MemberContext) error {
	for _, f := range r.JoinRules {
		if err := f(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *RuleSet) CallCardRules(c *MemberContext) error {
	for _, f := range r.CardRules {
		if err := f(c); err != nil {
			return err
		}
	}
	return nil
}
