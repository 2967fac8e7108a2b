package engine

type MessageRuleFunc = func(c *MessageContext) error
type MemberRuleFunc = func(c *MemberContext) error
