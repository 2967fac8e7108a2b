package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/lengxi-root/groupguard/guard/config"
	"github.com/lengxi-root/groupguard/onebot"
)

// The primary interface exposed to rules. All other contexts derive from
// this "base" struct.
type BaseContext struct {
	// Actual golang "context.Context", if needed for timeouts etc
	Ctx context.Context
	// Any errors encountered while processing methods on this struct (or
	// sub-types) get rolled up in this nullable field
	Err error
	// slog logger handle, with event-specific structured fields
	// pre-populated. Pointer, but expected to never be nil.
	Logger *slog.Logger

	engine  *Engine // NOTE: pointer, but expected never to be nil
	effects *Effects
}

// Context for one inbound group message flowing down the ordered rule
// pipeline.
type MessageContext struct {
	BaseContext

	Message  onebot.MessageEvent
	Settings *config.Resolved
	// Whitelisted senders are exempt from enforcement rules (blacklist,
	// keyword, type filter, spam, targeting), but not from Q&A or
	// card-lock reconciliation.
	SenderExempt bool
}

// Context for member-level events: joins and display-card changes.
type MemberContext struct {
	BaseContext

	GroupID string
	UserID  string
	// For card-change events, the card value the host reported. Rules
	// re-fetch fresh metadata before acting on it.
	ObservedCard string
	Settings     *config.Resolved
}

func NewMessageContext(ctx context.Context, eng *Engine, evt onebot.MessageEvent) MessageContext {
	return MessageContext{
		BaseContext: BaseContext{
			Ctx:     ctx,
			Err:     nil,
			Logger:  eng.Logger.With("group", evt.GroupID, "user", evt.UserID, "msg", evt.MessageID),
			engine:  eng,
			effects: &Effects{},
		},
		Message:      evt,
		Settings:     eng.Config.EffectiveSettings(evt.GroupID),
		SenderExempt: eng.Config.IsWhitelisted(evt.UserID),
	}
}

func NewMemberContext(ctx context.Context, eng *Engine, groupID, userID string) MemberContext {
	return MemberContext{
		BaseContext: BaseContext{
			Ctx:     ctx,
			Err:     nil,
			Logger:  eng.Logger.With("group", groupID, "user", userID),
			engine:  eng,
			effects: &Effects{},
		},
		GroupID:  groupID,
		UserID:   userID,
		Settings: eng.Config.EffectiveSettings(groupID),
	}
}

// request external state via engine (indirect) ======

// IsBlacklisted reports global blacklist membership for a user.
func (c *BaseContext) IsBlacklisted(userID string) bool {
	return c.engine.Config.IsBlacklisted(userID)
}

// CardLock looks up the pinned display card for (group, user). The second
// return distinguishes a lock on the empty string from no lock at all.
func (c *BaseContext) CardLock(groupID, userID string) (string, bool) {
	return c.engine.Config.CardLock(groupID, userID)
}

// EmojiReactTargets returns the group's react target list and the global
// react flag.
func (c *BaseContext) EmojiReactTargets(groupID string) ([]string, bool) {
	return c.engine.Config.EmojiReactTargets(groupID)
}

// MemberInfo fetches fresh member metadata through the action API. Lookup
// failures roll up on c.Err and return nil.
func (c *BaseContext) MemberInfo(groupID, userID string) *onebot.MemberInfo {
	info, err := c.engine.Actions.MemberInfo(c.Ctx, groupID, userID)
	if err != nil {
		if nil == c.Err {
			c.Err = err
		}
		return nil
	}
	return info
}

// ObserveSpam records the message against the sender's sliding window and
// reports whether the spam threshold was reached (and the window reset).
func (c *MessageContext) ObserveSpam() bool {
	triggered, err := c.engine.Spam.Observe(
		c.Ctx, c.Message.GroupID, c.Message.UserID,
		time.Now(), c.Settings.SpamWindow, c.Settings.SpamThreshold)
	if err != nil {
		if nil == c.Err {
			c.Err = err
		}
		return false
	}
	return triggered
}

// MatchQA runs the effective Q&A list against the stripped message text.
func (c *MessageContext) MatchQA(text string) (string, bool) {
	return c.engine.QA.Match(c.Settings.QAList, text)
}

// update effects (indirect) ======

// MarkHandled stops the ordered pipeline after the current rule.
func (c *BaseContext) MarkHandled() {
	c.effects.MarkHandled()
}

func (c *MessageContext) DeleteMessage() {
	c.effects.DeleteMessage = true
}

func (c *MessageContext) MuteSender(d time.Duration) {
	c.effects.MuteSender = d
}

func (c *MessageContext) KickSender() {
	c.effects.KickSender = true
}

// KickSenderDelayed schedules a kick shortly after the other actions land,
// fire-and-forget.
func (c *MessageContext) KickSenderDelayed() {
	c.effects.DeferredKick = true
}

func (c *MessageContext) BlacklistSender() {
	c.effects.BlacklistSender = true
}

// Notify enqueues a plain-text group notice.
func (c *MessageContext) Notify(text string) {
	c.effects.SendMessage(onebot.Text(text))
}

// Reply enqueues a plain-text group reply (Q&A).
func (c *MessageContext) Reply(text string) {
	c.effects.SendMessage(onebot.Text(text))
}

func (c *MessageContext) ReactWith(emojiID string) {
	c.effects.React = emojiID
}

func (c *MessageContext) RestoreCard(card string) {
	c.effects.SetCard = &card
}

func (c *MemberContext) RestoreCard(card string) {
	c.effects.SetCard = &card
}

// Welcome enqueues an at-mention plus text group message for a joining
// member.
func (c *MemberContext) Welcome(text string) {
	c.effects.SendMessage(onebot.At(c.UserID), onebot.Text(" "+text))
}
