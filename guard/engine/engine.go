package engine

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/lengxi-root/groupguard/guard/config"
	"github.com/lengxi-root/groupguard/guard/qa"
	"github.com/lengxi-root/groupguard/guard/recallstore"
	"github.com/lengxi-root/groupguard/guard/spamstore"
	"github.com/lengxi-root/groupguard/onebot"
)

// Delay before a deferred (level >=3) kick fires, letting the mute and
// notice land first.
var DefaultKickDelay = time.Second

// runtime for executing rules, managing state, and issuing enforcement
// actions against the messaging backend.
//
// TODO: careful when initializing: several fields should not be null or zero, even though they are pointer type.
type Engine struct {
	Logger  *slog.Logger
	Actions onebot.ActionAPI
	Config  *config.Store
	Rules   RuleSet
	Spam    spamstore.SpamStore
	Recalls recallstore.RecallStore
	QA      *qa.Matcher
	// KickDelay overrides DefaultKickDelay when non-zero (tests).
	KickDelay time.Duration
}

// ProcessMessage runs one inbound group message through the ordered rule
// pipeline and applies the resulting enforcement effects.
func (eng *Engine) ProcessMessage(ctx context.Context, evt *onebot.MessageEvent) error {
	eventProcessCount.WithLabelValues("message").Inc()
	start := time.Now()
	defer func() {
		eventProcessDuration.WithLabelValues("message").Observe(time.Since(start).Seconds())
	}()
	// similar to an HTTP server, we want to recover any panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("message rule execution exception", "err", r, "group", evt.GroupID, "user", evt.UserID)
		}
	}()

	eng.cacheForAntiRecall(ctx, evt)

	c := NewMessageContext(ctx, eng, *evt)
	if err := eng.Rules.CallMessageRules(&c); err != nil {
		eventErrorCount.WithLabelValues("message").Inc()
		return err
	}
	if c.Err != nil {
		eng.Logger.Warn("message rule execution problem", "err", c.Err, "group", evt.GroupID, "user", evt.UserID)
	}
	eng.CanonicalLogLineMessage(&c)
	if err := eng.applyEffects(&c.BaseContext, evt.GroupID, evt.UserID, evt.MessageID); err != nil {
		eventErrorCount.WithLabelValues("message").Inc()
		return err
	}
	return nil
}

// Messages are cached at send time so their content survives a later recall.
// Only groups with anti-recall enabled (group-level or global) pay the cost.
func (eng *Engine) cacheForAntiRecall(ctx context.Context, evt *onebot.MessageEvent) {
	groupMode, globalMode := eng.Config.AntiRecallMode(evt.GroupID)
	if !groupMode && !globalMode {
		return
	}
	err := eng.Recalls.Record(ctx, evt.MessageID, recallstore.Entry{
		UserID:  evt.UserID,
		GroupID: evt.GroupID,
		Raw:     evt.Raw,
		Time:    time.Now(),
	})
	if err != nil {
		eng.Logger.Error("caching message for anti-recall failed", "err", err, "msg", evt.MessageID)
	}
}

// ProcessRecall consumes the cache entry for a withdrawn message and, when
// one exists, reposts the content to the group (group mode) and/or reports
// it to every configured owner (global mode). An absent entry means the
// recall is silently ignored: there is nothing to report.
func (eng *Engine) ProcessRecall(ctx context.Context, evt *onebot.RecallEvent) error {
	eventProcessCount.WithLabelValues("recall").Inc()

	groupMode, globalMode := eng.Config.AntiRecallMode(evt.GroupID)
	if !groupMode && !globalMode {
		return nil
	}
	entry, err := eng.Recalls.Consume(ctx, evt.MessageID)
	if err != nil {
		eventErrorCount.WithLabelValues("recall").Inc()
		return fmt.Errorf("consuming recall cache: %w", err)
	}
	if entry == nil {
		return nil
	}

	if groupMode {
		text := fmt.Sprintf("🔔 防撤回 - 用户 %s 撤回了消息：\n%s", evt.UserID, entry.Raw)
		if err := eng.Actions.SendGroupMessage(ctx, evt.GroupID, []onebot.Segment{onebot.Text(text)}); err != nil {
			eventErrorCount.WithLabelValues("recall").Inc()
			return err
		}
		actionCount.WithLabelValues("group_msg").Inc()
	}

	if globalMode {
		report := fmt.Sprintf("🔔 防撤回通知\n群号：%s\nQQ号：%s\n时间：%s\n撤回内容：%s",
			evt.GroupID, evt.UserID, time.Now().Format("2006-01-02 15:04:05"), entry.Raw)
		for _, owner := range eng.Config.Owners() {
			if err := eng.Actions.SendPrivateMessage(ctx, owner, []onebot.Segment{onebot.Text(report)}); err != nil {
				eventErrorCount.WithLabelValues("recall").Inc()
				return err
			}
			actionCount.WithLabelValues("private_msg").Inc()
		}
	}
	return nil
}

// ProcessMemberJoin runs member-join rules (welcome message).
func (eng *Engine) ProcessMemberJoin(ctx context.Context, evt *onebot.MemberJoinEvent) error {
	eventProcessCount.WithLabelValues("join").Inc()
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("join rule execution exception", "err", r, "group", evt.GroupID, "user", evt.UserID)
		}
	}()

	c := NewMemberContext(ctx, eng, evt.GroupID, evt.UserID)
	if err := eng.Rules.CallJoinRules(&c); err != nil {
		eventErrorCount.WithLabelValues("join").Inc()
		return err
	}
	return eng.applyEffects(&c.BaseContext, evt.GroupID, evt.UserID, "")
}

// ProcessMemberCard runs card-change rules (card-lock reconciliation).
func (eng *Engine) ProcessMemberCard(ctx context.Context, evt *onebot.MemberCardEvent) error {
	eventProcessCount.WithLabelValues("card").Inc()
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("card rule execution exception", "err", r, "group", evt.GroupID, "user", evt.UserID)
		}
	}()

	c := NewMemberContext(ctx, eng, evt.GroupID, evt.UserID)
	c.ObservedCard = evt.NewCard
	if err := eng.Rules.CallCardRules(&c); err != nil {
		eventErrorCount.WithLabelValues("card").Inc()
		return err
	}
	if c.Err != nil {
		eng.Logger.Warn("card rule execution problem", "err", c.Err, "group", evt.GroupID, "user", evt.UserID)
	}
	return eng.applyEffects(&c.BaseContext, evt.GroupID, evt.UserID, "")
}

func (eng *Engine) CanonicalLogLineMessage(c *MessageContext) {
	c.Logger.Info("message-event-processed",
		"handled", c.effects.Handled,
		"delete", c.effects.DeleteMessage,
		"mute", c.effects.MuteSender,
		"kick", c.effects.KickSender || c.effects.DeferredKick,
		"blacklist", c.effects.BlacklistSender,
		"replies", len(c.effects.Messages),
	)
}
