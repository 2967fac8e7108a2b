package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/lengxi-root/groupguard/guard/config"
)

// Issues the accumulated effects against the action API, in a fixed order:
// delete, mute, notices/replies, immediate kick, deferred kick, blacklist
// persistence, reaction, card restore. The first failed action aborts the
// rest and propagates to the per-event caller.
func (eng *Engine) applyEffects(c *BaseContext, groupID, userID, messageID string) error {
	eff := c.effects

	if eff.DeleteMessage && messageID != "" {
		if err := eng.Actions.DeleteMessage(c.Ctx, messageID); err != nil {
			return fmt.Errorf("deleting message: %w", err)
		}
		actionCount.WithLabelValues("delete").Inc()
	}
	if eff.MuteSender > 0 {
		if err := eng.Actions.Mute(c.Ctx, groupID, userID, eff.MuteSender); err != nil {
			return fmt.Errorf("muting sender: %w", err)
		}
		actionCount.WithLabelValues("mute").Inc()
	}
	for _, content := range eff.Messages {
		if err := eng.Actions.SendGroupMessage(c.Ctx, groupID, content); err != nil {
			return fmt.Errorf("sending group message: %w", err)
		}
		actionCount.WithLabelValues("group_msg").Inc()
	}
	if eff.KickSender {
		if err := eng.Actions.Kick(c.Ctx, groupID, userID); err != nil {
			return fmt.Errorf("kicking sender: %w", err)
		}
		actionCount.WithLabelValues("kick").Inc()
	}
	if eff.DeferredKick {
		eff.KickDone = eng.scheduleKick(groupID, userID)
	}
	if eff.BlacklistSender {
		eng.Config.Mutate(func(cfg *config.Config) {
			cfg.Blacklist, _ = config.AppendUnique(cfg.Blacklist, userID)
		})
		actionCount.WithLabelValues("blacklist").Inc()
	}
	if eff.React != "" && messageID != "" {
		if err := eng.Actions.ReactToMessage(c.Ctx, messageID, eff.React); err != nil {
			return fmt.Errorf("reacting to message: %w", err)
		}
		actionCount.WithLabelValues("react").Inc()
	}
	if eff.SetCard != nil {
		if err := eng.Actions.SetCard(c.Ctx, groupID, userID, *eff.SetCard); err != nil {
			return fmt.Errorf("restoring card: %w", err)
		}
		actionCount.WithLabelValues("set_card").Inc()
	}
	return nil
}

// scheduleKick fires the kick after the configured delay, detached from the
// triggering flow. The returned channel closes when the kick attempt has
// finished, whatever the outcome.
func (eng *Engine) scheduleKick(groupID, userID string) <-chan struct{} {
	delay := eng.KickDelay
	if delay == 0 {
		delay = DefaultKickDelay
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(delay)
		if err := eng.Actions.Kick(context.Background(), groupID, userID); err != nil {
			eng.Logger.Error("deferred kick failed", "err", err, "group", groupID, "user", userID)
			return
		}
		actionCount.WithLabelValues("kick").Inc()
	}()
	actionCount.WithLabelValues("kick_scheduled").Inc()
	return done
}
