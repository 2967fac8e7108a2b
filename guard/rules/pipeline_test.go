package rules

import (
	"context"
	"testing"
	"time"

	"github.com/lengxi-root/groupguard/guard/config"
	"github.com/lengxi-root/groupguard/guard/engine"
	"github.com/lengxi-root/groupguard/onebot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelineFixture() engine.Engine {
	eng := engine.EngineTestFixture()
	eng.Rules = DefaultRules()
	return eng
}

func TestPipelineKeywordLevel2(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := pipelineFixture()
	eng.Config.Mutate(func(c *config.Config) {
		c.FilterKeywords = []string{"badword"}
		c.Global.FilterPunishLevel = intp(2)
		c.Global.FilterBanMinutes = intp(15)
	})

	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "a badword message"}
	assert.NoError(eng.ProcessMessage(ctx, &evt))

	rec := eng.Recorder()
	assert.Len(rec.ByKind("delete"), 1)
	mutes := rec.ByKind("mute")
	require.Len(t, mutes, 1)
	assert.Equal(15*time.Minute, mutes[0].Duration)
	assert.Len(rec.ByKind("group_msg"), 1)
	assert.Empty(rec.ByKind("kick"))
	assert.False(eng.Config.IsBlacklisted("u1"))
}

func TestPipelineKeywordLevel3DeferredKick(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := pipelineFixture()
	eng.Config.Mutate(func(c *config.Config) {
		c.FilterKeywords = []string{"badword"}
		c.Global.FilterPunishLevel = intp(3)
	})

	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "a badword message"}
	assert.NoError(eng.ProcessMessage(ctx, &evt))

	rec := eng.Recorder()
	assert.Len(rec.ByKind("delete"), 1)
	assert.Len(rec.ByKind("mute"), 1)
	// the kick fires after the configured delay, not synchronously
	assert.Eventually(func() bool {
		return len(rec.ByKind("kick")) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPipelineBlacklistPreemptsKeywordFilter(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := pipelineFixture()
	eng.Config.Mutate(func(c *config.Config) {
		c.Blacklist = []string{"u1"}
		c.FilterKeywords = []string{"badword"}
		c.Global.FilterPunishLevel = intp(2)
	})

	// blacklisted sender saying a filtered word: the blacklist rule wins,
	// so there is a kick but never a mute
	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "a badword message"}
	assert.NoError(eng.ProcessMessage(ctx, &evt))

	rec := eng.Recorder()
	assert.Len(rec.ByKind("delete"), 1)
	assert.Len(rec.ByKind("kick"), 1)
	assert.Empty(rec.ByKind("mute"))
	assert.Empty(rec.ByKind("group_msg"))
}

func TestPipelinePostRulesRunAfterShortCircuit(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := pipelineFixture()
	eng.Config.Mutate(func(c *config.Config) {
		c.Blacklist = []string{"u1"}
		c.CardLocks[config.CardLockKey("g1", "u1")] = "pinned"
	})

	// blacklist consumes the event, card-lock reconciliation still runs
	evt := onebot.MessageEvent{
		MessageID: "m1", GroupID: "g1", UserID: "u1",
		Raw: "hi", SenderCard: "renamed",
	}
	assert.NoError(eng.ProcessMessage(ctx, &evt))

	rec := eng.Recorder()
	assert.Len(rec.ByKind("kick"), 1)
	cards := rec.ByKind("set_card")
	require.Len(t, cards, 1)
	assert.Equal("pinned", cards[0].Text)
}

func TestPipelineMemberJoinWelcome(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := pipelineFixture()
	eng.Config.Mutate(func(c *config.Config) {
		c.Global.WelcomeMessage = strp("hello {user}")
	})

	evt := onebot.MemberJoinEvent{GroupID: "g1", UserID: "424242"}
	assert.NoError(eng.ProcessMemberJoin(ctx, &evt))

	msgs := eng.Recorder().ByKind("group_msg")
	require.Len(t, msgs, 1)
	assert.Equal("at", msgs[0].Content[0].Type)
}

func TestPipelineMemberCardEvent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := pipelineFixture()
	eng.Config.Mutate(func(c *config.Config) {
		c.CardLocks[config.CardLockKey("g1", "u1")] = "pinned"
	})
	eng.Recorder().SetMember("g1", onebot.MemberInfo{UserID: "u1", Card: "renamed"})

	evt := onebot.MemberCardEvent{GroupID: "g1", UserID: "u1", NewCard: "renamed", OldCard: "pinned"}
	assert.NoError(eng.ProcessMemberCard(ctx, &evt))

	cards := eng.Recorder().ByKind("set_card")
	require.Len(t, cards, 1)
	assert.Equal("pinned", cards[0].Text)
}
