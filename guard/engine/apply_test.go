package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lengxi-root/groupguard/onebot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEffectsOrder(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "x"}
	c := NewMessageContext(ctx, &eng, evt)

	c.DeleteMessage()
	c.MuteSender(10 * time.Minute)
	c.Notify("warned")
	c.KickSender()

	assert.NoError(eng.applyEffects(&c.BaseContext, "g1", "u1", "m1"))

	kinds := []string{}
	for _, a := range eng.Recorder().Actions() {
		kinds = append(kinds, a.Kind)
	}
	assert.Equal([]string{"delete", "mute", "group_msg", "kick"}, kinds)

	mutes := eng.Recorder().ByKind("mute")
	require.Len(t, mutes, 1)
	assert.Equal(10*time.Minute, mutes[0].Duration)
}

func TestApplyEffectsDeferredKick(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "x"}
	c := NewMessageContext(ctx, &eng, evt)
	c.KickSenderDelayed()

	assert.NoError(eng.applyEffects(&c.BaseContext, "g1", "u1", "m1"))

	// nothing is issued synchronously
	eff := ExtractEffects(&c.BaseContext)
	require.NotNil(t, eff.KickDone)
	<-eff.KickDone

	kicks := eng.Recorder().ByKind("kick")
	require.Len(t, kicks, 1)
	assert.Equal("u1", kicks[0].UserID)
}

func TestApplyEffectsBlacklistPersists(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "x"}
	c := NewMessageContext(ctx, &eng, evt)
	c.BlacklistSender()

	assert.NoError(eng.applyEffects(&c.BaseContext, "g1", "u1", "m1"))
	assert.True(eng.Config.IsBlacklisted("u1"))

	// idempotent on repeat
	c2 := NewMessageContext(ctx, &eng, evt)
	c2.BlacklistSender()
	assert.NoError(eng.applyEffects(&c2.BaseContext, "g1", "u1", "m1"))
	assert.True(eng.Config.IsBlacklisted("u1"))
}

func TestApplyEffectsActionFailure(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Recorder().Err = errors.New("backend down")

	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "x"}
	c := NewMessageContext(ctx, &eng, evt)
	c.DeleteMessage()
	c.MuteSender(time.Minute)

	err := eng.applyEffects(&c.BaseContext, "g1", "u1", "m1")
	assert.Error(err)
	assert.Empty(eng.Recorder().Actions())
}

func TestApplyEffectsSkipsWithoutMessageID(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	c := NewMemberContext(ctx, &eng, "g1", "u1")
	c.effects.DeleteMessage = true
	c.effects.React = "76"
	c.RestoreCard("pinned")

	// member events carry no message: delete and react are dropped, the
	// card restore still lands
	assert.NoError(eng.applyEffects(&c.BaseContext, "g1", "u1", ""))
	kinds := []string{}
	for _, a := range eng.Recorder().Actions() {
		kinds = append(kinds, a.Kind)
	}
	assert.Equal([]string{"set_card"}, kinds)
}
