package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/lengxi-root/groupguard/guard/config"
	"github.com/lengxi-root/groupguard/onebot"

	"github.com/stretchr/testify/assert"
	testifyassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageText(a onebot.RecordedAction) string {
	var b strings.Builder
	for _, seg := range a.Content {
		if seg.Type == onebot.SegmentText {
			if s, ok := seg.Data["text"].(string); ok {
				b.WriteString(s)
			}
		}
	}
	return b.String()
}

func TestRecallGroupMode(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Config.Mutate(func(c *config.Config) {
		c.AntiRecallGroups = []string{"g1"}
	})

	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "secret text"}
	assert.NoError(eng.ProcessMessage(ctx, &evt))

	recall := onebot.RecallEvent{MessageID: "m1", GroupID: "g1", UserID: "u1"}
	assert.NoError(eng.ProcessRecall(ctx, &recall))

	msgs := eng.Recorder().ByKind("group_msg")
	require.Len(t, msgs, 1)
	assert.Contains(messageText(msgs[0]), "u1")
	assert.Contains(messageText(msgs[0]), "secret text")
	assert.Empty(eng.Recorder().ByKind("private_msg"))
}

func TestRecallGlobalMode(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Config.Mutate(func(c *config.Config) {
		c.GlobalAntiRecall = true
		c.OwnerQQs = "9000001,9000002"
	})

	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "secret text"}
	assert.NoError(eng.ProcessMessage(ctx, &evt))

	recall := onebot.RecallEvent{MessageID: "m1", GroupID: "g1", UserID: "u1"}
	assert.NoError(eng.ProcessRecall(ctx, &recall))

	// one private report per owner, nothing in the group
	reports := eng.Recorder().ByKind("private_msg")
	require.Len(t, reports, 2)
	assert.Equal("9000001", reports[0].UserID)
	assert.Equal("9000002", reports[1].UserID)
	assert.Contains(messageText(reports[0]), "群号：g1")
	assert.Contains(messageText(reports[0]), "QQ号：u1")
	assert.Contains(messageText(reports[0]), "secret text")
	assert.Empty(eng.Recorder().ByKind("group_msg"))
}

func TestRecallWithoutCachedMessage(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Config.Mutate(func(c *config.Config) {
		c.AntiRecallGroups = []string{"g1"}
	})

	// the recalled message was never seen (sent before startup)
	recall := onebot.RecallEvent{MessageID: "unknown", GroupID: "g1", UserID: "u1"}
	assert.NoError(eng.ProcessRecall(ctx, &recall))
	assert.Empty(eng.Recorder().Actions())
}

func TestRecallModeDisabled(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()

	// with anti-recall off nothing is cached, and recalls are ignored
	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "text"}
	assert.NoError(eng.ProcessMessage(ctx, &evt))

	recall := onebot.RecallEvent{MessageID: "m1", GroupID: "g1", UserID: "u1"}
	assert.NoError(eng.ProcessRecall(ctx, &recall))
	assert.Empty(eng.Recorder().Actions())
}

func TestProcessMessageRuleError(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Rules = RuleSet{
		MessageRules: []MessageRuleFunc{
			func(c *MessageContext) error { return testifyassert.AnError },
		},
	}

	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "x"}
	assert.Error(eng.ProcessMessage(ctx, &evt))
	assert.Empty(eng.Recorder().Actions())
}

func TestProcessMessagePanicRecovered(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Rules = RuleSet{
		MessageRules: []MessageRuleFunc{
			func(c *MessageContext) error { panic("rule bug") },
		},
	}

	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "x"}
	assert.NotPanics(func() {
		_ = eng.ProcessMessage(ctx, &evt)
	})
}

func TestShortCircuitSkipsLaterRulesButNotPostRules(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	var calls []string
	eng := EngineTestFixture()
	eng.Rules = RuleSet{
		MessageRules: []MessageRuleFunc{
			func(c *MessageContext) error {
				calls = append(calls, "first")
				c.MarkHandled()
				return nil
			},
			func(c *MessageContext) error {
				calls = append(calls, "second")
				return nil
			},
		},
		PostMessageRules: []MessageRuleFunc{
			func(c *MessageContext) error {
				calls = append(calls, "post")
				return nil
			},
		},
	}

	evt := onebot.MessageEvent{MessageID: "m1", GroupID: "g1", UserID: "u1", Raw: "x"}
	assert.NoError(eng.ProcessMessage(ctx, &evt))
	assert.Equal([]string{"first", "post"}, calls)
}
