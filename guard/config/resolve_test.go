package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }
func strp(s string) *string {
	return &s
}

func TestEffectiveSettingsDefaults(t *testing.T) {
	assert := assert.New(t)

	s := NewMemStore(NewConfig(), slog.Default())
	r := s.EffectiveSettings("10001")

	assert.Equal(ScopeGlobal, r.Scope)
	assert.Empty(r.TargetUsers)
	assert.Empty(r.FilterKeywords)
	assert.Equal(DefaultFilterPunishLevel, r.FilterPunishLevel)
	assert.Equal(time.Duration(DefaultFilterBanMinutes)*time.Minute, r.FilterBan)
	assert.False(r.SpamDetect)
	assert.Equal(time.Duration(DefaultSpamWindowSec)*time.Second, r.SpamWindow)
	assert.Equal(DefaultSpamThreshold, r.SpamThreshold)
	assert.Equal(time.Duration(DefaultSpamBanMinutes)*time.Minute, r.SpamBan)
	assert.Nil(r.MsgFilter)
	assert.Empty(r.WelcomeMessage)
}

func TestEffectiveScope(t *testing.T) {
	assert := assert.New(t)

	cfg := NewConfig()
	cfg.Groups["g1"] = &GroupSettings{}
	cfg.Groups["g2"] = &GroupSettings{UseGlobal: true}
	s := NewMemStore(cfg, slog.Default())

	assert.Equal(ScopeGroup, s.EffectiveScope("g1"))
	assert.Equal(ScopeGlobal, s.EffectiveScope("g2"))
	assert.Equal(ScopeGlobal, s.EffectiveScope("g3"))
}

func TestScopedLists(t *testing.T) {
	assert := assert.New(t)

	cfg := NewConfig()
	cfg.Global.TargetUsers = []string{"111111"}
	cfg.QAList = []QAEntry{{Keyword: "hello", Reply: "world", Mode: QAModeExact}}
	cfg.Groups["g1"] = &GroupSettings{
		TargetUsers: []string{"222222"},
		QAList:      []QAEntry{{Keyword: "ping", Reply: "pong", Mode: QAModeExact}},
	}
	cfg.Groups["g2"] = &GroupSettings{
		UseGlobal:   true,
		TargetUsers: []string{"333333"},
	}
	s := NewMemStore(cfg, slog.Default())

	// group-custom scope reads the group's own lists exclusively
	r1 := s.EffectiveSettings("g1")
	assert.Equal(ScopeGroup, r1.Scope)
	assert.Equal([]string{"222222"}, r1.TargetUsers)
	assert.Equal("ping", r1.QAList[0].Keyword)

	// useGlobal defers to the global lists despite the override existing
	r2 := s.EffectiveSettings("g2")
	assert.Equal(ScopeGlobal, r2.Scope)
	assert.Equal([]string{"111111"}, r2.TargetUsers)
	assert.Equal("hello", r2.QAList[0].Keyword)

	// no override at all
	r3 := s.EffectiveSettings("g3")
	assert.Equal([]string{"111111"}, r3.TargetUsers)
}

func TestGroupKeywordListExclusive(t *testing.T) {
	assert := assert.New(t)

	cfg := NewConfig()
	cfg.FilterKeywords = []string{"globalword"}
	cfg.Global.FilterPunishLevel = intp(2)
	cfg.Global.FilterBanMinutes = intp(30)
	cfg.Groups["g1"] = &GroupSettings{
		FilterKeywords:    []string{"groupword"},
		FilterPunishLevel: intp(3),
	}
	s := NewMemStore(cfg, slog.Default())

	// group list present: its keywords, level, and ban minutes apply; the
	// unset group ban minutes falls back to the built-in default, not the
	// global value
	r1 := s.EffectiveSettings("g1")
	assert.Equal([]string{"groupword"}, r1.FilterKeywords)
	assert.True(r1.GroupKeywords)
	assert.Equal(3, r1.FilterPunishLevel)
	assert.Equal(time.Duration(DefaultFilterBanMinutes)*time.Minute, r1.FilterBan)

	// no group list: global keywords and knobs
	r2 := s.EffectiveSettings("g2")
	assert.Equal([]string{"globalword"}, r2.FilterKeywords)
	assert.False(r2.GroupKeywords)
	assert.Equal(2, r2.FilterPunishLevel)
	assert.Equal(30*time.Minute, r2.FilterBan)
}

func TestSpamSettingChain(t *testing.T) {
	assert := assert.New(t)

	cfg := NewConfig()
	cfg.Global.SpamDetect = boolp(true)
	cfg.Global.SpamThreshold = intp(20)
	cfg.Groups["g1"] = &GroupSettings{
		SpamWindowSec: intp(5),
	}
	cfg.Groups["g2"] = &GroupSettings{
		SpamDetect: boolp(false),
	}
	s := NewMemStore(cfg, slog.Default())

	r1 := s.EffectiveSettings("g1")
	assert.True(r1.SpamDetect)
	assert.Equal(5*time.Second, r1.SpamWindow)
	assert.Equal(20, r1.SpamThreshold)
	assert.Equal(time.Duration(DefaultSpamBanMinutes)*time.Minute, r1.SpamBan)

	// explicit group false wins over global true
	r2 := s.EffectiveSettings("g2")
	assert.False(r2.SpamDetect)
}

func TestZeroValuesFallBack(t *testing.T) {
	assert := assert.New(t)

	cfg := NewConfig()
	cfg.Groups["g1"] = &GroupSettings{
		SpamWindowSec:     intp(0),
		SpamThreshold:     intp(0),
		FilterKeywords:    []string{"x"},
		FilterPunishLevel: intp(0),
	}
	s := NewMemStore(cfg, slog.Default())

	r := s.EffectiveSettings("g1")
	assert.Equal(time.Duration(DefaultSpamWindowSec)*time.Second, r.SpamWindow)
	assert.Equal(DefaultSpamThreshold, r.SpamThreshold)
	assert.Equal(DefaultFilterPunishLevel, r.FilterPunishLevel)
}

func TestWelcomeMessageFallback(t *testing.T) {
	assert := assert.New(t)

	cfg := NewConfig()
	cfg.Global.WelcomeMessage = strp("welcome {user}")
	cfg.Groups["g1"] = &GroupSettings{WelcomeMessage: strp("hi {user}")}
	cfg.Groups["g2"] = &GroupSettings{WelcomeMessage: strp("")}
	s := NewMemStore(cfg, slog.Default())

	assert.Equal("hi {user}", s.EffectiveSettings("g1").WelcomeMessage)
	// empty group template falls through to global
	assert.Equal("welcome {user}", s.EffectiveSettings("g2").WelcomeMessage)
	assert.Equal("welcome {user}", s.EffectiveSettings("g3").WelcomeMessage)
}

func TestMsgFilterOverride(t *testing.T) {
	assert := assert.New(t)

	cfg := NewConfig()
	cfg.Global.MsgFilter = &MsgFilter{BlockURL: true}
	cfg.Groups["g1"] = &GroupSettings{MsgFilter: &MsgFilter{BlockImage: true}}
	s := NewMemStore(cfg, slog.Default())

	r1 := s.EffectiveSettings("g1")
	assert.True(r1.MsgFilter.BlockImage)
	assert.False(r1.MsgFilter.BlockURL)

	r2 := s.EffectiveSettings("g2")
	assert.True(r2.MsgFilter.BlockURL)
}

func TestAntiRecallMode(t *testing.T) {
	assert := assert.New(t)

	cfg := NewConfig()
	cfg.AntiRecallGroups = []string{"g1"}
	cfg.GlobalAntiRecall = true
	s := NewMemStore(cfg, slog.Default())

	group, global := s.AntiRecallMode("g1")
	assert.True(group)
	assert.True(global)

	group, global = s.AntiRecallMode("g2")
	assert.False(group)
	assert.True(global)
}
