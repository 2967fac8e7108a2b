package config

import "time"

// Defaults applied when neither a group override nor a global value is set.
const (
	DefaultFilterPunishLevel = 1
	DefaultFilterBanMinutes  = 10
	DefaultSpamWindowSec     = 10
	DefaultSpamThreshold     = 10
	DefaultSpamBanMinutes    = 5
)

// Scope says which list a group's list-valued features (Q&A, targeting)
// read and write: the group's own lists, or the shared global ones.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeGroup
)

func (s Scope) String() string {
	if s == ScopeGroup {
		return "group-custom"
	}
	return "global"
}

// Resolved is a fully merged settings view for one group: every optional
// field has fallen back to the global value or the built-in default. Rules
// only ever see this type, which keeps the inheritance policy in one place.
type Resolved struct {
	Scope Scope

	TargetUsers    []string
	GroupBlacklist []string

	// FilterKeywords is the effective keyword list: the group's own list
	// exclusively when non-empty, otherwise the global list.
	// GroupKeywords records which one was chosen, since the punish level
	// and ban minutes follow the same source.
	FilterKeywords    []string
	GroupKeywords     bool
	FilterPunishLevel int
	FilterBan         time.Duration

	SpamDetect    bool
	SpamWindow    time.Duration
	SpamThreshold int
	SpamBan       time.Duration

	MsgFilter      *MsgFilter
	WelcomeMessage string
	QAList         []QAEntry
}

// EffectiveScope reports whether the group's list-valued features are
// group-custom: an override entry exists and its UseGlobal flag is not set.
func (s *Store) EffectiveScope(groupID string) Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return effectiveScope(s.cfg, groupID)
}

func effectiveScope(cfg *Config, groupID string) Scope {
	if g, ok := cfg.Groups[groupID]; ok && g != nil && !g.UseGlobal {
		return ScopeGroup
	}
	return ScopeGlobal
}

// EffectiveSettings merges the group's override block over the global
// settings and applies defaults.
func (s *Store) EffectiveSettings(groupID string) *Resolved {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := s.cfg
	g := cfg.Groups[groupID]
	if g == nil {
		g = &GroupSettings{}
	}
	scope := effectiveScope(cfg, groupID)

	r := &Resolved{Scope: scope}

	if scope == ScopeGroup {
		r.TargetUsers = append(r.TargetUsers, g.TargetUsers...)
		r.QAList = append(r.QAList, g.QAList...)
	} else {
		r.TargetUsers = append(r.TargetUsers, cfg.Global.TargetUsers...)
		r.QAList = append(r.QAList, cfg.QAList...)
	}
	r.GroupBlacklist = append(r.GroupBlacklist, g.GroupBlacklist...)

	// group keyword list is exclusive when present; level and ban minutes
	// follow whichever list is in effect
	if len(g.FilterKeywords) > 0 {
		r.FilterKeywords = append(r.FilterKeywords, g.FilterKeywords...)
		r.GroupKeywords = true
		r.FilterPunishLevel = intOr(g.FilterPunishLevel, DefaultFilterPunishLevel)
		r.FilterBan = time.Duration(intOr(g.FilterBanMinutes, DefaultFilterBanMinutes)) * time.Minute
	} else {
		r.FilterKeywords = append(r.FilterKeywords, cfg.FilterKeywords...)
		r.FilterPunishLevel = intOr(cfg.Global.FilterPunishLevel, DefaultFilterPunishLevel)
		r.FilterBan = time.Duration(intOr(cfg.Global.FilterBanMinutes, DefaultFilterBanMinutes)) * time.Minute
	}

	r.SpamDetect = boolOr(g.SpamDetect, boolOr(cfg.Global.SpamDetect, false))
	r.SpamWindow = time.Duration(intChain(g.SpamWindowSec, cfg.Global.SpamWindowSec, DefaultSpamWindowSec)) * time.Second
	r.SpamThreshold = intChain(g.SpamThreshold, cfg.Global.SpamThreshold, DefaultSpamThreshold)
	r.SpamBan = time.Duration(intChain(g.SpamBanMinutes, cfg.Global.SpamBanMinutes, DefaultSpamBanMinutes)) * time.Minute

	if g.MsgFilter != nil {
		f := *g.MsgFilter
		r.MsgFilter = &f
	} else if cfg.Global.MsgFilter != nil {
		f := *cfg.Global.MsgFilter
		r.MsgFilter = &f
	}

	if g.WelcomeMessage != nil && *g.WelcomeMessage != "" {
		r.WelcomeMessage = *g.WelcomeMessage
	} else if cfg.Global.WelcomeMessage != nil {
		r.WelcomeMessage = *cfg.Global.WelcomeMessage
	}

	return r
}

// AntiRecallMode reports the two anti-recall switches for a group: the
// group-level list membership and the global flag.
func (s *Store) AntiRecallMode(groupID string) (group bool, global bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Contains(s.cfg.AntiRecallGroups, groupID), s.cfg.GlobalAntiRecall
}

// EmojiReactTargets returns the group's react target list (nil when the
// group has no entry) and the global react flag.
func (s *Store) EmojiReactTargets(groupID string) (targets []string, global bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.cfg.EmojiReactGroups[groupID]
	if ok {
		targets = make([]string, 0, len(t))
		targets = append(targets, t...)
	}
	return targets, s.cfg.GlobalEmojiReact
}

// Explicit zero values fall back like unset ones; operators use zero to mean
// "use the default" for all of these.
func intOr(v *int, def int) int {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

func intChain(group, global *int, def int) int {
	if group != nil && *group != 0 {
		return *group
	}
	return intOr(global, def)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
