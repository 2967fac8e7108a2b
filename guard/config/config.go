package config

import "strings"

// QA entry matching modes.
type QAMode string

const (
	QAModeExact    QAMode = "exact"
	QAModeContains QAMode = "contains"
	QAModeRegex    QAMode = "regex"
)

// A single keyword Q&A entry. Within one effective list the first matching
// entry wins; an empty keyword is never valid.
type QAEntry struct {
	Keyword string `json:"keyword"`
	Reply   string `json:"reply"`
	Mode    QAMode `json:"mode"`
}

// Per-type message blocking flags.
type MsgFilter struct {
	BlockVideo    bool `json:"blockVideo,omitempty"`
	BlockImage    bool `json:"blockImage,omitempty"`
	BlockVoice    bool `json:"blockRecord,omitempty"`
	BlockForward  bool `json:"blockForward,omitempty"`
	BlockLightApp bool `json:"blockLightApp,omitempty"`
	BlockContact  bool `json:"blockContact,omitempty"`
	BlockURL      bool `json:"blockUrl,omitempty"`
}

// GroupSettings is one group's override block (or, as Config.Global, the
// process-wide defaults). Pointer fields distinguish "unset, inherit the
// global value" from an explicit zero.
type GroupSettings struct {
	// UseGlobal, when set on a per-group entry, makes the group defer
	// entirely to global list-valued settings (Q&A, targeting, blacklist
	// edits) despite the override entry existing.
	UseGlobal bool `json:"useGlobal,omitempty"`

	TargetUsers    []string `json:"targetUsers,omitempty"`
	GroupBlacklist []string `json:"groupBlacklist,omitempty"`

	FilterKeywords    []string `json:"filterKeywords,omitempty"`
	FilterPunishLevel *int     `json:"filterPunishLevel,omitempty"`
	FilterBanMinutes  *int     `json:"filterBanMinutes,omitempty"`

	SpamDetect     *bool `json:"spamDetect,omitempty"`
	SpamWindowSec  *int  `json:"spamWindow,omitempty"`
	SpamThreshold  *int  `json:"spamThreshold,omitempty"`
	SpamBanMinutes *int  `json:"spamBanMinutes,omitempty"`

	MsgFilter      *MsgFilter `json:"msgFilter,omitempty"`
	WelcomeMessage *string    `json:"welcomeMessage,omitempty"`
	QAList         []QAEntry  `json:"qaList,omitempty"`
}

// Config is the single owner of all persisted state. Loaded once at startup,
// mutated by admin commands, written back in full on every mutation.
type Config struct {
	Global GroupSettings             `json:"global"`
	Groups map[string]*GroupSettings `json:"groups"`

	Blacklist      []string `json:"blacklist"`
	Whitelist      []string `json:"whitelist"`
	FilterKeywords []string `json:"filterKeywords"`

	AntiRecallGroups []string `json:"antiRecallGroups"`
	GlobalAntiRecall bool     `json:"globalAntiRecall"`

	GlobalEmojiReact bool                `json:"globalEmojiReact"`
	EmojiReactGroups map[string][]string `json:"emojiReactGroups"`

	// Keyed "group:user", value is the pinned display card. An empty string
	// is a valid lock target; absence of the key means no lock.
	CardLocks map[string]string `json:"cardLocks"`

	QAList []QAEntry `json:"qaList"`

	// Comma-separated owner identifiers, the system's root principals.
	OwnerQQs string `json:"ownerQQs"`
}

func NewConfig() *Config {
	return &Config{
		Groups:           make(map[string]*GroupSettings),
		EmojiReactGroups: make(map[string][]string),
		CardLocks:        make(map[string]string),
	}
}

// Owners splits OwnerQQs into individual identifiers.
func (c *Config) Owners() []string {
	var out []string
	for _, s := range strings.Split(c.OwnerQQs, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CardLockKey builds the composite key used by Config.CardLocks.
func CardLockKey(groupID, userID string) string {
	return groupID + ":" + userID
}

func Contains(l []string, v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// AppendUnique adds v if not already present, reporting whether the list
// changed.
func AppendUnique(l []string, v string) ([]string, bool) {
	if Contains(l, v) {
		return l, false
	}
	return append(l, v), true
}

// RemoveString drops all occurrences of v, reporting whether anything was
// removed.
func RemoveString(l []string, v string) ([]string, bool) {
	out := l[:0]
	removed := false
	for _, s := range l {
		if s == v {
			removed = true
			continue
		}
		out = append(out, s)
	}
	return out, removed
}
