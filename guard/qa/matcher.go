// Ordered keyword Q&A matching against configured entries. First matching
// entry wins; regex keywords come from admin input, so compilation failures
// are treated as non-matches rather than faults.
package qa

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lengxi-root/groupguard/guard/config"
)

// Matcher caches compiled regex patterns so entries aren't recompiled on
// every message. A nil cached value marks a pattern that failed to compile.
type Matcher struct {
	patterns *lru.Cache[string, *regexp.Regexp]
}

func NewMatcher() *Matcher {
	cache, err := lru.New[string, *regexp.Regexp](256)
	if err != nil {
		// only possible with a non-positive size
		panic(err)
	}
	return &Matcher{patterns: cache}
}

// Match scans entries in list order against text (which callers should have
// stripped of inline markup) and returns the first matching entry's reply
// template.
func (m *Matcher) Match(entries []config.QAEntry, text string) (string, bool) {
	for _, e := range entries {
		if e.Keyword == "" {
			continue
		}
		var matched bool
		switch e.Mode {
		case config.QAModeExact:
			matched = text == e.Keyword
		case config.QAModeContains:
			matched = strings.Contains(text, e.Keyword)
		case config.QAModeRegex:
			matched = m.matchRegex(e.Keyword, text)
		}
		if matched {
			return e.Reply, true
		}
	}
	return "", false
}

func (m *Matcher) matchRegex(pattern, text string) bool {
	re, ok := m.patterns.Get(pattern)
	if !ok {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			compiled = nil
		}
		m.patterns.Add(pattern, compiled)
		re = compiled
	}
	if re == nil {
		return false
	}
	return re.MatchString(text)
}

// Render substitutes the {user} and {group} placeholders in a reply or
// welcome template with the literal sender and group identifiers.
func Render(tpl, userID, groupID string) string {
	out := strings.ReplaceAll(tpl, "{user}", userID)
	return strings.ReplaceAll(out, "{group}", groupID)
}

// ValidatePattern reports whether a regex-mode keyword compiles, for command
// feedback at configuration time.
func ValidatePattern(pattern string) error {
	_, err := regexp.Compile(pattern)
	return err
}
