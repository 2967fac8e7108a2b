package commands

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lengxi-root/groupguard/onebot"
)

var (
	idRegex     = regexp.MustCompile(`\d{5,12}`)
	longIDRegex = regexp.MustCompile(`\d{5,}`)
	intRegex    = regexp.MustCompile(`\d+`)
)

// extractTarget resolves the user a command acts on: an at-mention anywhere
// in the raw message wins, otherwise the first bare 5-12 digit run in the
// text after the command word. Empty string means no target.
func extractTarget(raw, rest string) string {
	if id := onebot.ExtractAt(raw); id != "" {
		return id
	}
	return idRegex.FindString(rest)
}

// parseMuteMinutes pulls the duration argument out of a mute command's text:
// the target id (a 5+ digit run) is dropped first so it is not read as
// minutes, then the first remaining integer is the duration. Defaults to 10.
func parseMuteMinutes(rest string) int {
	rest = stripFirst(longIDRegex, rest)
	m := intRegex.FindString(rest)
	if m == "" {
		return defaultMuteMinutes
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return defaultMuteMinutes
	}
	return n
}

// stripFirst removes only the first match of re, leaving later runs intact.
func stripFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

// splitQA splits "keyword|reply" on the first pipe. Both sides must be
// non-empty after trimming.
func splitQA(rest string) (keyword, reply string, ok bool) {
	sep := strings.Index(rest, "|")
	if sep < 1 {
		return "", "", false
	}
	keyword = strings.TrimSpace(rest[:sep])
	reply = strings.TrimSpace(rest[sep+1:])
	if keyword == "" || reply == "" {
		return "", "", false
	}
	return keyword, reply, true
}
