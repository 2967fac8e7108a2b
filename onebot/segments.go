package onebot

import "regexp"

// Message segment types we care about. OneBot implementations emit more; the
// moderation rules only evaluate these.
const (
	SegmentText    = "text"
	SegmentAt      = "at"
	SegmentImage   = "image"
	SegmentVideo   = "video"
	SegmentRecord  = "record"
	SegmentForward = "forward"
	SegmentJSON    = "json"
	SegmentNode    = "node"
)

// A single OneBot v11 message segment. Data keys depend on the segment type.
type Segment struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func Text(s string) Segment {
	return Segment{Type: SegmentText, Data: map[string]any{"text": s}}
}

func At(userID string) Segment {
	return Segment{Type: SegmentAt, Data: map[string]any{"qq": userID}}
}

// Node builds a forward-message node, used for multi-part messages like the
// help menu.
func Node(nickname, userID string, content []Segment) Segment {
	return Segment{Type: SegmentNode, Data: map[string]any{
		"nickname": nickname,
		"user_id":  userID,
		"content":  content,
	}}
}

// HasSegment checks whether any segment of the message has the given type.
func HasSegment(segments []Segment, typ string) bool {
	for _, seg := range segments {
		if seg.Type == typ {
			return true
		}
	}
	return false
}

var cqCodeRegex = regexp.MustCompile(`\[CQ:[^\]]+\]`)
var cqAtRegex = regexp.MustCompile(`\[CQ:at,qq=(\d+)\]`)

// StripCQ removes all inline CQ codes from a raw message string, leaving only
// the plain text.
func StripCQ(raw string) string {
	return cqCodeRegex.ReplaceAllString(raw, "")
}

// ExtractAt returns the user ID of the first at-mention CQ code in the raw
// message, or empty string if there is none.
func ExtractAt(raw string) string {
	m := cqAtRegex.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}
