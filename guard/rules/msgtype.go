package rules

import (
	"regexp"
	"strings"

	"github.com/lengxi-root/groupguard/guard/engine"
	"github.com/lengxi-root/groupguard/onebot"
)

var urlRegex = regexp.MustCompile(`(?i)https?://`)

var _ engine.MessageRuleFunc = MsgTypeFilterRule

// Deletes messages carrying a blocked content type. Conditions are checked
// in a fixed priority order and only the first match fires, so exactly one
// reason is ever reported even when several types are blocked.
func MsgTypeFilterRule(c *engine.MessageContext) error {
	if c.SenderExempt {
		return nil
	}
	filter := c.Settings.MsgFilter
	if filter == nil {
		return nil
	}

	evt := &c.Message
	reason := ""
	switch {
	case filter.BlockVideo && onebot.HasSegment(evt.Segments, onebot.SegmentVideo):
		reason = "视频"
	case filter.BlockImage && onebot.HasSegment(evt.Segments, onebot.SegmentImage):
		reason = "图片"
	case filter.BlockVoice && onebot.HasSegment(evt.Segments, onebot.SegmentRecord):
		reason = "语音"
	case filter.BlockForward && onebot.HasSegment(evt.Segments, onebot.SegmentForward):
		reason = "合并转发"
	case filter.BlockLightApp && strings.Contains(evt.Raw, "[CQ:json,"):
		reason = "小程序卡片"
	case filter.BlockContact && (strings.Contains(evt.Raw, `"app":"com.tencent.contact.lua"`) ||
		strings.Contains(evt.Raw, `"app":"com.tencent.qq.checkin"`)):
		reason = "名片分享"
	case filter.BlockURL && urlRegex.MatchString(evt.Raw):
		reason = "链接"
	}
	if reason == "" {
		return nil
	}

	c.DeleteMessage()
	c.MarkHandled()
	c.Logger.Info("blocked message type removed", "reason", reason)
	return nil
}
