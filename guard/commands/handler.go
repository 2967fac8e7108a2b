package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lengxi-root/groupguard/guard/config"
	"github.com/lengxi-root/groupguard/onebot"
)

const defaultMuteMinutes = 10

// Permission denial texts. Commands never mutate anything after emitting one
// of these.
const (
	needAdmin      = "需要管理员权限"
	needOwner      = "需要主人权限"
	needGroupOwner = "需要群主权限"
)

// Handler implements the admin command surface. Commands are plain-text
// group messages matched by exact word or prefix; they bypass the rule
// pipeline entirely and mutate config directly, persisting on every change.
type Handler struct {
	Logger  *slog.Logger
	Actions onebot.ActionAPI
	Config  *config.Store
}

func NewHandler(logger *slog.Logger, actions onebot.ActionAPI, cfg *config.Store) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Logger: logger, Actions: actions, Config: cfg}
}

// Handle dispatches one inbound group message against the command table.
// The first return reports whether the message was a command (including a
// denied or malformed one); such messages never reach the rule pipeline.
func (h *Handler) Handle(ctx context.Context, evt onebot.MessageEvent) (bool, error) {
	if evt.GroupID == "" {
		return false, nil
	}
	text := strings.TrimSpace(onebot.StripCQ(evt.Raw))

	switch {
	case text == "群管帮助" || text == "群管菜单":
		return true, h.sendHelp(ctx, evt)

	case strings.HasPrefix(text, "踢出"):
		return true, h.kick(ctx, evt, rest(text, "踢出"))
	case strings.HasPrefix(text, "禁言") && !strings.HasPrefix(text, "禁言列表"):
		return true, h.mute(ctx, evt, rest(text, "禁言"))
	case strings.HasPrefix(text, "解禁"):
		return true, h.unmute(ctx, evt, rest(text, "解禁"))
	case text == "全体禁言":
		return true, h.wholeMute(ctx, evt, true)
	case text == "全体解禁":
		return true, h.wholeMute(ctx, evt, false)

	case strings.HasPrefix(text, "授予头衔"):
		return true, h.grantTitle(ctx, evt, rest(text, "授予头衔"))
	case strings.HasPrefix(text, "清除头衔"):
		return true, h.clearTitle(ctx, evt, rest(text, "清除头衔"))

	case strings.HasPrefix(text, "锁定名片"):
		return true, h.lockCard(ctx, evt, rest(text, "锁定名片"))
	case strings.HasPrefix(text, "解锁名片"):
		return true, h.unlockCard(ctx, evt, rest(text, "解锁名片"))
	case text == "名片锁定列表":
		return true, h.listCardLocks(ctx, evt)

	case text == "开启防撤回":
		return true, h.setAntiRecall(ctx, evt, true)
	case text == "关闭防撤回":
		return true, h.setAntiRecall(ctx, evt, false)
	case text == "防撤回列表":
		return true, h.listAntiRecall(ctx, evt)

	case text == "开启回应表情":
		return true, h.setEmojiReact(ctx, evt, true)
	case text == "关闭回应表情":
		return true, h.setEmojiReact(ctx, evt, false)

	case text == "针对列表":
		return true, h.listTargets(ctx, evt)
	case text == "清除针对":
		return true, h.clearTargets(ctx, evt)
	case strings.HasPrefix(text, "取消针对"):
		return true, h.untarget(ctx, evt, rest(text, "取消针对"))
	case strings.HasPrefix(text, "针对"):
		return true, h.target(ctx, evt, rest(text, "针对"))

	case text == "黑名单列表":
		return true, h.listBlacklist(ctx, evt)
	case strings.HasPrefix(text, "取消拉黑"):
		return true, h.unblacklist(ctx, evt, rest(text, "取消拉黑"))
	case text == "群黑名单列表":
		return true, h.listGroupBlacklist(ctx, evt)
	case strings.HasPrefix(text, "群取消拉黑"):
		return true, h.groupUnblacklist(ctx, evt, rest(text, "群取消拉黑"))
	case strings.HasPrefix(text, "群拉黑"):
		return true, h.groupBlacklist(ctx, evt, rest(text, "群拉黑"))
	case strings.HasPrefix(text, "拉黑"):
		return true, h.blacklist(ctx, evt, rest(text, "拉黑"))

	case text == "白名单列表":
		return true, h.listWhitelist(ctx, evt)
	case strings.HasPrefix(text, "取消白名单"):
		return true, h.unwhitelist(ctx, evt, rest(text, "取消白名单"))
	case strings.HasPrefix(text, "白名单"):
		return true, h.whitelist(ctx, evt, rest(text, "白名单"))

	case strings.HasPrefix(text, "添加违禁词"):
		return true, h.addKeyword(ctx, evt, rest(text, "添加违禁词"))
	case strings.HasPrefix(text, "删除违禁词"):
		return true, h.removeKeyword(ctx, evt, rest(text, "删除违禁词"))
	case text == "违禁词列表":
		return true, h.listKeywords(ctx, evt)

	case text == "问答列表":
		return true, h.listQA(ctx, evt)
	case strings.HasPrefix(text, "添加正则问答 "):
		return true, h.addQA(ctx, evt, rest(text, "添加正则问答"), config.QAModeRegex)
	case strings.HasPrefix(text, "添加模糊问答 "):
		return true, h.addQA(ctx, evt, rest(text, "添加模糊问答"), config.QAModeContains)
	case strings.HasPrefix(text, "添加问答 "):
		return true, h.addQA(ctx, evt, rest(text, "添加问答"), config.QAModeExact)
	case strings.HasPrefix(text, "删除问答 "):
		return true, h.removeQA(ctx, evt, rest(text, "删除问答"))
	}

	return false, nil
}

func rest(text, cmd string) string {
	return strings.TrimSpace(strings.TrimPrefix(text, cmd))
}

func orEmpty(s string) string {
	if s == "" {
		return "(空)"
	}
	return s
}

func (h *Handler) reply(ctx context.Context, groupID, text string) error {
	return h.Actions.SendGroupMessage(ctx, groupID, []onebot.Segment{onebot.Text(text)})
}

// isAdminOrOwner is the middle permission tier: configured owners pass
// outright, everyone else needs an admin or group-owner role fetched fresh
// from the host. A failed role lookup denies.
func (h *Handler) isAdminOrOwner(ctx context.Context, groupID, userID string) bool {
	if h.Config.IsOwner(userID) {
		return true
	}
	info, err := h.Actions.MemberInfo(ctx, groupID, userID)
	if err != nil {
		h.Logger.Warn("member role lookup failed", "group", groupID, "user", userID, "err", err)
		return false
	}
	return info.Role == onebot.RoleAdmin || info.Role == onebot.RoleOwner
}

// scopedSettings returns the block that list-valued edits (targeting) apply
// to: the group's override when it exists and is not deferring to global,
// otherwise the global block.
func scopedSettings(c *config.Config, groupID string) *config.GroupSettings {
	if g, ok := c.Groups[groupID]; ok && g != nil && !g.UseGlobal {
		return g
	}
	return &c.Global
}

// ===== help =====

func (h *Handler) sendHelp(ctx context.Context, evt onebot.MessageEvent) error {
	pages := []string{
		groupAdminMenu,
		targetMenu,
		blackWhiteMenu,
		filterMenu,
		antiRecallMenu,
		emojiReactMenu,
		qaMenu,
	}
	nodes := make([]onebot.Segment, 0, len(pages))
	for _, page := range pages {
		nodes = append(nodes, onebot.Node(menuNickname, evt.SelfID, []onebot.Segment{onebot.Text(page)}))
	}
	return h.Actions.SendForwardNodes(ctx, evt.GroupID, nodes)
}

// ===== moderation actions =====

func (h *Handler) kick(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标：踢出@某人 或 踢出QQ号")
	}
	if err := h.Actions.Kick(ctx, evt.GroupID, target); err != nil {
		return err
	}
	return h.reply(ctx, evt.GroupID, "已踢出 "+target)
}

func (h *Handler) mute(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标：禁言@某人 分钟 或 禁言QQ号 分钟")
	}
	minutes := parseMuteMinutes(rest)
	if err := h.Actions.Mute(ctx, evt.GroupID, target, time.Duration(minutes)*time.Minute); err != nil {
		return err
	}
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已禁言 %s，时长 %d 分钟", target, minutes))
}

func (h *Handler) unmute(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标：解禁@某人 或 解禁QQ号")
	}
	if err := h.Actions.Mute(ctx, evt.GroupID, target, 0); err != nil {
		return err
	}
	return h.reply(ctx, evt.GroupID, "已解禁 "+target)
}

func (h *Handler) wholeMute(ctx context.Context, evt onebot.MessageEvent, enable bool) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	if err := h.Actions.SetWholeGroupMute(ctx, evt.GroupID, enable); err != nil {
		return err
	}
	if enable {
		return h.reply(ctx, evt.GroupID, "已开启全体禁言")
	}
	return h.reply(ctx, evt.GroupID, "已关闭全体禁言")
}

func (h *Handler) grantTitle(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needGroupOwner)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标：授予头衔@某人 内容")
	}
	title := strings.TrimSpace(stripFirst(idRegex, rest))
	if err := h.Actions.SetSpecialTitle(ctx, evt.GroupID, target, title); err != nil {
		return err
	}
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已为 %s 设置头衔：%s", target, orEmpty(title)))
}

func (h *Handler) clearTitle(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needGroupOwner)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标")
	}
	if err := h.Actions.SetSpecialTitle(ctx, evt.GroupID, target, ""); err != nil {
		return err
	}
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已清除 %s 的头衔", target))
}

// ===== card locks =====

func (h *Handler) lockCard(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标")
	}
	info, err := h.Actions.MemberInfo(ctx, evt.GroupID, target)
	if err != nil {
		return err
	}
	card := info.DisplayName()
	h.Config.Mutate(func(c *config.Config) {
		c.CardLocks[config.CardLockKey(evt.GroupID, target)] = card
	})
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已锁定 %s 的名片为：%s", target, orEmpty(card)))
}

func (h *Handler) unlockCard(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标")
	}
	h.Config.Mutate(func(c *config.Config) {
		delete(c.CardLocks, config.CardLockKey(evt.GroupID, target))
	})
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已解锁 %s 的名片", target))
}

func (h *Handler) listCardLocks(ctx context.Context, evt onebot.MessageEvent) error {
	prefix := evt.GroupID + ":"
	var lines []string
	h.Config.Read(func(c *config.Config) {
		for k, v := range c.CardLocks {
			if strings.HasPrefix(k, prefix) {
				lines = append(lines, strings.TrimPrefix(k, prefix)+" → "+v)
			}
		}
	})
	if len(lines) == 0 {
		return h.reply(ctx, evt.GroupID, "当前群没有锁定的名片")
	}
	sort.Strings(lines)
	return h.reply(ctx, evt.GroupID, "名片锁定列表：\n"+strings.Join(lines, "\n"))
}

// ===== anti-recall =====

func (h *Handler) setAntiRecall(ctx context.Context, evt onebot.MessageEvent, enable bool) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	h.Config.Mutate(func(c *config.Config) {
		if enable {
			c.AntiRecallGroups, _ = config.AppendUnique(c.AntiRecallGroups, evt.GroupID)
		} else {
			c.AntiRecallGroups, _ = config.RemoveString(c.AntiRecallGroups, evt.GroupID)
		}
	})
	if enable {
		return h.reply(ctx, evt.GroupID, "已开启防撤回")
	}
	return h.reply(ctx, evt.GroupID, "已关闭防撤回")
}

func (h *Handler) listAntiRecall(ctx context.Context, evt onebot.MessageEvent) error {
	var groups []string
	h.Config.Read(func(c *config.Config) {
		groups = append(groups, c.AntiRecallGroups...)
	})
	if len(groups) == 0 {
		return h.reply(ctx, evt.GroupID, "没有开启防撤回的群")
	}
	return h.reply(ctx, evt.GroupID, "防撤回已开启的群：\n"+strings.Join(groups, "\n"))
}

// ===== emoji react =====

func (h *Handler) setEmojiReact(ctx context.Context, evt onebot.MessageEvent, enable bool) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	h.Config.Mutate(func(c *config.Config) {
		if enable {
			if _, ok := c.EmojiReactGroups[evt.GroupID]; !ok {
				c.EmojiReactGroups[evt.GroupID] = []string{}
			}
		} else {
			delete(c.EmojiReactGroups, evt.GroupID)
		}
	})
	if enable {
		return h.reply(ctx, evt.GroupID, "已开启回应表情")
	}
	return h.reply(ctx, evt.GroupID, "已关闭回应表情")
}

// ===== targeted auto-recall =====

func (h *Handler) target(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标：针对@某人 或 针对+QQ号")
	}
	h.Config.Mutate(func(c *config.Config) {
		gs := scopedSettings(c, evt.GroupID)
		gs.TargetUsers, _ = config.AppendUnique(gs.TargetUsers, target)
	})
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已针对 %s，其消息将被自动撤回", target))
}

func (h *Handler) untarget(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标")
	}
	h.Config.Mutate(func(c *config.Config) {
		gs := scopedSettings(c, evt.GroupID)
		gs.TargetUsers, _ = config.RemoveString(gs.TargetUsers, target)
	})
	return h.reply(ctx, evt.GroupID, "已取消针对 "+target)
}

func (h *Handler) listTargets(ctx context.Context, evt onebot.MessageEvent) error {
	targets := h.Config.EffectiveSettings(evt.GroupID).TargetUsers
	if len(targets) == 0 {
		return h.reply(ctx, evt.GroupID, "当前群没有针对的用户")
	}
	return h.reply(ctx, evt.GroupID, "当前群针对列表：\n"+strings.Join(targets, "\n"))
}

func (h *Handler) clearTargets(ctx context.Context, evt onebot.MessageEvent) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	h.Config.Mutate(func(c *config.Config) {
		scopedSettings(c, evt.GroupID).TargetUsers = nil
	})
	return h.reply(ctx, evt.GroupID, "已清除当前群所有针对")
}

// ===== global blacklist (owner tier) =====

func (h *Handler) blacklist(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.Config.IsOwner(evt.UserID) {
		return h.reply(ctx, evt.GroupID, needOwner)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标：拉黑@某人 或 拉黑QQ号")
	}
	h.Config.Mutate(func(c *config.Config) {
		c.Blacklist, _ = config.AppendUnique(c.Blacklist, target)
	})
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已将 %s 加入全局黑名单", target))
}

func (h *Handler) unblacklist(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.Config.IsOwner(evt.UserID) {
		return h.reply(ctx, evt.GroupID, needOwner)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标")
	}
	h.Config.Mutate(func(c *config.Config) {
		c.Blacklist, _ = config.RemoveString(c.Blacklist, target)
	})
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已将 %s 移出黑名单", target))
}

func (h *Handler) listBlacklist(ctx context.Context, evt onebot.MessageEvent) error {
	var list []string
	h.Config.Read(func(c *config.Config) {
		list = append(list, c.Blacklist...)
	})
	if len(list) == 0 {
		return h.reply(ctx, evt.GroupID, "黑名单为空")
	}
	return h.reply(ctx, evt.GroupID, "全局黑名单：\n"+strings.Join(list, "\n"))
}

// ===== per-group blacklist =====

func (h *Handler) groupBlacklist(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标：群拉黑@某人 或 群拉黑QQ号")
	}
	h.Config.Mutate(func(c *config.Config) {
		g := c.Groups[evt.GroupID]
		if g == nil {
			// the per-group blacklist lives on the override block; creating
			// one for it must not flip the group's list scope
			g = &config.GroupSettings{UseGlobal: true}
			c.Groups[evt.GroupID] = g
		}
		g.GroupBlacklist, _ = config.AppendUnique(g.GroupBlacklist, target)
	})
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已将 %s 加入本群黑名单", target))
}

func (h *Handler) groupUnblacklist(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标")
	}
	h.Config.Mutate(func(c *config.Config) {
		if g := c.Groups[evt.GroupID]; g != nil {
			g.GroupBlacklist, _ = config.RemoveString(g.GroupBlacklist, target)
		}
	})
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已将 %s 移出本群黑名单", target))
}

func (h *Handler) listGroupBlacklist(ctx context.Context, evt onebot.MessageEvent) error {
	list := h.Config.EffectiveSettings(evt.GroupID).GroupBlacklist
	if len(list) == 0 {
		return h.reply(ctx, evt.GroupID, "本群黑名单为空")
	}
	return h.reply(ctx, evt.GroupID, "本群黑名单：\n"+strings.Join(list, "\n"))
}

// ===== whitelist (owner tier) =====

func (h *Handler) whitelist(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.Config.IsOwner(evt.UserID) {
		return h.reply(ctx, evt.GroupID, needOwner)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标：白名单@某人 或 白名单QQ号")
	}
	h.Config.Mutate(func(c *config.Config) {
		c.Whitelist, _ = config.AppendUnique(c.Whitelist, target)
	})
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已将 %s 加入白名单", target))
}

func (h *Handler) unwhitelist(ctx context.Context, evt onebot.MessageEvent, rest string) error {
	if !h.Config.IsOwner(evt.UserID) {
		return h.reply(ctx, evt.GroupID, needOwner)
	}
	target := extractTarget(evt.Raw, rest)
	if target == "" {
		return h.reply(ctx, evt.GroupID, "请指定目标")
	}
	h.Config.Mutate(func(c *config.Config) {
		c.Whitelist, _ = config.RemoveString(c.Whitelist, target)
	})
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已将 %s 移出白名单", target))
}

func (h *Handler) listWhitelist(ctx context.Context, evt onebot.MessageEvent) error {
	var list []string
	h.Config.Read(func(c *config.Config) {
		list = append(list, c.Whitelist...)
	})
	if len(list) == 0 {
		return h.reply(ctx, evt.GroupID, "白名单为空")
	}
	return h.reply(ctx, evt.GroupID, "全局白名单：\n"+strings.Join(list, "\n"))
}

// ===== keyword filter administration (owner tier) =====

func (h *Handler) addKeyword(ctx context.Context, evt onebot.MessageEvent, word string) error {
	if !h.Config.IsOwner(evt.UserID) {
		return h.reply(ctx, evt.GroupID, needOwner)
	}
	if word == "" {
		return h.reply(ctx, evt.GroupID, "请指定违禁词：添加违禁词 词语")
	}
	h.Config.Mutate(func(c *config.Config) {
		c.FilterKeywords, _ = config.AppendUnique(c.FilterKeywords, word)
	})
	return h.reply(ctx, evt.GroupID, "已添加违禁词："+word)
}

func (h *Handler) removeKeyword(ctx context.Context, evt onebot.MessageEvent, word string) error {
	if !h.Config.IsOwner(evt.UserID) {
		return h.reply(ctx, evt.GroupID, needOwner)
	}
	if word == "" {
		return h.reply(ctx, evt.GroupID, "请指定违禁词")
	}
	h.Config.Mutate(func(c *config.Config) {
		c.FilterKeywords, _ = config.RemoveString(c.FilterKeywords, word)
	})
	return h.reply(ctx, evt.GroupID, "已删除违禁词："+word)
}

func (h *Handler) listKeywords(ctx context.Context, evt onebot.MessageEvent) error {
	var list []string
	h.Config.Read(func(c *config.Config) {
		list = append(list, c.FilterKeywords...)
	})
	if len(list) == 0 {
		return h.reply(ctx, evt.GroupID, "违禁词列表为空")
	}
	return h.reply(ctx, evt.GroupID, "违禁词列表：\n"+strings.Join(list, "、"))
}

// ===== Q&A administration =====

func qaModeLabel(m config.QAMode) string {
	switch m {
	case config.QAModeContains:
		return "模糊"
	case config.QAModeRegex:
		return "正则"
	default:
		return "精确"
	}
}

func (h *Handler) listQA(ctx context.Context, evt onebot.MessageEvent) error {
	scope := h.Config.EffectiveScope(evt.GroupID)
	label := "全局"
	if scope == config.ScopeGroup {
		label = "本群"
	}
	list := h.Config.EffectiveSettings(evt.GroupID).QAList
	if len(list) == 0 {
		return h.reply(ctx, evt.GroupID, label+"问答列表为空")
	}
	var b strings.Builder
	b.WriteString(label + "问答列表：\n")
	for i, q := range list {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. [%s] %s → %s", i+1, qaModeLabel(q.Mode), q.Keyword, q.Reply)
	}
	return h.reply(ctx, evt.GroupID, b.String())
}

func (h *Handler) addQA(ctx context.Context, evt onebot.MessageEvent, rest string, mode config.QAMode) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	keyword, replyText, ok := splitQA(rest)
	if !ok {
		if strings.Contains(rest, "|") {
			return h.reply(ctx, evt.GroupID, "关键词和回复不能为空")
		}
		return h.reply(ctx, evt.GroupID, "格式：添加问答 关键词|回复内容")
	}
	entry := config.QAEntry{Keyword: keyword, Reply: replyText, Mode: mode}
	h.Config.Mutate(func(c *config.Config) {
		if g, okG := c.Groups[evt.GroupID]; okG && g != nil && !g.UseGlobal {
			g.QAList = append(g.QAList, entry)
		} else {
			c.QAList = append(c.QAList, entry)
		}
	})
	return h.reply(ctx, evt.GroupID, fmt.Sprintf("已添加%s问答：%s → %s", qaModeLabel(mode), keyword, replyText))
}

func (h *Handler) removeQA(ctx context.Context, evt onebot.MessageEvent, keyword string) error {
	if !h.isAdminOrOwner(ctx, evt.GroupID, evt.UserID) {
		return h.reply(ctx, evt.GroupID, needAdmin)
	}
	if keyword == "" {
		return h.reply(ctx, evt.GroupID, "请指定关键词：删除问答 关键词")
	}
	removed := false
	h.Config.Mutate(func(c *config.Config) {
		if g, ok := c.Groups[evt.GroupID]; ok && g != nil && !g.UseGlobal {
			g.QAList, removed = removeQAEntry(g.QAList, keyword)
		} else {
			c.QAList, removed = removeQAEntry(c.QAList, keyword)
		}
	})
	if !removed {
		return h.reply(ctx, evt.GroupID, "未找到问答："+keyword)
	}
	return h.reply(ctx, evt.GroupID, "已删除问答："+keyword)
}

func removeQAEntry(list []config.QAEntry, keyword string) ([]config.QAEntry, bool) {
	out := list[:0]
	removed := false
	for _, q := range list {
		if q.Keyword == keyword {
			removed = true
			continue
		}
		out = append(out, q)
	}
	return out, removed
}
