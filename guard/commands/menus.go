package commands

// Help menu pages, sent as one forwarded multi-node message.

const menuNickname = "🛡️ 群管助手"

const groupAdminMenu = `🛡️ 群管指令
━━━━━━━━━━━━
踢出@某人 / 踢出QQ号
禁言@某人 分钟（默认10分钟）
解禁@某人
全体禁言 / 全体解禁
授予头衔@某人 内容
清除头衔@某人
锁定名片@某人 / 解锁名片@某人
名片锁定列表`

const targetMenu = `🎯 针对指令
━━━━━━━━━━━━
针对@某人：其消息将被自动撤回
取消针对@某人
针对列表
清除针对`

const blackWhiteMenu = `🚫 黑白名单
━━━━━━━━━━━━
拉黑@某人 / 取消拉黑@某人（主人）
黑名单列表
群拉黑@某人 / 群取消拉黑@某人
群黑名单列表
白名单@某人 / 取消白名单@某人（主人）
白名单列表`

const filterMenu = `🔇 违禁词
━━━━━━━━━━━━
添加违禁词 词语（主人）
删除违禁词 词语（主人）
违禁词列表`

const antiRecallMenu = `🔔 防撤回
━━━━━━━━━━━━
开启防撤回 / 关闭防撤回
防撤回列表`

const emojiReactMenu = `😀 回应表情
━━━━━━━━━━━━
开启回应表情 / 关闭回应表情`

const qaMenu = `💬 关键词问答
━━━━━━━━━━━━
添加问答 关键词|回复内容
添加模糊问答 关键词|回复内容
添加正则问答 表达式|回复内容
删除问答 关键词
问答列表`
