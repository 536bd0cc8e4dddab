package consts

// Redis Key 前缀
const (
	// TokenBlockKey 已登出 Token 的签名黑名单
	TokenBlockKey = "auth:block:"
	// NotifyUnreadKey 用户未读通知数缓存
	NotifyUnreadKey = "notify:unread:"
	// CategoryCountKey 分类帖子数缓存
	CategoryCountKey = "taxonomy:category:count:"
	// TagCountKey 标签帖子数缓存
	TagCountKey = "taxonomy:tag:count:"
)
