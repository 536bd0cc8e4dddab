package consts

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 徽章类型
const (
	BadgeBlue  = "blue"
	BadgeGreen = "green"
	BadgeGold  = "gold"
	BadgeRed   = "red"
	BadgeNone  = "none"
)

// 通知类型
const (
	NotifyFollow  = "follow"
	NotifyLike    = "like"
	NotifyComment = "comment"
	NotifyReply   = "reply"
	NotifyMention = "mention"
)

// 点赞上下文（通知负载用）
const (
	LikeContextPost    = "post"
	LikeContextComment = "comment"
	LikeContextReply   = "reply"
)

// 举报目标类型
const (
	ReportTargetUser    = "user"
	ReportTargetPost    = "post"
	ReportTargetComment = "comment"
	ReportTargetReply   = "reply"
)

// 举报状态
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusDismissed = "dismissed"
)

// 图片存储作用域（对象名前缀）
const (
	ImageScopeProfile  = "profile"
	ImageScopeCover    = "cover"
	ImageScopePost     = "post"
	ImageScopeTag      = "tag"
	ImageScopeCategory = "category"
)
