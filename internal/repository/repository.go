package repository

import "errors"

// 集合名
const (
	ColUsers         = "users"
	ColPosts         = "posts"
	ColComments      = "comments"
	ColReplies       = "replies"
	ColNotifications = "notifications"
	ColCategories    = "categories"
	ColTags          = "tags"
	ColReports       = "reports"
)

// ErrDuplicateKey 插入撞上唯一索引
var ErrDuplicateKey = errors.New("duplicate key")

// UpdateOutcome 单次条件更新的结果。
// Matched 为 false 表示目标文档不存在；Matched 而非 Modified
// 表示守卫条件未通过（目标已处于请求的状态）。
type UpdateOutcome struct {
	Matched  bool
	Modified bool
}
