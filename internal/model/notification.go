package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 收件箱条目。负载按 Type 取不同变体：
// like 携带 Like，comment/reply 携带 Snippet，follow 无额外负载。
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`
	Type        string             `bson:"type" json:"type"`
	// PostID follow 类型之外必填
	PostID   primitive.ObjectID `bson:"post_id,omitempty" json:"post_id,omitempty"`
	SenderID primitive.ObjectID `bson:"sender_id" json:"sender_id"`

	// ItemID comment/reply 通知指向产生它的评论或回复，删除时按此精确撤回
	ItemID  primitive.ObjectID `bson:"item_id,omitempty" json:"item_id,omitempty"`
	Like    *LikeDetail        `bson:"like,omitempty" json:"like,omitempty"`
	Snippet string             `bson:"snippet,omitempty" json:"snippet,omitempty"`

	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// LikeDetail like 通知的负载，唯一性元组的组成部分
type LikeDetail struct {
	Context string             `bson:"context" json:"context"` // post / comment / reply
	ItemID  primitive.ObjectID `bson:"item_id,omitempty" json:"item_id,omitempty"`
	Snippet string             `bson:"snippet,omitempty" json:"snippet,omitempty"`
}
