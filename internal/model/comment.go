package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment 帖子下的一级评论，独立集合，按 (post_id, _id) 寻址
type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID   `bson:"post_id" json:"post_id"`
	AuthorID  primitive.ObjectID   `bson:"author_id" json:"author_id"`
	Text      string               `bson:"text" json:"text"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// Reply 评论下的回复，独立集合，按 (comment_id, _id) 寻址
type Reply struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CommentID primitive.ObjectID   `bson:"comment_id" json:"comment_id"`
	PostID    primitive.ObjectID   `bson:"post_id" json:"post_id"`
	AuthorID  primitive.ObjectID   `bson:"author_id" json:"author_id"`
	Text      string               `bson:"text" json:"text"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}
