package dto

import "time"

type AddCommentDTO struct {
	Text string `json:"text" binding:"required,min=1,max=1000"`
}

type AddReplyDTO struct {
	Text string `json:"text" binding:"required,min=1,max=1000"`
}

type CommentDTO struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	LikeCount int       `json:"like_count"`
	IsLiked   bool      `json:"is_liked"`
	CreatedAt time.Time `json:"created_at"`

	Replies []*ReplyDTO `json:"replies,omitempty"`
}

type ReplyDTO struct {
	ID        string    `json:"id"`
	CommentID string    `json:"comment_id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	LikeCount int       `json:"like_count"`
	IsLiked   bool      `json:"is_liked"`
	CreatedAt time.Time `json:"created_at"`
}
