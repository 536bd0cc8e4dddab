package dto

import "time"

type CreatePostDTO struct {
	Title        string   `json:"title" binding:"required,min=1,max=255"`
	Content      string   `json:"content" binding:"required,min=1,max=5000"`
	Author       string   `json:"author" binding:"required,min=1,max=60"`
	Category     string   `json:"category" binding:"required"`
	Tags         []string `json:"tags" validate:"max=10"`
	ContentColor string   `json:"content_color"`
	AuthorColor  string   `json:"author_color"`
	TintColor    string   `json:"tint_color"`
}

// UpdatePostDTO 空字段不更新；Tags 传空数组表示清空
type UpdatePostDTO struct {
	Title        *string   `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content      *string   `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	Author       *string   `json:"author,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Tags         *[]string `json:"tags,omitempty" validate:"omitempty,max=10"`
	ContentColor *string   `json:"content_color,omitempty"`
	AuthorColor  *string   `json:"author_color,omitempty"`
	TintColor    *string   `json:"tint_color,omitempty"`
}

type PostDTO struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Author          string    `json:"author"`
	Category        string    `json:"category"`
	Tags            []string  `json:"tags"`
	ContentColor    string    `json:"content_color"`
	AuthorColor     string    `json:"author_color"`
	TintColor       string    `json:"tint_color"`
	BackgroundImage string    `json:"background_image"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	LikeCount       int       `json:"like_count"`
	IsLiked         bool      `json:"is_liked"`
	CreatedAt       time.Time `json:"created_at"`
}
