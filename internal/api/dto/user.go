package dto

import "time"

type RegisterDTO struct {
	Name     string `json:"name" binding:"required,min=1,max=30"`
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileDTO 空字段不更新
type UpdateProfileDTO struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=30"`
	Bio  *string `json:"bio,omitempty" validate:"omitempty,max=200"`
}

// UserDTO 用户对外视图，列表字段折叠成计数
type UserDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Bio            string    `json:"bio"`
	Profile        string    `json:"profile"`
	CoverImg       string    `json:"cover_img"`
	Role           string    `json:"role"`
	Badge          string    `json:"badge"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	PostCount      int       `json:"post_count"`
	SavedCount     int       `json:"saved_count"`
	IsFollowing    bool      `json:"is_following"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserBriefDTO 关注/粉丝列表里的精简条目
type UserBriefDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Profile  string `json:"profile"`
	Badge    string `json:"badge"`
}
