package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Bio      string             `bson:"bio" json:"bio"`
	Profile  string             `bson:"profile" json:"profile"`     // 头像 URL
	CoverImg string             `bson:"cover_img" json:"cover_img"` // 封面 URL

	Followers []primitive.ObjectID `bson:"followers" json:"followers"`
	Following []primitive.ObjectID `bson:"following" json:"following"`
	// Posts 按创建顺序追加
	Posts []primitive.ObjectID `bson:"posts" json:"posts"`
	// Saved 最近收藏在前
	Saved []primitive.ObjectID `bson:"saved" json:"saved"`

	Role  string `bson:"role" json:"role"`
	Badge string `bson:"badge" json:"badge"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
