package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Title   string             `bson:"title" json:"title"`
	Content string             `bson:"content" json:"content"`
	// Author 卡片上的署名行，展示用文本
	Author   string   `bson:"author" json:"author"`
	Category string   `bson:"category" json:"category"`
	Tags     []string `bson:"tags" json:"tags"`

	ContentColor    string `bson:"content_color" json:"content_color"`
	AuthorColor     string `bson:"author_color" json:"author_color"`
	TintColor       string `bson:"tint_color" json:"tint_color"`
	BackgroundImage string `bson:"background_image" json:"background_image"`
	Width           int    `bson:"width" json:"width"`
	Height          int    `bson:"height" json:"height"`

	Likes []primitive.ObjectID `bson:"likes" json:"likes"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
