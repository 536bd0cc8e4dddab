package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category 分类。PostCount 为冗余聚合，随帖子增删改同步维护
type Category struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	BackgroundImage string             `bson:"background_image" json:"background_image"`
	PostCount       int64              `bson:"post_count" json:"post_count"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// Tag 标签，结构与 Category 一致，名称唯一
type Tag struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	BackgroundImage string             `bson:"background_image" json:"background_image"`
	PostCount       int64              `bson:"post_count" json:"post_count"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
