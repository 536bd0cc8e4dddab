package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report 按 (type, target_id) 唯一聚合的举报文档
type Report struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type     string             `bson:"type" json:"type"`
	TargetID primitive.ObjectID `bson:"target_id" json:"target_id"`
	// Reasons 每个举报人至多一条，Count 恒等于 len(Reasons)
	Reasons   []ReportReason `bson:"reasons" json:"reasons"`
	Count     int64          `bson:"count" json:"count"`
	Status    string         `bson:"status" json:"status"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}

type ReportReason struct {
	ReporterID primitive.ObjectID `bson:"reporter_id" json:"reporter_id"`
	Reason     string             `bson:"reason" json:"reason"`
	ExtraInfo  string             `bson:"extra_info,omitempty" json:"extra_info,omitempty"`
	ReportedAt time.Time          `bson:"reported_at" json:"reported_at"`
}
