package model

import "time"

// BadgeAssignmentLog 徽章发放审计日志，落在 MySQL
type BadgeAssignmentLog struct {
	ID         uint64    `gorm:"primaryKey"`
	UserID     string    `gorm:"type:varchar(24);not null;index:idx_user_id" json:"user_id"`
	Badge      string    `gorm:"type:varchar(10);not null" json:"badge"`
	AssignedBy string    `gorm:"type:varchar(24);not null" json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

func (BadgeAssignmentLog) TableName() string {
	return "badge_assignment_logs"
}
