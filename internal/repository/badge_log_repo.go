package repository

import (
	"Inkcard/internal/model"
	"context"

	"gorm.io/gorm"
)

type BadgeLogRepo interface {
	Create(ctx context.Context, entry *model.BadgeAssignmentLog) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.BadgeAssignmentLog, error)
}

type badgeLogRepoImpl struct {
	db *gorm.DB
}

func NewBadgeLogRepo(db *gorm.DB) BadgeLogRepo {
	return &badgeLogRepoImpl{db: db}
}

// Create 追加一条徽章发放审计记录
func (s *badgeLogRepoImpl) Create(ctx context.Context, entry *model.BadgeAssignmentLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// ListByUser 获取某用户的徽章发放历史
func (s *badgeLogRepoImpl) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.BadgeAssignmentLog, error) {
	var entries []*model.BadgeAssignmentLog
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("assigned_at desc").
		Limit(limit).
		Offset(offset).
		Find(&entries)

	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}
