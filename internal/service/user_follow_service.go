package service

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/model"
	"Inkcard/internal/repository"
	"context"
	log "log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserFollowService 关注关系双向镜像：actor 侧的条件更新是唯一裁决点，
// target 侧与通知在裁决通过后补写。
type UserFollowService interface {
	Follow(ctx context.Context, actorID, targetID primitive.ObjectID) error
	Unfollow(ctx context.Context, actorID, targetID primitive.ObjectID) error
	GetFollowers(ctx context.Context, userID primitive.ObjectID) ([]*dto.UserBriefDTO, error)
	GetFollowing(ctx context.Context, userID primitive.ObjectID) ([]*dto.UserBriefDTO, error)
}

type UserFollowServiceImpl struct {
	userRepo  repository.UserRepo
	notifySvc NotificationService
}

func NewUserFollowService(userRepo repository.UserRepo, notifySvc NotificationService) UserFollowService {
	return &UserFollowServiceImpl{
		userRepo:  userRepo,
		notifySvc: notifySvc,
	}
}

func (s *UserFollowServiceImpl) Follow(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	if actorID == targetID {
		return ErrUserFollowSelf
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	outcome, err := s.userRepo.AddFollowing(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !outcome.Matched {
		return ErrUserNotFound
	}
	if !outcome.Modified {
		return ErrUserFollowExist
	}

	// 镜像侧幂等，失败可重试不会产生重边
	err = s.userRepo.AddFollower(ctx, targetID, actorID)
	if err != nil {
		return err
	}

	if err = s.notifySvc.NotifyFollow(ctx, targetID, actorID); err != nil {
		log.WarnContext(ctx, "follow notification not delivered",
			"target", targetID.Hex(), "err", err)
	}
	return nil
}

func (s *UserFollowServiceImpl) Unfollow(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	if actorID == targetID {
		return ErrUserFollowSelf
	}

	outcome, err := s.userRepo.RemoveFollowing(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !outcome.Matched {
		return ErrUserNotFound
	}
	if !outcome.Modified {
		return ErrUserFollowNotExist
	}

	err = s.userRepo.RemoveFollower(ctx, targetID, actorID)
	if err != nil {
		return err
	}

	if err = s.notifySvc.RetractFollow(ctx, targetID, actorID); err != nil {
		log.WarnContext(ctx, "follow notification not retracted",
			"target", targetID.Hex(), "err", err)
	}
	return nil
}

func (s *UserFollowServiceImpl) GetFollowers(ctx context.Context, userID primitive.ObjectID) ([]*dto.UserBriefDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.resolveBriefs(ctx, user.Followers)
}

func (s *UserFollowServiceImpl) GetFollowing(ctx context.Context, userID primitive.ObjectID) ([]*dto.UserBriefDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.resolveBriefs(ctx, user.Following)
}

// resolveBriefs 批量取回并保持原数组顺序，已删号的条目跳过
func (s *UserFollowServiceImpl) resolveBriefs(ctx context.Context, ids []primitive.ObjectID) ([]*dto.UserBriefDTO, error) {
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*model.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	briefs := make([]*dto.UserBriefDTO, 0, len(ids))
	for _, id := range ids {
		user, ok := byID[id]
		if !ok {
			continue
		}
		briefs = append(briefs, &dto.UserBriefDTO{
			ID:       user.ID.Hex(),
			Name:     user.Name,
			Username: user.Username,
			Profile:  user.Profile,
			Badge:    user.Badge,
		})
	}
	return briefs, nil
}
