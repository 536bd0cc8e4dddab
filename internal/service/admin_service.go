package service

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/model"
	"Inkcard/internal/repository"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminService interface {
	ListUsers(ctx context.Context, limit, offset int64) ([]*dto.UserDTO, int64, error)
	AssignBadge(ctx context.Context, adminID, userID primitive.ObjectID, badgeDTO *dto.AssignBadgeDTO) error
	BadgeHistory(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]*model.BadgeAssignmentLog, error)
	DeleteUser(ctx context.Context, actorID, targetID primitive.ObjectID) error
	ReconcileCounts(ctx context.Context) error
}

type AdminServiceImpl struct {
	userRepo     repository.UserRepo
	postRepo     repository.PostRepo
	commentRepo  repository.CommentRepo
	badgeLogRepo repository.BadgeLogRepo
	postSvc      PostService
	notifySvc    NotificationService
	taxonomySvc  TaxonomyService
	store        ImageStore
}

func NewAdminService(
	userRepo repository.UserRepo,
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	badgeLogRepo repository.BadgeLogRepo,
	postSvc PostService,
	notifySvc NotificationService,
	taxonomySvc TaxonomyService,
	store ImageStore,
) AdminService {
	return &AdminServiceImpl{
		userRepo:     userRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		badgeLogRepo: badgeLogRepo,
		postSvc:      postSvc,
		notifySvc:    notifySvc,
		taxonomySvc:  taxonomySvc,
		store:        store,
	}
}

func (s *AdminServiceImpl) ListUsers(ctx context.Context, limit, offset int64) ([]*dto.UserDTO, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*dto.UserDTO, 0, len(users))
	for _, user := range users {
		result = append(result, toUserDTO(user, primitive.NilObjectID))
	}
	return result, total, nil
}

// AssignBadge 徽章落 Mongo，审计记录落 MySQL
func (s *AdminServiceImpl) AssignBadge(ctx context.Context, adminID, userID primitive.ObjectID, badgeDTO *dto.AssignBadgeDTO) error {
	outcome, err := s.userRepo.SetBadge(ctx, userID, badgeDTO.Badge)
	if err != nil {
		return err
	}
	if !outcome.Matched {
		return ErrUserNotFound
	}

	return s.badgeLogRepo.Create(ctx, &model.BadgeAssignmentLog{
		UserID:     userID.Hex(),
		Badge:      badgeDTO.Badge,
		AssignedBy: adminID.Hex(),
		AssignedAt: time.Now(),
	})
}

func (s *AdminServiceImpl) BadgeHistory(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]*model.BadgeAssignmentLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.badgeLogRepo.ListByUser(ctx, userID.Hex(), limit, offset)
}

// DeleteUser 删号全量级联：帖子逐一走帖子删除级联，
// 其余痕迹（评论、回复、点赞、关注边、通知、图片）就地清理。管理员不能删自己。
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	if actorID == targetID {
		return UnauthorizedError
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	posts, err := s.postRepo.ListByOwner(ctx, targetID)
	if err != nil {
		return err
	}
	for _, post := range posts {
		if err = s.postSvc.Delete(ctx, targetID, post.ID, true); err != nil {
			return err
		}
	}

	// 本人发表的评论及其回复树；他人挂在这些评论下的回复也会被删，
	// 指向它们的通知要一并撤回
	commentIDs, err := s.commentRepo.ListCommentIDsByAuthor(ctx, targetID)
	if err != nil {
		return err
	}
	replyIDs, err := s.commentRepo.ListReplyIDsByComments(ctx, commentIDs)
	if err != nil {
		return err
	}
	if err = s.commentRepo.DeleteRepliesByComments(ctx, commentIDs); err != nil {
		return err
	}
	if err = s.commentRepo.DeleteCommentsByAuthor(ctx, targetID); err != nil {
		return err
	}
	if err = s.commentRepo.DeleteRepliesByAuthor(ctx, targetID); err != nil {
		return err
	}
	if err = s.notifySvc.RetractByItems(ctx, append(replyIDs, commentIDs...)); err != nil {
		log.WarnContext(ctx, "authored comment notifications not retracted",
			"user", targetID.Hex(), "err", err)
	}

	// 本人留下的赞
	if err = s.postRepo.PullLikeFromAll(ctx, targetID); err != nil {
		return err
	}
	if err = s.commentRepo.PullLikeFromAll(ctx, targetID); err != nil {
		return err
	}

	// 关注图双向摘除
	if err = s.userRepo.RemoveFromAllGraphs(ctx, targetID); err != nil {
		return err
	}

	// 收件与发出的通知
	if err = s.notifySvc.RetractByUser(ctx, targetID); err != nil {
		return err
	}

	if user.Profile != "" {
		s.store.Release(ctx, user.Profile)
	}
	if user.CoverImg != "" {
		s.store.Release(ctx, user.CoverImg)
	}

	return s.userRepo.Delete(ctx, targetID)
}

func (s *AdminServiceImpl) ReconcileCounts(ctx context.Context) error {
	return s.taxonomySvc.Reconcile(ctx)
}
