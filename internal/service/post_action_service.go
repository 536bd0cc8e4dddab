package service

import (
	"Inkcard/internal/pkg/consts"
	"Inkcard/internal/repository"
	"context"
	log "log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostActionService 点赞/取消赞与收藏/取消收藏。
// 点赞由一次条件更新裁决：重复点赞、取消不存在的赞都会被拒绝，
// 通知只在裁决通过后扇出，取消时按元组精确撤回，返回值为更新后的点赞数。
// 收藏是软语义：重复收藏、取消不存在的收藏不报错，返回 false。
type PostActionService interface {
	LikePost(ctx context.Context, actorID, postID primitive.ObjectID) (int, error)
	UnlikePost(ctx context.Context, actorID, postID primitive.ObjectID) (int, error)
	LikeComment(ctx context.Context, actorID, postID, commentID primitive.ObjectID) (int, error)
	UnlikeComment(ctx context.Context, actorID, postID, commentID primitive.ObjectID) (int, error)
	LikeReply(ctx context.Context, actorID, commentID, replyID primitive.ObjectID) (int, error)
	UnlikeReply(ctx context.Context, actorID, commentID, replyID primitive.ObjectID) (int, error)

	SavePost(ctx context.Context, actorID, postID primitive.ObjectID) (bool, error)
	UnsavePost(ctx context.Context, actorID, postID primitive.ObjectID) (bool, error)
}

type PostActionServiceImpl struct {
	postRepo    repository.PostRepo
	userRepo    repository.UserRepo
	commentRepo repository.CommentRepo
	notifySvc   NotificationService
}

func NewPostActionService(
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	commentRepo repository.CommentRepo,
	notifySvc NotificationService,
) PostActionService {
	return &PostActionServiceImpl{
		postRepo:    postRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		notifySvc:   notifySvc,
	}
}

func (s *PostActionServiceImpl) LikePost(ctx context.Context, actorID, postID primitive.ObjectID) (int, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return 0, err
	}
	if post == nil {
		return 0, ErrPostNotFound
	}

	outcome, err := s.postRepo.AddLike(ctx, postID, actorID)
	if err != nil {
		return 0, err
	}
	if !outcome.Matched {
		return 0, ErrPostNotFound
	}
	if !outcome.Modified {
		return 0, ErrActionDuplicate
	}

	s.notifyLike(ctx, post.OwnerID, actorID, postID, consts.LikeContextPost, primitive.NilObjectID, post.Title)
	return len(post.Likes) + 1, nil
}

func (s *PostActionServiceImpl) UnlikePost(ctx context.Context, actorID, postID primitive.ObjectID) (int, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return 0, err
	}
	if post == nil {
		return 0, ErrPostNotFound
	}

	outcome, err := s.postRepo.RemoveLike(ctx, postID, actorID)
	if err != nil {
		return 0, err
	}
	if !outcome.Matched {
		return 0, ErrPostNotFound
	}
	if !outcome.Modified {
		return 0, ErrActionNotExist
	}

	s.retractLike(ctx, post.OwnerID, actorID, postID, consts.LikeContextPost, primitive.NilObjectID)
	return len(post.Likes) - 1, nil
}

func (s *PostActionServiceImpl) LikeComment(ctx context.Context, actorID, postID, commentID primitive.ObjectID) (int, error) {
	comment, err := s.commentRepo.GetComment(ctx, postID, commentID)
	if err != nil {
		return 0, err
	}
	if comment == nil {
		return 0, ErrCommentNotFound
	}

	outcome, err := s.commentRepo.AddCommentLike(ctx, commentID, actorID)
	if err != nil {
		return 0, err
	}
	if !outcome.Matched {
		return 0, ErrCommentNotFound
	}
	if !outcome.Modified {
		return 0, ErrActionDuplicate
	}

	s.notifyLike(ctx, comment.AuthorID, actorID, postID, consts.LikeContextComment, commentID, comment.Text)
	return len(comment.Likes) + 1, nil
}

func (s *PostActionServiceImpl) UnlikeComment(ctx context.Context, actorID, postID, commentID primitive.ObjectID) (int, error) {
	comment, err := s.commentRepo.GetComment(ctx, postID, commentID)
	if err != nil {
		return 0, err
	}
	if comment == nil {
		return 0, ErrCommentNotFound
	}

	outcome, err := s.commentRepo.RemoveCommentLike(ctx, commentID, actorID)
	if err != nil {
		return 0, err
	}
	if !outcome.Matched {
		return 0, ErrCommentNotFound
	}
	if !outcome.Modified {
		return 0, ErrActionNotExist
	}

	s.retractLike(ctx, comment.AuthorID, actorID, postID, consts.LikeContextComment, commentID)
	return len(comment.Likes) - 1, nil
}

func (s *PostActionServiceImpl) LikeReply(ctx context.Context, actorID, commentID, replyID primitive.ObjectID) (int, error) {
	reply, err := s.commentRepo.GetReply(ctx, commentID, replyID)
	if err != nil {
		return 0, err
	}
	if reply == nil {
		return 0, ErrReplyNotFound
	}

	outcome, err := s.commentRepo.AddReplyLike(ctx, replyID, actorID)
	if err != nil {
		return 0, err
	}
	if !outcome.Matched {
		return 0, ErrReplyNotFound
	}
	if !outcome.Modified {
		return 0, ErrActionDuplicate
	}

	s.notifyLike(ctx, reply.AuthorID, actorID, reply.PostID, consts.LikeContextReply, replyID, reply.Text)
	return len(reply.Likes) + 1, nil
}

func (s *PostActionServiceImpl) UnlikeReply(ctx context.Context, actorID, commentID, replyID primitive.ObjectID) (int, error) {
	reply, err := s.commentRepo.GetReply(ctx, commentID, replyID)
	if err != nil {
		return 0, err
	}
	if reply == nil {
		return 0, ErrReplyNotFound
	}

	outcome, err := s.commentRepo.RemoveReplyLike(ctx, replyID, actorID)
	if err != nil {
		return 0, err
	}
	if !outcome.Matched {
		return 0, ErrReplyNotFound
	}
	if !outcome.Modified {
		return 0, ErrActionNotExist
	}

	s.retractLike(ctx, reply.AuthorID, actorID, reply.PostID, consts.LikeContextReply, replyID)
	return len(reply.Likes) - 1, nil
}

// SavePost 收藏头插，最近收藏在前。不校验帖子存在，删帖级联会清掉悬挂收藏。
// 已收藏过返回 false 不报错。
func (s *PostActionServiceImpl) SavePost(ctx context.Context, actorID, postID primitive.ObjectID) (bool, error) {
	outcome, err := s.userRepo.SavePost(ctx, actorID, postID)
	if err != nil {
		return false, err
	}
	// 守卫同时覆盖用户缺失与重复收藏，用户已在鉴权时确认存在
	if !outcome.Matched || !outcome.Modified {
		return false, nil
	}
	return true, nil
}

// UnsavePost 未收藏过返回 false 不报错
func (s *PostActionServiceImpl) UnsavePost(ctx context.Context, actorID, postID primitive.ObjectID) (bool, error) {
	outcome, err := s.userRepo.UnsavePost(ctx, actorID, postID)
	if err != nil {
		return false, err
	}
	// 与 SavePost 同一口径：用户已在鉴权时确认存在，未命中一律走软路径
	return outcome.Matched && outcome.Modified, nil
}

// 通知扇出失败不回滚点赞本身
func (s *PostActionServiceImpl) notifyLike(ctx context.Context, recipientID, senderID, postID primitive.ObjectID, likeContext string, itemID primitive.ObjectID, snippet string) {
	if err := s.notifySvc.NotifyLike(ctx, recipientID, senderID, postID, likeContext, itemID, snippet); err != nil {
		log.WarnContext(ctx, "like notification not delivered",
			"recipient", recipientID.Hex(), "context", likeContext, "err", err)
	}
}

func (s *PostActionServiceImpl) retractLike(ctx context.Context, recipientID, senderID, postID primitive.ObjectID, likeContext string, itemID primitive.ObjectID) {
	if err := s.notifySvc.RetractLike(ctx, recipientID, senderID, postID, likeContext, itemID); err != nil {
		log.WarnContext(ctx, "like notification not retracted",
			"recipient", recipientID.Hex(), "context", likeContext, "err", err)
	}
}
