package service

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/model"
	"Inkcard/internal/repository"
	"context"
	log "log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService interface {
	AddComment(ctx context.Context, actorID, postID primitive.ObjectID, commentDTO *dto.AddCommentDTO) (*dto.CommentDTO, error)
	AddReply(ctx context.Context, actorID, postID, commentID primitive.ObjectID, replyDTO *dto.AddReplyDTO) (*dto.ReplyDTO, error)
	ListComments(ctx context.Context, postID, viewerID primitive.ObjectID) ([]*dto.CommentDTO, error)
	ListReplies(ctx context.Context, commentID, viewerID primitive.ObjectID) ([]*dto.ReplyDTO, error)
	DeleteComment(ctx context.Context, actorID, postID, commentID primitive.ObjectID, isAdmin bool) error
	DeleteReply(ctx context.Context, actorID, commentID, replyID primitive.ObjectID, isAdmin bool) error
}

type CommentServiceImpl struct {
	commentRepo repository.CommentRepo
	postRepo    repository.PostRepo
	notifySvc   NotificationService
}

func NewCommentService(commentRepo repository.CommentRepo, postRepo repository.PostRepo, notifySvc NotificationService) CommentService {
	return &CommentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		notifySvc:   notifySvc,
	}
}

func (s *CommentServiceImpl) AddComment(ctx context.Context, actorID, postID primitive.ObjectID, commentDTO *dto.AddCommentDTO) (*dto.CommentDTO, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: actorID,
		Text:     commentDTO.Text,
	}
	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if err = s.notifySvc.NotifyComment(ctx, post.OwnerID, actorID, postID, comment.ID, comment.Text); err != nil {
		log.WarnContext(ctx, "comment notification not delivered",
			"recipient", post.OwnerID.Hex(), "err", err)
	}
	return toCommentDTO(comment, actorID), nil
}

// AddReply 通知发给被回复评论的作者，而不是帖主
func (s *CommentServiceImpl) AddReply(ctx context.Context, actorID, postID, commentID primitive.ObjectID, replyDTO *dto.AddReplyDTO) (*dto.ReplyDTO, error) {
	comment, err := s.commentRepo.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}

	reply := &model.Reply{
		CommentID: commentID,
		PostID:    postID,
		AuthorID:  actorID,
		Text:      replyDTO.Text,
	}
	if err = s.commentRepo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}

	if err = s.notifySvc.NotifyReply(ctx, comment.AuthorID, actorID, postID, reply.ID, reply.Text); err != nil {
		log.WarnContext(ctx, "reply notification not delivered",
			"recipient", comment.AuthorID.Hex(), "err", err)
	}
	return toReplyDTO(reply, actorID), nil
}

func (s *CommentServiceImpl) ListComments(ctx context.Context, postID, viewerID primitive.ObjectID) ([]*dto.CommentDTO, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		result = append(result, toCommentDTO(comment, viewerID))
	}
	return result, nil
}

func (s *CommentServiceImpl) ListReplies(ctx context.Context, commentID, viewerID primitive.ObjectID) ([]*dto.ReplyDTO, error) {
	replies, err := s.commentRepo.ListReplies(ctx, commentID)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.ReplyDTO, 0, len(replies))
	for _, reply := range replies {
		result = append(result, toReplyDTO(reply, viewerID))
	}
	return result, nil
}

// DeleteComment 评论作者或帖主可删；其下回复以及指向它们的通知一并清理
func (s *CommentServiceImpl) DeleteComment(ctx context.Context, actorID, postID, commentID primitive.ObjectID, isAdmin bool) error {
	comment, err := s.commentRepo.GetComment(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	if comment.AuthorID != actorID && !isAdmin {
		post, err := s.postRepo.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil || post.OwnerID != actorID {
			return UnauthorizedError
		}
	}

	replyIDs, err := s.commentRepo.ListReplyIDs(ctx, commentID)
	if err != nil {
		return err
	}

	if err = s.commentRepo.DeleteRepliesByComment(ctx, commentID); err != nil {
		return err
	}
	if err = s.commentRepo.DeleteComment(ctx, postID, commentID); err != nil {
		return err
	}

	items := append(replyIDs, commentID)
	if err = s.notifySvc.RetractByItems(ctx, items); err != nil {
		log.WarnContext(ctx, "comment notifications not retracted",
			"comment", commentID.Hex(), "err", err)
	}
	return nil
}

// DeleteReply 回复作者、所在评论的作者或帖主可删
func (s *CommentServiceImpl) DeleteReply(ctx context.Context, actorID, commentID, replyID primitive.ObjectID, isAdmin bool) error {
	reply, err := s.commentRepo.GetReply(ctx, commentID, replyID)
	if err != nil {
		return err
	}
	if reply == nil {
		return ErrReplyNotFound
	}

	if reply.AuthorID != actorID && !isAdmin {
		comment, err := s.commentRepo.GetComment(ctx, reply.PostID, commentID)
		if err != nil {
			return err
		}
		if comment == nil || comment.AuthorID != actorID {
			post, err := s.postRepo.GetByID(ctx, reply.PostID)
			if err != nil {
				return err
			}
			if post == nil || post.OwnerID != actorID {
				return UnauthorizedError
			}
		}
	}

	if err = s.commentRepo.DeleteReply(ctx, commentID, replyID); err != nil {
		return err
	}

	if err = s.notifySvc.RetractByItems(ctx, []primitive.ObjectID{replyID}); err != nil {
		log.WarnContext(ctx, "reply notifications not retracted",
			"reply", replyID.Hex(), "err", err)
	}
	return nil
}

func toCommentDTO(comment *model.Comment, viewerID primitive.ObjectID) *dto.CommentDTO {
	commentDTO := &dto.CommentDTO{
		ID:        comment.ID.Hex(),
		PostID:    comment.PostID.Hex(),
		AuthorID:  comment.AuthorID.Hex(),
		Text:      comment.Text,
		LikeCount: len(comment.Likes),
		CreatedAt: comment.CreatedAt,
	}
	commentDTO.IsLiked = containsID(comment.Likes, viewerID)
	return commentDTO
}

func toReplyDTO(reply *model.Reply, viewerID primitive.ObjectID) *dto.ReplyDTO {
	replyDTO := &dto.ReplyDTO{
		ID:        reply.ID.Hex(),
		CommentID: reply.CommentID.Hex(),
		PostID:    reply.PostID.Hex(),
		AuthorID:  reply.AuthorID.Hex(),
		Text:      reply.Text,
		LikeCount: len(reply.Likes),
		CreatedAt: reply.CreatedAt,
	}
	replyDTO.IsLiked = containsID(reply.Likes, viewerID)
	return replyDTO
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	if id.IsZero() {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
