package handler

import (
	"Inkcard/internal/pkg/response"
	"Inkcard/internal/service"
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostActionHandler struct {
	actionSvc service.PostActionService
}

func NewPostActionHandler(actionSvc service.PostActionService) *PostActionHandler {
	return &PostActionHandler{actionSvc: actionSvc}
}

func (s *PostActionHandler) LikePost(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	likeCount, err := s.actionSvc.LikePost(c.Request.Context(), currentUserID(c), postID)
	s.respondLike(c, likeCount, err)
}

func (s *PostActionHandler) UnlikePost(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	likeCount, err := s.actionSvc.UnlikePost(c.Request.Context(), currentUserID(c), postID)
	s.respondLike(c, likeCount, err)
}

// SavePost 软语义：已收藏过不算错误，仅提示
func (s *PostActionHandler) SavePost(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	saved, err := s.actionSvc.SavePost(c.Request.Context(), currentUserID(c), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !saved {
		response.SuccessMessage(c, "已收藏过该帖子")
		return
	}
	response.Success(c, nil)
}

func (s *PostActionHandler) UnsavePost(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	removed, err := s.actionSvc.UnsavePost(c.Request.Context(), currentUserID(c), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.SuccessMessage(c, "未收藏该帖子")
		return
	}
	response.Success(c, nil)
}

func (s *PostActionHandler) LikeComment(c *gin.Context) {
	s.itemAction(c, "post_id", "comment_id", s.actionSvc.LikeComment)
}

func (s *PostActionHandler) UnlikeComment(c *gin.Context) {
	s.itemAction(c, "post_id", "comment_id", s.actionSvc.UnlikeComment)
}

func (s *PostActionHandler) LikeReply(c *gin.Context) {
	s.itemAction(c, "comment_id", "reply_id", s.actionSvc.LikeReply)
}

func (s *PostActionHandler) UnlikeReply(c *gin.Context) {
	s.itemAction(c, "comment_id", "reply_id", s.actionSvc.UnlikeReply)
}

type itemActionFunc func(ctx context.Context, actorID, parentID, itemID primitive.ObjectID) (int, error)

func (s *PostActionHandler) itemAction(c *gin.Context, parentParam, itemParam string, action itemActionFunc) {
	parentID, ok := paramObjectID(c, parentParam)
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	itemID, ok := paramObjectID(c, itemParam)
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	likeCount, err := action(c.Request.Context(), currentUserID(c), parentID, itemID)
	s.respondLike(c, likeCount, err)
}

func (s *PostActionHandler) respondLike(c *gin.Context, likeCount int, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"like_count": likeCount})
}
