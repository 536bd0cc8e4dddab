package handler

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/pkg/response"
	"Inkcard/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

func (s *CommentHandler) AddComment(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var commentDTO dto.AddCommentDTO
	if err := c.ShouldBindJSON(&commentDTO); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.commentSvc.AddComment(c.Request.Context(), currentUserID(c), postID, &commentDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *CommentHandler) AddReply(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	commentID, ok := paramObjectID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var replyDTO dto.AddReplyDTO
	if err := c.ShouldBindJSON(&replyDTO); err != nil {
		response.Error(c, err)
		return
	}

	reply, err := s.commentSvc.AddReply(c.Request.Context(), currentUserID(c), postID, commentID, &replyDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reply)
}

func (s *CommentHandler) ListComments(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	comments, err := s.commentSvc.ListComments(c.Request.Context(), postID, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *CommentHandler) ListReplies(c *gin.Context) {
	commentID, ok := paramObjectID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	replies, err := s.commentSvc.ListReplies(c.Request.Context(), commentID, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, replies)
}

func (s *CommentHandler) DeleteComment(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	commentID, ok := paramObjectID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	err := s.commentSvc.DeleteComment(c.Request.Context(), currentUserID(c), postID, commentID, isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommentHandler) DeleteReply(c *gin.Context) {
	commentID, ok := paramObjectID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	replyID, ok := paramObjectID(c, "reply_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	err := s.commentSvc.DeleteReply(c.Request.Context(), currentUserID(c), commentID, replyID, isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
