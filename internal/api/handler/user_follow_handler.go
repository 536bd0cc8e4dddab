package handler

import (
	"Inkcard/internal/pkg/response"
	"Inkcard/internal/service"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	targetID, ok := paramObjectID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.userFollowSvc.Follow(c.Request.Context(), currentUserID(c), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	targetID, ok := paramObjectID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.userFollowSvc.Unfollow(c.Request.Context(), currentUserID(c), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) GetFollowers(c *gin.Context) {
	userID, ok := paramObjectID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	followers, err := s.userFollowSvc.GetFollowers(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followers)
}

func (s *UserFollowHandler) GetFollowing(c *gin.Context) {
	userID, ok := paramObjectID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	following, err := s.userFollowSvc.GetFollowing(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, following)
}
