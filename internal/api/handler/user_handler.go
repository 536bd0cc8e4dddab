package handler

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/pkg/response"
	"Inkcard/internal/service"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (s *UserHandler) Register(c *gin.Context) {
	var regDTO dto.RegisterDTO
	if err := c.ShouldBindJSON(&regDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.userSvc.Register(c.Request.Context(), &regDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.LoginDTO
	if err := c.ShouldBindJSON(&loginDTO); err != nil {
		response.Error(c, err)
		return
	}

	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{"token": token})
}

func (s *UserHandler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := s.userSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetSelfInfo(c *gin.Context) {
	userID := currentUserID(c)
	user, err := s.userSvc.GetUserInfo(c.Request.Context(), userID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) GetUserByID(c *gin.Context) {
	targetID, ok := paramObjectID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	user, err := s.userSvc.GetUserInfo(c.Request.Context(), targetID, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) GetUserByUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	user, err := s.userSvc.GetUserByUsername(c.Request.Context(), username, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) UpdateProfile(c *gin.Context) {
	var profileDTO dto.UpdateProfileDTO
	if err := c.ShouldBindJSON(&profileDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.userSvc.UpdateProfile(c.Request.Context(), currentUserID(c), &profileDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) UploadAvatar(c *gin.Context) {
	s.uploadImage(c, s.userSvc.UpdateAvatar)
}

func (s *UserHandler) UploadCover(c *gin.Context) {
	s.uploadImage(c, s.userSvc.UpdateCover)
}

type userImageUpdateFunc func(ctx context.Context, id primitive.ObjectID, data []byte, contentType string) (string, error)

func (s *UserHandler) uploadImage(c *gin.Context, update userImageUpdateFunc) {
	data, contentType, err := readImageFile(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(data) == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	url, err := update(c.Request.Context(), currentUserID(c), data, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{"url": url})
}
