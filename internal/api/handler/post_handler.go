package handler

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/pkg/response"
	"Inkcard/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

// CreatePost multipart 请求：payload 为 JSON 字段，image 为可选背景图
func (s *PostHandler) CreatePost(c *gin.Context) {
	var createDTO dto.CreatePostDTO
	if err := json.Unmarshal([]byte(c.PostForm("payload")), &createDTO); err != nil {
		response.Error(c, err)
		return
	}
	if createDTO.Title == "" || createDTO.Content == "" || createDTO.Category == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	image, contentType, err := readImageFile(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.Create(c.Request.Context(), currentUserID(c), &createDTO, image, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.Get(c.Request.Context(), postID, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// Discover 发现页随机瀑布流
func (s *PostHandler) Discover(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil {
		limit = 20
	}

	posts, err := s.postSvc.Discover(c.Request.Context(), limit, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) GetPostsByUser(c *gin.Context) {
	ownerID, ok := paramObjectID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	posts, err := s.postSvc.ListByOwner(c.Request.Context(), ownerID, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) GetPostsByCategory(c *gin.Context) {
	category := c.Param("category")
	if category == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	posts, err := s.postSvc.ListByCategory(c.Request.Context(), category, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) GetPostsByTag(c *gin.Context) {
	tag := c.Param("tag")
	if tag == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	posts, err := s.postSvc.ListByTag(c.Request.Context(), tag, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) GetSavedPosts(c *gin.Context) {
	posts, err := s.postSvc.ListSaved(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var updateDTO dto.UpdatePostDTO
	if err := c.ShouldBindJSON(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}

	err := s.postSvc.Update(c.Request.Context(), currentUserID(c), postID, &updateDTO, isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := paramObjectID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	err := s.postSvc.Delete(c.Request.Context(), currentUserID(c), postID, isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
