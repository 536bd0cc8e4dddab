package handler

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/pkg/response"
	"Inkcard/internal/service"
	"context"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaxonomyHandler 分类与标签共用一套入口，按路由分流
type TaxonomyHandler struct {
	taxonomySvc service.TaxonomyService
}

func NewTaxonomyHandler(taxonomySvc service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomySvc: taxonomySvc}
}

func (s *TaxonomyHandler) CreateCategory(c *gin.Context) {
	s.create(c, s.taxonomySvc.CreateCategory)
}

func (s *TaxonomyHandler) CreateTag(c *gin.Context) {
	s.create(c, s.taxonomySvc.CreateTag)
}

func (s *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := s.taxonomySvc.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}

func (s *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := s.taxonomySvc.ListTags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

func (s *TaxonomyHandler) GetCategoryPostCount(c *gin.Context) {
	s.postCount(c, s.taxonomySvc.CategoryPostCount)
}

func (s *TaxonomyHandler) GetTagPostCount(c *gin.Context) {
	s.postCount(c, s.taxonomySvc.TagPostCount)
}

func (s *TaxonomyHandler) UpdateCategory(c *gin.Context) {
	s.update(c, s.taxonomySvc.UpdateCategory)
}

func (s *TaxonomyHandler) UpdateTag(c *gin.Context) {
	s.update(c, s.taxonomySvc.UpdateTag)
}

func (s *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	s.delete(c, s.taxonomySvc.DeleteCategory)
}

func (s *TaxonomyHandler) DeleteTag(c *gin.Context) {
	s.delete(c, s.taxonomySvc.DeleteTag)
}

type taxonomyCreateFunc func(ctx context.Context, createDTO *dto.CreateTaxonomyDTO, image []byte, contentType string) (*dto.TaxonomyDTO, error)

// create multipart 请求：payload 为 JSON 字段，image 为可选背景图
func (s *TaxonomyHandler) create(c *gin.Context, createFn taxonomyCreateFunc) {
	var createDTO dto.CreateTaxonomyDTO
	if err := json.Unmarshal([]byte(c.PostForm("payload")), &createDTO); err != nil {
		response.Error(c, err)
		return
	}
	if createDTO.Name == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	image, contentType, err := readImageFile(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}

	entry, err := createFn(c.Request.Context(), &createDTO, image, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

type taxonomyUpdateFunc func(ctx context.Context, id primitive.ObjectID, updateDTO *dto.UpdateTaxonomyDTO, image []byte, contentType string) error

func (s *TaxonomyHandler) update(c *gin.Context, updateFn taxonomyUpdateFunc) {
	id, ok := paramObjectID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var updateDTO dto.UpdateTaxonomyDTO
	if payload := c.PostForm("payload"); payload != "" {
		if err := json.Unmarshal([]byte(payload), &updateDTO); err != nil {
			response.Error(c, err)
			return
		}
	}

	image, contentType, err := readImageFile(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = updateFn(c.Request.Context(), id, &updateDTO, image, contentType); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

type taxonomyDeleteFunc func(ctx context.Context, id primitive.ObjectID) error

func (s *TaxonomyHandler) delete(c *gin.Context, deleteFn taxonomyDeleteFunc) {
	id, ok := paramObjectID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := deleteFn(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

type taxonomyCountFunc func(ctx context.Context, name string) (int64, error)

func (s *TaxonomyHandler) postCount(c *gin.Context, countFn taxonomyCountFunc) {
	name := c.Param("name")
	if name == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	count, err := countFn(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}
