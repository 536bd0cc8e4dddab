package service

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/model"
	"Inkcard/internal/pkg/consts"
	"Inkcard/internal/pkg/redis"
	"Inkcard/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const taxonomyCountTTL = time.Minute * 10

// TaxonomyService 分类与标签的维护，以及帖子增删改时的冗余计数同步。
// 计数容忍未登记的名称：帖子可以挂在不存在的分类上，计数更新静默跳过。
type TaxonomyService interface {
	CreateCategory(ctx context.Context, createDTO *dto.CreateTaxonomyDTO, image []byte, contentType string) (*dto.TaxonomyDTO, error)
	CreateTag(ctx context.Context, createDTO *dto.CreateTaxonomyDTO, image []byte, contentType string) (*dto.TaxonomyDTO, error)
	ListCategories(ctx context.Context) ([]*dto.TaxonomyDTO, error)
	ListTags(ctx context.Context) ([]*dto.TaxonomyDTO, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, updateDTO *dto.UpdateTaxonomyDTO, image []byte, contentType string) error
	UpdateTag(ctx context.Context, id primitive.ObjectID, updateDTO *dto.UpdateTaxonomyDTO, image []byte, contentType string) error
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
	DeleteTag(ctx context.Context, id primitive.ObjectID) error

	CategoryPostCount(ctx context.Context, name string) (int64, error)
	TagPostCount(ctx context.Context, name string) (int64, error)

	ApplyPostDelta(ctx context.Context, category string, tags []string, delta int64) error
	ApplyPostDiff(ctx context.Context, oldCategory, newCategory string, oldTags, newTags []string) error
	Reconcile(ctx context.Context) error
}

type TaxonomyServiceImpl struct {
	categoryRepo repository.TaxonomyRepo
	tagRepo      repository.TaxonomyRepo
	postRepo     repository.PostRepo
	store        ImageStore
}

func NewTaxonomyService(categoryRepo, tagRepo repository.TaxonomyRepo, postRepo repository.PostRepo, store ImageStore) TaxonomyService {
	return &TaxonomyServiceImpl{
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		postRepo:     postRepo,
		store:        store,
	}
}

func (s *TaxonomyServiceImpl) CreateCategory(ctx context.Context, createDTO *dto.CreateTaxonomyDTO, image []byte, contentType string) (*dto.TaxonomyDTO, error) {
	return s.create(ctx, s.categoryRepo, consts.ImageScopeCategory, createDTO, image, contentType)
}

func (s *TaxonomyServiceImpl) CreateTag(ctx context.Context, createDTO *dto.CreateTaxonomyDTO, image []byte, contentType string) (*dto.TaxonomyDTO, error) {
	return s.create(ctx, s.tagRepo, consts.ImageScopeTag, createDTO, image, contentType)
}

func (s *TaxonomyServiceImpl) ListCategories(ctx context.Context) ([]*dto.TaxonomyDTO, error) {
	return s.list(ctx, s.categoryRepo)
}

func (s *TaxonomyServiceImpl) ListTags(ctx context.Context) ([]*dto.TaxonomyDTO, error) {
	return s.list(ctx, s.tagRepo)
}

func (s *TaxonomyServiceImpl) UpdateCategory(ctx context.Context, id primitive.ObjectID, updateDTO *dto.UpdateTaxonomyDTO, image []byte, contentType string) error {
	return s.update(ctx, s.categoryRepo, consts.ImageScopeCategory, id, updateDTO, image, contentType)
}

func (s *TaxonomyServiceImpl) UpdateTag(ctx context.Context, id primitive.ObjectID, updateDTO *dto.UpdateTaxonomyDTO, image []byte, contentType string) error {
	return s.update(ctx, s.tagRepo, consts.ImageScopeTag, id, updateDTO, image, contentType)
}

func (s *TaxonomyServiceImpl) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	return s.delete(ctx, s.categoryRepo, consts.CategoryCountKey, id)
}

func (s *TaxonomyServiceImpl) DeleteTag(ctx context.Context, id primitive.ObjectID) error {
	return s.delete(ctx, s.tagRepo, consts.TagCountKey, id)
}

func (s *TaxonomyServiceImpl) CategoryPostCount(ctx context.Context, name string) (int64, error) {
	return s.postCount(ctx, s.categoryRepo, consts.CategoryCountKey, name)
}

func (s *TaxonomyServiceImpl) TagPostCount(ctx context.Context, name string) (int64, error) {
	return s.postCount(ctx, s.tagRepo, consts.TagCountKey, name)
}

// ApplyPostDelta 帖子创建 delta=+1，删除 delta=-1，分类与各标签各记一次
func (s *TaxonomyServiceImpl) ApplyPostDelta(ctx context.Context, category string, tags []string, delta int64) error {
	if category != "" {
		if err := s.categoryRepo.IncPostCount(ctx, category, delta); err != nil {
			return err
		}
		s.bustCount(ctx, consts.CategoryCountKey, category)
	}
	for _, tag := range uniqueNames(tags) {
		if err := s.tagRepo.IncPostCount(ctx, tag, delta); err != nil {
			return err
		}
		s.bustCount(ctx, consts.TagCountKey, tag)
	}
	return nil
}

// ApplyPostDiff 帖子改挂分类或标签，只动两边差集
func (s *TaxonomyServiceImpl) ApplyPostDiff(ctx context.Context, oldCategory, newCategory string, oldTags, newTags []string) error {
	if oldCategory != newCategory {
		if oldCategory != "" {
			if err := s.categoryRepo.IncPostCount(ctx, oldCategory, -1); err != nil {
				return err
			}
			s.bustCount(ctx, consts.CategoryCountKey, oldCategory)
		}
		if newCategory != "" {
			if err := s.categoryRepo.IncPostCount(ctx, newCategory, 1); err != nil {
				return err
			}
			s.bustCount(ctx, consts.CategoryCountKey, newCategory)
		}
	}

	oldSet := make(map[string]bool)
	for _, tag := range uniqueNames(oldTags) {
		oldSet[tag] = true
	}
	newSet := make(map[string]bool)
	for _, tag := range uniqueNames(newTags) {
		newSet[tag] = true
	}

	for tag := range oldSet {
		if !newSet[tag] {
			if err := s.tagRepo.IncPostCount(ctx, tag, -1); err != nil {
				return err
			}
			s.bustCount(ctx, consts.TagCountKey, tag)
		}
	}
	for tag := range newSet {
		if !oldSet[tag] {
			if err := s.tagRepo.IncPostCount(ctx, tag, 1); err != nil {
				return err
			}
			s.bustCount(ctx, consts.TagCountKey, tag)
		}
	}
	return nil
}

// Reconcile 定时对账：以帖子集合的真实计数覆盖冗余计数
func (s *TaxonomyServiceImpl) Reconcile(ctx context.Context) error {
	categories, err := s.categoryRepo.ListNames(ctx)
	if err != nil {
		return err
	}
	for _, name := range categories {
		real, err := s.postRepo.CountByCategory(ctx, name)
		if err != nil {
			return err
		}
		if err = s.categoryRepo.SetPostCount(ctx, name, real); err != nil {
			return err
		}
		s.bustCount(ctx, consts.CategoryCountKey, name)
	}

	tags, err := s.tagRepo.ListNames(ctx)
	if err != nil {
		return err
	}
	for _, name := range tags {
		real, err := s.postRepo.CountByTag(ctx, name)
		if err != nil {
			return err
		}
		if err = s.tagRepo.SetPostCount(ctx, name, real); err != nil {
			return err
		}
		s.bustCount(ctx, consts.TagCountKey, name)
	}

	log.InfoContext(ctx, "taxonomy counts reconciled",
		"categories", len(categories), "tags", len(tags))
	return nil
}

func (s *TaxonomyServiceImpl) create(ctx context.Context, repo repository.TaxonomyRepo, scope string, createDTO *dto.CreateTaxonomyDTO, image []byte, contentType string) (*dto.TaxonomyDTO, error) {
	existing, err := repo.GetByName(ctx, createDTO.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTaxonomyExist
	}

	entry := &model.Category{
		Name:        createDTO.Name,
		Description: createDTO.Description,
	}

	if len(image) > 0 {
		info, err := s.store.Upload(ctx, scope, uuid.NewString(), image, contentType)
		if err != nil {
			return nil, ErrImageUpload
		}
		entry.BackgroundImage = info.URL
	}

	if err = repo.Create(ctx, entry); err != nil {
		if entry.BackgroundImage != "" {
			s.store.Release(ctx, entry.BackgroundImage)
		}
		return nil, err
	}
	return toTaxonomyDTO(entry), nil
}

func (s *TaxonomyServiceImpl) list(ctx context.Context, repo repository.TaxonomyRepo) ([]*dto.TaxonomyDTO, error) {
	entries, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.TaxonomyDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, toTaxonomyDTO(entry))
	}
	return result, nil
}

func (s *TaxonomyServiceImpl) update(ctx context.Context, repo repository.TaxonomyRepo, scope string, id primitive.ObjectID, updateDTO *dto.UpdateTaxonomyDTO, image []byte, contentType string) error {
	entry, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrTaxonomyNotFound
	}

	set := bson.M{}
	if updateDTO.Description != nil {
		set["description"] = *updateDTO.Description
	}

	if len(image) > 0 {
		info, err := s.store.Upload(ctx, scope, uuid.NewString(), image, contentType)
		if err != nil {
			return ErrImageUpload
		}
		set["background_image"] = info.URL
	}

	if len(set) == 0 {
		return nil
	}

	if err = repo.Update(ctx, id, set); err != nil {
		return ErrTaxonomyNotFound
	}

	if newURL, ok := set["background_image"]; ok && entry.BackgroundImage != "" && entry.BackgroundImage != newURL {
		s.store.Release(ctx, entry.BackgroundImage)
	}
	return nil
}

// delete 只摘掉登记项，挂在其名下的帖子不动，对应计数缓存一并失效
func (s *TaxonomyServiceImpl) delete(ctx context.Context, repo repository.TaxonomyRepo, countKeyPrefix string, id primitive.ObjectID) error {
	entry, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrTaxonomyNotFound
	}

	if err = repo.Delete(ctx, id); err != nil {
		return err
	}

	if entry.BackgroundImage != "" {
		s.store.Release(ctx, entry.BackgroundImage)
	}
	s.bustCount(ctx, countKeyPrefix, entry.Name)
	return nil
}

func (s *TaxonomyServiceImpl) postCount(ctx context.Context, repo repository.TaxonomyRepo, keyPrefix, name string) (int64, error) {
	key := keyPrefix + name

	valStr, err := redis.GetValue(ctx, key)
	if err == nil && valStr != "" {
		return strconv.ParseInt(valStr, 10, 64)
	}

	entry, err := repo.GetByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if entry == nil {
		return 0, ErrTaxonomyNotFound
	}

	_ = redis.SetWithExpiration(ctx, key, entry.PostCount, taxonomyCountTTL)
	return entry.PostCount, nil
}

func (s *TaxonomyServiceImpl) bustCount(ctx context.Context, keyPrefix, name string) {
	_ = redis.DeleteKey(ctx, keyPrefix+name)
}

func toTaxonomyDTO(entry *model.Category) *dto.TaxonomyDTO {
	return &dto.TaxonomyDTO{
		ID:              entry.ID.Hex(),
		Name:            entry.Name,
		Description:     entry.Description,
		BackgroundImage: entry.BackgroundImage,
		PostCount:       entry.PostCount,
	}
}

// uniqueNames 去重并丢弃空串
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	return result
}
