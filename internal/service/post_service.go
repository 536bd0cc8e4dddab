package service

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/model"
	"Inkcard/internal/pkg/consts"
	"Inkcard/internal/repository"
	"context"
	log "log/slog"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, createDTO *dto.CreatePostDTO, image []byte, contentType string) (*dto.PostDTO, error)
	Get(ctx context.Context, postID, viewerID primitive.ObjectID) (*dto.PostDTO, error)
	Discover(ctx context.Context, limit int64, viewerID primitive.ObjectID) ([]*dto.PostDTO, error)
	ListByOwner(ctx context.Context, ownerID, viewerID primitive.ObjectID) ([]*dto.PostDTO, error)
	ListByCategory(ctx context.Context, category string, viewerID primitive.ObjectID) ([]*dto.PostDTO, error)
	ListByTag(ctx context.Context, tag string, viewerID primitive.ObjectID) ([]*dto.PostDTO, error)
	ListSaved(ctx context.Context, userID primitive.ObjectID) ([]*dto.PostDTO, error)
	Update(ctx context.Context, actorID, postID primitive.ObjectID, updateDTO *dto.UpdatePostDTO, isAdmin bool) error
	Delete(ctx context.Context, actorID, postID primitive.ObjectID, isAdmin bool) error
}

type PostServiceImpl struct {
	postRepo    repository.PostRepo
	userRepo    repository.UserRepo
	commentRepo repository.CommentRepo
	taxonomySvc TaxonomyService
	notifySvc   NotificationService
	store       ImageStore
}

func NewPostService(
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	commentRepo repository.CommentRepo,
	taxonomySvc TaxonomyService,
	notifySvc NotificationService,
	store ImageStore,
) PostService {
	return &PostServiceImpl{
		postRepo:    postRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		taxonomySvc: taxonomySvc,
		notifySvc:   notifySvc,
		store:       store,
	}
}

// Create 落库后同步分类/标签计数，背景图上传失败则整体回滚
func (s *PostServiceImpl) Create(ctx context.Context, ownerID primitive.ObjectID, createDTO *dto.CreatePostDTO, image []byte, contentType string) (*dto.PostDTO, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}

	post := &model.Post{}
	if err = copier.Copy(post, createDTO); err != nil {
		return nil, err
	}
	post.OwnerID = ownerID
	post.Tags = uniqueNames(createDTO.Tags)

	if err = s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if err = s.taxonomySvc.ApplyPostDelta(ctx, post.Category, post.Tags, 1); err != nil {
		_ = s.postRepo.Delete(ctx, post.ID)
		return nil, err
	}

	if len(image) > 0 {
		info, err := s.store.Upload(ctx, consts.ImageScopePost, uuid.NewString(), image, contentType)
		if err != nil {
			s.rollbackCreate(ctx, post)
			return nil, ErrImageUpload
		}

		set := bson.M{
			"background_image": info.URL,
			"width":            info.Width,
			"height":           info.Height,
		}
		if err = s.postRepo.Update(ctx, post.ID, set); err != nil {
			s.store.Release(ctx, info.URL)
			s.rollbackCreate(ctx, post)
			return nil, err
		}
		post.BackgroundImage = info.URL
		post.Width = info.Width
		post.Height = info.Height
	}

	if err = s.userRepo.AppendPost(ctx, ownerID, post.ID); err != nil {
		return nil, err
	}

	return toPostDTO(post, ownerID), nil
}

func (s *PostServiceImpl) Get(ctx context.Context, postID, viewerID primitive.ObjectID) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return toPostDTO(post, viewerID), nil
}

// Discover 发现页随机取样
func (s *PostServiceImpl) Discover(ctx context.Context, limit int64, viewerID primitive.ObjectID) ([]*dto.PostDTO, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	posts, err := s.postRepo.Sample(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toPostDTOs(posts, viewerID), nil
}

func (s *PostServiceImpl) ListByOwner(ctx context.Context, ownerID, viewerID primitive.ObjectID) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toPostDTOs(posts, viewerID), nil
}

func (s *PostServiceImpl) ListByCategory(ctx context.Context, category string, viewerID primitive.ObjectID) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return toPostDTOs(posts, viewerID), nil
}

func (s *PostServiceImpl) ListByTag(ctx context.Context, tag string, viewerID primitive.ObjectID) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.ListByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	return toPostDTOs(posts, viewerID), nil
}

// ListSaved 按收藏顺序返回（最近收藏在前），已删除的帖子跳过
func (s *PostServiceImpl) ListSaved(ctx context.Context, userID primitive.ObjectID) ([]*dto.PostDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	posts, err := s.postRepo.GetByIDs(ctx, user.Saved)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*model.Post, len(posts))
	for _, post := range posts {
		byID[post.ID] = post
	}

	result := make([]*dto.PostDTO, 0, len(user.Saved))
	for _, id := range user.Saved {
		post, ok := byID[id]
		if !ok {
			continue
		}
		result = append(result, toPostDTO(post, userID))
	}
	return result, nil
}

// Update 只有作者或管理员可改；分类或标签变动时按差集调整计数
func (s *PostServiceImpl) Update(ctx context.Context, actorID, postID primitive.ObjectID, updateDTO *dto.UpdatePostDTO, isAdmin bool) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.OwnerID != actorID && !isAdmin {
		return UnauthorizedError
	}

	set := bson.M{}
	if updateDTO.Title != nil {
		set["title"] = *updateDTO.Title
	}
	if updateDTO.Content != nil {
		set["content"] = *updateDTO.Content
	}
	if updateDTO.Author != nil {
		set["author"] = *updateDTO.Author
	}
	if updateDTO.ContentColor != nil {
		set["content_color"] = *updateDTO.ContentColor
	}
	if updateDTO.AuthorColor != nil {
		set["author_color"] = *updateDTO.AuthorColor
	}
	if updateDTO.TintColor != nil {
		set["tint_color"] = *updateDTO.TintColor
	}

	newCategory := post.Category
	if updateDTO.Category != nil {
		newCategory = *updateDTO.Category
		set["category"] = newCategory
	}
	newTags := post.Tags
	if updateDTO.Tags != nil {
		newTags = uniqueNames(*updateDTO.Tags)
		set["tags"] = newTags
	}

	if len(set) == 0 {
		return nil
	}

	if err = s.postRepo.Update(ctx, postID, set); err != nil {
		return ErrPostNotFound
	}

	return s.taxonomySvc.ApplyPostDiff(ctx, post.Category, newCategory, post.Tags, newTags)
}

// Delete 删除帖子并级联清理评论、回复、收藏、通知、计数和背景图
func (s *PostServiceImpl) Delete(ctx context.Context, actorID, postID primitive.ObjectID, isAdmin bool) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.OwnerID != actorID && !isAdmin {
		return UnauthorizedError
	}

	// 主文档最后删：级联半途重跑时帖子仍可寻址，各子步骤自身幂等
	if post.BackgroundImage != "" {
		s.store.Release(ctx, post.BackgroundImage)
	}

	if err = s.taxonomySvc.ApplyPostDelta(ctx, post.Category, post.Tags, -1); err != nil {
		return err
	}

	if err = s.userRepo.PullPost(ctx, post.OwnerID, postID); err != nil {
		return err
	}
	if err = s.userRepo.PullSavedFromAll(ctx, postID); err != nil {
		return err
	}

	if err = s.notifySvc.RetractByPost(ctx, postID); err != nil {
		log.WarnContext(ctx, "post notifications not retracted", "post", postID.Hex(), "err", err)
	}

	if err = s.commentRepo.DeleteRepliesByPost(ctx, postID); err != nil {
		return err
	}
	if err = s.commentRepo.DeleteCommentsByPost(ctx, postID); err != nil {
		return err
	}

	return s.postRepo.Delete(ctx, postID)
}

// rollbackCreate 撤销已写入的帖子及其计数增量
func (s *PostServiceImpl) rollbackCreate(ctx context.Context, post *model.Post) {
	if err := s.taxonomySvc.ApplyPostDelta(ctx, post.Category, post.Tags, -1); err != nil {
		log.ErrorContext(ctx, "post create rollback: counts not reverted", "post", post.ID.Hex(), "err", err)
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		log.ErrorContext(ctx, "post create rollback: document not removed", "post", post.ID.Hex(), "err", err)
	}
}

func toPostDTO(post *model.Post, viewerID primitive.ObjectID) *dto.PostDTO {
	postDTO := &dto.PostDTO{
		ID:              post.ID.Hex(),
		OwnerID:         post.OwnerID.Hex(),
		Title:           post.Title,
		Content:         post.Content,
		Author:          post.Author,
		Category:        post.Category,
		Tags:            post.Tags,
		ContentColor:    post.ContentColor,
		AuthorColor:     post.AuthorColor,
		TintColor:       post.TintColor,
		BackgroundImage: post.BackgroundImage,
		Width:           post.Width,
		Height:          post.Height,
		LikeCount:       len(post.Likes),
		CreatedAt:       post.CreatedAt,
	}
	if !viewerID.IsZero() {
		for _, like := range post.Likes {
			if like == viewerID {
				postDTO.IsLiked = true
				break
			}
		}
	}
	return postDTO
}

func toPostDTOs(posts []*model.Post, viewerID primitive.ObjectID) []*dto.PostDTO {
	result := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		result = append(result, toPostDTO(post, viewerID))
	}
	return result
}
