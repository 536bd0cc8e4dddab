package service

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type postEnv struct {
	userRepo     *fakeUserRepo
	postRepo     *fakePostRepo
	commentRepo  *fakeCommentRepo
	notifyRepo   *fakeNotificationRepo
	categoryRepo *fakeTaxonomyRepo
	tagRepo      *fakeTaxonomyRepo
	store        *fakeImageStore
	svc          PostService
	actionSvc    PostActionService
	commentSvc   CommentService
}

func newPostEnv() *postEnv {
	env := &postEnv{
		userRepo:     newFakeUserRepo(),
		postRepo:     newFakePostRepo(),
		commentRepo:  newFakeCommentRepo(),
		notifyRepo:   newFakeNotificationRepo(),
		categoryRepo: newFakeTaxonomyRepo("poetry", "prose"),
		tagRepo:      newFakeTaxonomyRepo("night", "rain", "wind"),
		store:        &fakeImageStore{},
	}
	notifySvc := NewNotificationService(env.notifyRepo)
	taxonomySvc := NewTaxonomyService(env.categoryRepo, env.tagRepo, env.postRepo, env.store)
	env.svc = NewPostService(env.postRepo, env.userRepo, env.commentRepo, taxonomySvc, notifySvc, env.store)
	env.actionSvc = NewPostActionService(env.postRepo, env.userRepo, env.commentRepo, notifySvc)
	env.commentSvc = NewCommentService(env.commentRepo, env.postRepo, notifySvc)
	return env
}

func createPostDTO() *dto.CreatePostDTO {
	return &dto.CreatePostDTO{
		Title:    "夜航",
		Content:  "雨停在午夜",
		Author:   "佚名",
		Category: "poetry",
		Tags:     []string{"night", "rain"},
	}
}

func TestCreatePost(t *testing.T) {
	env := newPostEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})

	postDTO, err := env.svc.Create(ctx, owner.ID, createPostDTO(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, "夜航", postDTO.Title)

	postID := mustObjectID(t, postDTO.ID)
	assert.True(t, containsOID(owner.Posts, postID))

	assert.Equal(t, int64(1), env.categoryRepo.count("poetry"))
	assert.Equal(t, int64(1), env.tagRepo.count("night"))
	assert.Equal(t, int64(1), env.tagRepo.count("rain"))
	assert.Equal(t, int64(0), env.tagRepo.count("wind"))
}

// 重复标签只记一次
func TestCreatePostDedupesTags(t *testing.T) {
	env := newPostEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	createDTO := createPostDTO()
	createDTO.Tags = []string{"night", "night", "", "rain"}

	postDTO, err := env.svc.Create(ctx, owner.ID, createDTO, nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"night", "rain"}, postDTO.Tags)
	assert.Equal(t, int64(1), env.tagRepo.count("night"))
}

func TestCreatePostWithImage(t *testing.T) {
	env := newPostEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})

	postDTO, err := env.svc.Create(ctx, owner.ID, createPostDTO(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, postDTO.BackgroundImage)
	assert.Equal(t, 640, postDTO.Width)
	assert.Equal(t, 480, postDTO.Height)
}

// 背景图上传失败整体回滚：帖子删除、计数归零
func TestCreatePostImageFailureRollsBack(t *testing.T) {
	env := newPostEnv()
	env.store.failUpload = true
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})

	_, err := env.svc.Create(ctx, owner.ID, createPostDTO(), []byte{0xFF, 0xD8}, "image/jpeg")
	assert.ErrorIs(t, err, ErrImageUpload)

	assert.Empty(t, env.postRepo.posts)
	assert.Empty(t, owner.Posts)
	assert.Equal(t, int64(0), env.categoryRepo.count("poetry"))
	assert.Equal(t, int64(0), env.tagRepo.count("night"))
	assert.Equal(t, int64(0), env.tagRepo.count("rain"))
}

func TestCreatePostMissingOwner(t *testing.T) {
	env := newPostEnv()

	_, err := env.svc.Create(context.Background(), primitive.NewObjectID(), createPostDTO(), nil, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// 改挂分类与标签只动两边差集
func TestUpdatePostTaxonomyDiff(t *testing.T) {
	env := newPostEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	postDTO, err := env.svc.Create(ctx, owner.ID, createPostDTO(), nil, "")
	require.NoError(t, err)
	postID := mustObjectID(t, postDTO.ID)

	newCategory := "prose"
	newTags := []string{"rain", "wind"}
	err = env.svc.Update(ctx, owner.ID, postID, &dto.UpdatePostDTO{
		Category: &newCategory,
		Tags:     &newTags,
	}, false)
	require.NoError(t, err)

	assert.Equal(t, int64(0), env.categoryRepo.count("poetry"))
	assert.Equal(t, int64(1), env.categoryRepo.count("prose"))
	assert.Equal(t, int64(0), env.tagRepo.count("night"))
	assert.Equal(t, int64(1), env.tagRepo.count("rain"))
	assert.Equal(t, int64(1), env.tagRepo.count("wind"))
}

func TestUpdatePostAuthz(t *testing.T) {
	env := newPostEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	stranger := env.userRepo.add(&model.User{Username: "stranger"})
	postDTO, err := env.svc.Create(ctx, owner.ID, createPostDTO(), nil, "")
	require.NoError(t, err)
	postID := mustObjectID(t, postDTO.ID)

	title := "改名"
	update := &dto.UpdatePostDTO{Title: &title}

	assert.ErrorIs(t, env.svc.Update(ctx, stranger.ID, postID, update, false), UnauthorizedError)
	assert.NoError(t, env.svc.Update(ctx, stranger.ID, postID, update, true))
}

// 删帖全量级联：评论、回复、收藏、通知、计数、背景图
func TestDeletePostCascades(t *testing.T) {
	env := newPostEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	fan := env.userRepo.add(&model.User{Username: "fan"})

	postDTO, err := env.svc.Create(ctx, owner.ID, createPostDTO(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	postID := mustObjectID(t, postDTO.ID)

	_, err = env.actionSvc.LikePost(ctx, fan.ID, postID)
	require.NoError(t, err)
	_, err = env.actionSvc.SavePost(ctx, fan.ID, postID)
	require.NoError(t, err)
	commentDTO, err := env.commentSvc.AddComment(ctx, fan.ID, postID, &dto.AddCommentDTO{Text: "评论"})
	require.NoError(t, err)
	_, err = env.commentSvc.AddReply(ctx, owner.ID, postID, mustObjectID(t, commentDTO.ID), &dto.AddReplyDTO{Text: "回复"})
	require.NoError(t, err)

	require.NotEmpty(t, env.notifyRepo.items)

	require.NoError(t, env.svc.Delete(ctx, owner.ID, postID, false))

	assert.Empty(t, env.postRepo.posts)
	assert.Empty(t, env.commentRepo.comments)
	assert.Empty(t, env.commentRepo.replies)
	assert.Empty(t, owner.Posts)
	assert.Empty(t, fan.Saved)
	assert.Empty(t, env.notifyRepo.items)
	assert.Equal(t, int64(0), env.categoryRepo.count("poetry"))
	assert.Equal(t, int64(0), env.tagRepo.count("night"))
	assert.Equal(t, []string{postDTO.BackgroundImage}, env.store.released)
}

func TestDeletePostAuthz(t *testing.T) {
	env := newPostEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	stranger := env.userRepo.add(&model.User{Username: "stranger"})
	postDTO, err := env.svc.Create(ctx, owner.ID, createPostDTO(), nil, "")
	require.NoError(t, err)
	postID := mustObjectID(t, postDTO.ID)

	assert.ErrorIs(t, env.svc.Delete(ctx, stranger.ID, postID, false), UnauthorizedError)
	assert.NoError(t, env.svc.Delete(ctx, stranger.ID, postID, true))
}

// 收藏列表按收藏顺序返回，已删除的帖子跳过
func TestListSavedOrder(t *testing.T) {
	env := newPostEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	fan := env.userRepo.add(&model.User{Username: "fan"})

	var ids []primitive.ObjectID
	for _, title := range []string{"一", "二", "三"} {
		createDTO := createPostDTO()
		createDTO.Title = title
		postDTO, err := env.svc.Create(ctx, owner.ID, createDTO, nil, "")
		require.NoError(t, err)
		id := mustObjectID(t, postDTO.ID)
		ids = append(ids, id)
		_, err = env.actionSvc.SavePost(ctx, fan.ID, id)
		require.NoError(t, err)
	}

	require.NoError(t, env.svc.Delete(ctx, owner.ID, ids[1], false))

	saved, err := env.svc.ListSaved(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "三", saved[0].Title)
	assert.Equal(t, "一", saved[1].Title)
}

func TestGetPostIsLiked(t *testing.T) {
	env := newPostEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	fan := env.userRepo.add(&model.User{Username: "fan"})
	postDTO, err := env.svc.Create(ctx, owner.ID, createPostDTO(), nil, "")
	require.NoError(t, err)
	postID := mustObjectID(t, postDTO.ID)
	likeCount, err := env.actionSvc.LikePost(ctx, fan.ID, postID)
	require.NoError(t, err)
	assert.Equal(t, 1, likeCount)

	got, err := env.svc.Get(ctx, postID, fan.ID)
	require.NoError(t, err)
	assert.True(t, got.IsLiked)
	assert.Equal(t, 1, got.LikeCount)

	// 游客视角
	got, err = env.svc.Get(ctx, postID, primitive.NilObjectID)
	require.NoError(t, err)
	assert.False(t, got.IsLiked)
}
