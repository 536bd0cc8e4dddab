package service

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/model"
	"Inkcard/internal/pkg/consts"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBadgeLogRepo struct {
	entries []*model.BadgeAssignmentLog
}

func (s *fakeBadgeLogRepo) Create(_ context.Context, entry *model.BadgeAssignmentLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeBadgeLogRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*model.BadgeAssignmentLog, error) {
	var result []*model.BadgeAssignmentLog
	for _, entry := range s.entries {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type adminEnv struct {
	userRepo     *fakeUserRepo
	postRepo     *fakePostRepo
	commentRepo  *fakeCommentRepo
	notifyRepo   *fakeNotificationRepo
	badgeLogRepo *fakeBadgeLogRepo
	categoryRepo *fakeTaxonomyRepo
	tagRepo      *fakeTaxonomyRepo
	store        *fakeImageStore
	svc          AdminService
	postSvc      PostService
	actionSvc    PostActionService
	commentSvc   CommentService
	followSvc    UserFollowService
}

func newAdminEnv() *adminEnv {
	env := &adminEnv{
		userRepo:     newFakeUserRepo(),
		postRepo:     newFakePostRepo(),
		commentRepo:  newFakeCommentRepo(),
		notifyRepo:   newFakeNotificationRepo(),
		badgeLogRepo: &fakeBadgeLogRepo{},
		categoryRepo: newFakeTaxonomyRepo("poetry"),
		tagRepo:      newFakeTaxonomyRepo("night"),
		store:        &fakeImageStore{},
	}
	notifySvc := NewNotificationService(env.notifyRepo)
	taxonomySvc := NewTaxonomyService(env.categoryRepo, env.tagRepo, env.postRepo, env.store)
	env.postSvc = NewPostService(env.postRepo, env.userRepo, env.commentRepo, taxonomySvc, notifySvc, env.store)
	env.actionSvc = NewPostActionService(env.postRepo, env.userRepo, env.commentRepo, notifySvc)
	env.commentSvc = NewCommentService(env.commentRepo, env.postRepo, notifySvc)
	env.followSvc = NewUserFollowService(env.userRepo, notifySvc)
	env.svc = NewAdminService(env.userRepo, env.postRepo, env.commentRepo, env.badgeLogRepo,
		env.postSvc, notifySvc, taxonomySvc, env.store)
	return env
}

func TestAssignBadgeWritesAuditLog(t *testing.T) {
	env := newAdminEnv()
	ctx := context.Background()

	admin := env.userRepo.add(&model.User{Username: "admin", Role: consts.RoleAdmin})
	user := env.userRepo.add(&model.User{Username: "user", Badge: consts.BadgeNone})

	require.NoError(t, env.svc.AssignBadge(ctx, admin.ID, user.ID, &dto.AssignBadgeDTO{Badge: consts.BadgeGold}))
	assert.Equal(t, consts.BadgeGold, user.Badge)

	history, err := env.svc.BadgeHistory(ctx, user.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, consts.BadgeGold, history[0].Badge)
	assert.Equal(t, admin.ID.Hex(), history[0].AssignedBy)
	assert.WithinDuration(t, time.Now(), history[0].AssignedAt, time.Minute)
}

func TestAssignBadgeMissingUser(t *testing.T) {
	env := newAdminEnv()
	admin := env.userRepo.add(&model.User{Username: "admin"})

	err := env.svc.AssignBadge(context.Background(), admin.ID, primitive.NewObjectID(), &dto.AssignBadgeDTO{Badge: consts.BadgeBlue})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, env.badgeLogRepo.entries)
}

// 删号级联：帖子、评论、回复、点赞、收藏、关注边、通知、头像全部清理
func TestDeleteUserCascades(t *testing.T) {
	env := newAdminEnv()
	ctx := context.Background()

	target := env.userRepo.add(&model.User{Username: "target", Profile: "https://img.test/inkcard/profile/t"})
	other := env.userRepo.add(&model.User{Username: "other"})

	// target 发一篇帖子，other 与之互动
	postDTO, err := env.postSvc.Create(ctx, target.ID, &dto.CreatePostDTO{
		Title: "遗稿", Content: "正文", Author: "target", Category: "poetry", Tags: []string{"night"},
	}, nil, "")
	require.NoError(t, err)
	targetPostID := mustObjectID(t, postDTO.ID)
	_, err = env.actionSvc.LikePost(ctx, other.ID, targetPostID)
	require.NoError(t, err)
	_, err = env.actionSvc.SavePost(ctx, other.ID, targetPostID)
	require.NoError(t, err)

	// other 发一篇帖子，target 在上面留下评论、回复和赞
	otherPostDTO, err := env.postSvc.Create(ctx, other.ID, &dto.CreatePostDTO{
		Title: "留存", Content: "正文", Author: "other", Category: "poetry",
	}, nil, "")
	require.NoError(t, err)
	otherPostID := mustObjectID(t, otherPostDTO.ID)
	_, err = env.actionSvc.LikePost(ctx, target.ID, otherPostID)
	require.NoError(t, err)
	commentDTO, err := env.commentSvc.AddComment(ctx, target.ID, otherPostID, &dto.AddCommentDTO{Text: "target 的评论"})
	require.NoError(t, err)
	targetCommentID := mustObjectID(t, commentDTO.ID)
	_, err = env.commentSvc.AddReply(ctx, other.ID, otherPostID, targetCommentID, &dto.AddReplyDTO{Text: "挂在 target 评论下"})
	require.NoError(t, err)

	// 第三方在 target 评论下互动：bystander 的回复被 other 点赞，
	// 该回复会随 target 的评论一起被删，赞通知不能悬挂
	bystander := env.userRepo.add(&model.User{Username: "bystander"})
	bystanderReplyDTO, err := env.commentSvc.AddReply(ctx, bystander.ID, otherPostID, targetCommentID, &dto.AddReplyDTO{Text: "路人的回复"})
	require.NoError(t, err)
	_, err = env.actionSvc.LikeReply(ctx, other.ID, targetCommentID, mustObjectID(t, bystanderReplyDTO.ID))
	require.NoError(t, err)
	require.NotEmpty(t, env.notifyRepo.forRecipient(bystander.ID))

	// 关注图双向
	require.NoError(t, env.followSvc.Follow(ctx, target.ID, other.ID))
	require.NoError(t, env.followSvc.Follow(ctx, other.ID, target.ID))

	admin := env.userRepo.add(&model.User{Username: "admin", Role: consts.RoleAdmin})
	require.NoError(t, env.svc.DeleteUser(ctx, admin.ID, target.ID))

	// 用户与其帖子消失
	assert.NotContains(t, env.userRepo.users, target.ID)
	assert.NotContains(t, env.postRepo.posts, targetPostID)

	// 他人帖子存活，但 target 的痕迹被清
	survivor := env.postRepo.posts[otherPostID]
	require.NotNil(t, survivor)
	assert.Empty(t, survivor.Likes)
	assert.Empty(t, env.commentRepo.comments)
	assert.Empty(t, env.commentRepo.replies)

	// 关注边双向摘除，收藏同步清理
	assert.Empty(t, other.Following)
	assert.Empty(t, other.Followers)
	assert.Empty(t, other.Saved)

	// 与 target 有关的通知全部消失
	for _, item := range env.notifyRepo.items {
		assert.NotEqual(t, target.ID, item.RecipientID)
		assert.NotEqual(t, target.ID, item.SenderID)
	}

	// 指向被级联删除回复的第三方通知同样撤回
	assert.Empty(t, env.notifyRepo.forRecipient(bystander.ID))

	// 分类计数只剩存活的那篇
	assert.Equal(t, int64(1), env.categoryRepo.count("poetry"))
	assert.Equal(t, int64(0), env.tagRepo.count("night"))

	assert.Contains(t, env.store.released, "https://img.test/inkcard/profile/t")
}

func TestDeleteUserMissing(t *testing.T) {
	env := newAdminEnv()
	admin := env.userRepo.add(&model.User{Username: "admin", Role: consts.RoleAdmin})

	err := env.svc.DeleteUser(context.Background(), admin.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// 管理员不能删除自己
func TestDeleteUserSelf(t *testing.T) {
	env := newAdminEnv()
	admin := env.userRepo.add(&model.User{Username: "admin", Role: consts.RoleAdmin})

	err := env.svc.DeleteUser(context.Background(), admin.ID, admin.ID)
	assert.ErrorIs(t, err, UnauthorizedError)
	assert.Contains(t, env.userRepo.users, admin.ID)
}

func TestReconcileCounts(t *testing.T) {
	env := newAdminEnv()
	ctx := context.Background()

	require.NoError(t, env.categoryRepo.SetPostCount(ctx, "poetry", 42))
	require.NoError(t, env.svc.ReconcileCounts(ctx))
	assert.Equal(t, int64(0), env.categoryRepo.count("poetry"))
}
