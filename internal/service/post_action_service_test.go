package service

import (
	"Inkcard/internal/model"
	"Inkcard/internal/pkg/consts"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type actionEnv struct {
	userRepo    *fakeUserRepo
	postRepo    *fakePostRepo
	commentRepo *fakeCommentRepo
	notifyRepo  *fakeNotificationRepo
	svc         PostActionService
}

func newActionEnv() *actionEnv {
	env := &actionEnv{
		userRepo:    newFakeUserRepo(),
		postRepo:    newFakePostRepo(),
		commentRepo: newFakeCommentRepo(),
		notifyRepo:  newFakeNotificationRepo(),
	}
	env.svc = NewPostActionService(env.postRepo, env.userRepo, env.commentRepo, NewNotificationService(env.notifyRepo))
	return env
}

func TestLikePostThenUnlike(t *testing.T) {
	env := newActionEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: owner.ID, Title: "晚风"}
	require.NoError(t, env.postRepo.Create(ctx, post))

	count, err := env.svc.LikePost(ctx, actor.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, containsOID(post.Likes, actor.ID))

	inbox := env.notifyRepo.forRecipient(owner.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, consts.NotifyLike, inbox[0].Type)
	assert.Equal(t, actor.ID, inbox[0].SenderID)
	require.NotNil(t, inbox[0].Like)
	assert.Equal(t, consts.LikeContextPost, inbox[0].Like.Context)
	assert.Equal(t, "晚风", inbox[0].Like.Snippet)

	count, err = env.svc.UnlikePost(ctx, actor.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.False(t, containsOID(post.Likes, actor.ID))
	assert.Empty(t, env.notifyRepo.forRecipient(owner.ID))
}

func TestLikePostDuplicate(t *testing.T) {
	env := newActionEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))

	_, err := env.svc.LikePost(ctx, actor.ID, post.ID)
	require.NoError(t, err)
	_, err = env.svc.LikePost(ctx, actor.ID, post.ID)
	assert.ErrorIs(t, err, ErrActionDuplicate)
	assert.Len(t, post.Likes, 1)
	assert.Len(t, env.notifyRepo.forRecipient(owner.ID), 1)
}

func TestUnlikePostWithoutLike(t *testing.T) {
	env := newActionEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))

	_, err := env.svc.UnlikePost(ctx, actor.ID, post.ID)
	assert.ErrorIs(t, err, ErrActionNotExist)
}

func TestLikePostMissingPost(t *testing.T) {
	env := newActionEnv()
	actor := env.userRepo.add(&model.User{Username: "actor"})

	_, err := env.svc.LikePost(context.Background(), actor.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

// 自己赞自己的帖子不投递通知
func TestLikeOwnPostNoNotification(t *testing.T) {
	env := newActionEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))

	count, err := env.svc.LikePost(ctx, owner.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, containsOID(post.Likes, owner.ID))
	assert.Empty(t, env.notifyRepo.forRecipient(owner.ID))
}

func TestLikeCommentNotifiesAuthor(t *testing.T) {
	env := newActionEnv()
	ctx := context.Background()

	author := env.userRepo.add(&model.User{Username: "author"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: author.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))
	comment := &model.Comment{PostID: post.ID, AuthorID: author.ID, Text: "写得真好"}
	require.NoError(t, env.commentRepo.CreateComment(ctx, comment))

	count, err := env.svc.LikeComment(ctx, actor.ID, post.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	inbox := env.notifyRepo.forRecipient(author.ID)
	require.Len(t, inbox, 1)
	require.NotNil(t, inbox[0].Like)
	assert.Equal(t, consts.LikeContextComment, inbox[0].Like.Context)
	assert.Equal(t, comment.ID, inbox[0].Like.ItemID)
	assert.Equal(t, "写得真好", inbox[0].Like.Snippet)

	// 取消后按元组精确撤回
	count, err = env.svc.UnlikeComment(ctx, actor.ID, post.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, env.notifyRepo.forRecipient(author.ID))
}

// 同一发送者对同一帖子的帖子赞和评论赞是两条互不相干的通知
func TestRetractLikeKeepsOtherContexts(t *testing.T) {
	env := newActionEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))
	comment := &model.Comment{PostID: post.ID, AuthorID: owner.ID, Text: "hi"}
	require.NoError(t, env.commentRepo.CreateComment(ctx, comment))

	_, err := env.svc.LikePost(ctx, actor.ID, post.ID)
	require.NoError(t, err)
	_, err = env.svc.LikeComment(ctx, actor.ID, post.ID, comment.ID)
	require.NoError(t, err)
	require.Len(t, env.notifyRepo.forRecipient(owner.ID), 2)

	_, err = env.svc.UnlikePost(ctx, actor.ID, post.ID)
	require.NoError(t, err)

	inbox := env.notifyRepo.forRecipient(owner.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, consts.LikeContextComment, inbox[0].Like.Context)
}

func TestLikeReply(t *testing.T) {
	env := newActionEnv()
	ctx := context.Background()

	author := env.userRepo.add(&model.User{Username: "author"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: author.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))
	comment := &model.Comment{PostID: post.ID, AuthorID: author.ID}
	require.NoError(t, env.commentRepo.CreateComment(ctx, comment))
	reply := &model.Reply{CommentID: comment.ID, PostID: post.ID, AuthorID: author.ID, Text: "回复正文"}
	require.NoError(t, env.commentRepo.CreateReply(ctx, reply))

	count, err := env.svc.LikeReply(ctx, actor.ID, comment.ID, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	_, err = env.svc.LikeReply(ctx, actor.ID, comment.ID, reply.ID)
	assert.ErrorIs(t, err, ErrActionDuplicate)

	inbox := env.notifyRepo.forRecipient(author.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, consts.LikeContextReply, inbox[0].Like.Context)
	assert.Equal(t, reply.ID, inbox[0].Like.ItemID)
	assert.Equal(t, post.ID, inbox[0].PostID)

	count, err = env.svc.UnlikeReply(ctx, actor.ID, comment.ID, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	_, err = env.svc.UnlikeReply(ctx, actor.ID, comment.ID, reply.ID)
	assert.ErrorIs(t, err, ErrActionNotExist)
	assert.Empty(t, env.notifyRepo.forRecipient(author.ID))
}

func TestSavePostOrderAndDuplicate(t *testing.T) {
	env := newActionEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	first := &model.Post{OwnerID: owner.ID}
	second := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, first))
	require.NoError(t, env.postRepo.Create(ctx, second))

	saved, err := env.svc.SavePost(ctx, actor.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, saved)
	saved, err = env.svc.SavePost(ctx, actor.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	// 最近收藏在前
	require.Equal(t, []primitive.ObjectID{second.ID, first.ID}, actor.Saved)

	// 重复收藏软失败
	saved, err = env.svc.SavePost(ctx, actor.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Len(t, actor.Saved, 2)
}

func TestUnsavePost(t *testing.T) {
	env := newActionEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))

	_, err := env.svc.SavePost(ctx, actor.ID, post.ID)
	require.NoError(t, err)
	removed, err := env.svc.UnsavePost(ctx, actor.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, actor.Saved)

	removed, err = env.svc.UnsavePost(ctx, actor.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	// 账号不存在同样走软路径
	removed, err = env.svc.UnsavePost(ctx, primitive.NewObjectID(), post.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
