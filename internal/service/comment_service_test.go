package service

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/model"
	"Inkcard/internal/pkg/consts"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentEnv struct {
	userRepo    *fakeUserRepo
	postRepo    *fakePostRepo
	commentRepo *fakeCommentRepo
	notifyRepo  *fakeNotificationRepo
	svc         CommentService
	actionSvc   PostActionService
}

func newCommentEnv() *commentEnv {
	env := &commentEnv{
		userRepo:    newFakeUserRepo(),
		postRepo:    newFakePostRepo(),
		commentRepo: newFakeCommentRepo(),
		notifyRepo:  newFakeNotificationRepo(),
	}
	notifySvc := NewNotificationService(env.notifyRepo)
	env.svc = NewCommentService(env.commentRepo, env.postRepo, notifySvc)
	env.actionSvc = NewPostActionService(env.postRepo, env.userRepo, env.commentRepo, notifySvc)
	return env
}

func TestAddCommentNotifiesPostOwner(t *testing.T) {
	env := newCommentEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))

	commentDTO, err := env.svc.AddComment(ctx, actor.ID, post.ID, &dto.AddCommentDTO{Text: "第一条评论"})
	require.NoError(t, err)
	assert.Equal(t, "第一条评论", commentDTO.Text)

	inbox := env.notifyRepo.forRecipient(owner.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, consts.NotifyComment, inbox[0].Type)
	assert.Equal(t, "第一条评论", inbox[0].Snippet)
	assert.False(t, inbox[0].ItemID.IsZero())
}

func TestAddCommentOnOwnPostNoNotification(t *testing.T) {
	env := newCommentEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))

	_, err := env.svc.AddComment(ctx, owner.ID, post.ID, &dto.AddCommentDTO{Text: "自言自语"})
	require.NoError(t, err)
	assert.Empty(t, env.notifyRepo.forRecipient(owner.ID))
}

// 回复通知发给被回复评论的作者，而不是帖主
func TestAddReplyNotifiesCommentAuthor(t *testing.T) {
	env := newCommentEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	author := env.userRepo.add(&model.User{Username: "author"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))
	comment := &model.Comment{PostID: post.ID, AuthorID: author.ID, Text: "评论"}
	require.NoError(t, env.commentRepo.CreateComment(ctx, comment))

	_, err := env.svc.AddReply(ctx, actor.ID, post.ID, comment.ID, &dto.AddReplyDTO{Text: "回你一条"})
	require.NoError(t, err)

	assert.Empty(t, env.notifyRepo.forRecipient(owner.ID))
	inbox := env.notifyRepo.forRecipient(author.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, consts.NotifyReply, inbox[0].Type)
	assert.Equal(t, post.ID, inbox[0].PostID)
}

func TestAddCommentMissingPost(t *testing.T) {
	env := newCommentEnv()
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: actor.ID}
	require.NoError(t, env.postRepo.Create(context.Background(), post))
	require.NoError(t, env.postRepo.Delete(context.Background(), post.ID))

	_, err := env.svc.AddComment(context.Background(), actor.ID, post.ID, &dto.AddCommentDTO{Text: "x"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

// 删评论连带回复树，指向它们的通知全部撤回
func TestDeleteCommentCascades(t *testing.T) {
	env := newCommentEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	author := env.userRepo.add(&model.User{Username: "author"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))

	commentDTO, err := env.svc.AddComment(ctx, author.ID, post.ID, &dto.AddCommentDTO{Text: "评论"})
	require.NoError(t, err)
	commentID := mustObjectID(t, commentDTO.ID)

	_, err = env.svc.AddReply(ctx, actor.ID, post.ID, commentID, &dto.AddReplyDTO{Text: "回复"})
	require.NoError(t, err)

	// 评论赞的通知也指向该评论
	_, err = env.actionSvc.LikeComment(ctx, actor.ID, post.ID, commentID)
	require.NoError(t, err)

	require.Len(t, env.notifyRepo.forRecipient(owner.ID), 1)
	require.Len(t, env.notifyRepo.forRecipient(author.ID), 2)

	require.NoError(t, env.svc.DeleteComment(ctx, author.ID, post.ID, commentID, false))

	comments, err := env.svc.ListComments(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Empty(t, env.commentRepo.replies)

	assert.Empty(t, env.notifyRepo.forRecipient(owner.ID))
	assert.Empty(t, env.notifyRepo.forRecipient(author.ID))
}

// 帖主可删他人评论，无关用户不可
func TestDeleteCommentAuthz(t *testing.T) {
	env := newCommentEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	author := env.userRepo.add(&model.User{Username: "author"})
	stranger := env.userRepo.add(&model.User{Username: "stranger"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))
	comment := &model.Comment{PostID: post.ID, AuthorID: author.ID}
	require.NoError(t, env.commentRepo.CreateComment(ctx, comment))

	assert.ErrorIs(t, env.svc.DeleteComment(ctx, stranger.ID, post.ID, comment.ID, false), UnauthorizedError)
	assert.NoError(t, env.svc.DeleteComment(ctx, owner.ID, post.ID, comment.ID, false))
}

func TestDeleteReplyRetractsNotification(t *testing.T) {
	env := newCommentEnv()
	ctx := context.Background()

	author := env.userRepo.add(&model.User{Username: "author"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	post := &model.Post{OwnerID: author.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))
	comment := &model.Comment{PostID: post.ID, AuthorID: author.ID}
	require.NoError(t, env.commentRepo.CreateComment(ctx, comment))

	replyDTO, err := env.svc.AddReply(ctx, actor.ID, post.ID, comment.ID, &dto.AddReplyDTO{Text: "回复"})
	require.NoError(t, err)
	replyID := mustObjectID(t, replyDTO.ID)
	require.Len(t, env.notifyRepo.forRecipient(author.ID), 1)

	// 回复作者本人删除
	require.NoError(t, env.svc.DeleteReply(ctx, actor.ID, comment.ID, replyID, false))
	assert.Empty(t, env.commentRepo.replies)
	assert.Empty(t, env.notifyRepo.forRecipient(author.ID))
}

func TestDeleteReplyAuthz(t *testing.T) {
	env := newCommentEnv()
	ctx := context.Background()

	owner := env.userRepo.add(&model.User{Username: "owner"})
	author := env.userRepo.add(&model.User{Username: "author"})
	actor := env.userRepo.add(&model.User{Username: "actor"})
	stranger := env.userRepo.add(&model.User{Username: "stranger"})
	post := &model.Post{OwnerID: owner.ID}
	require.NoError(t, env.postRepo.Create(ctx, post))
	comment := &model.Comment{PostID: post.ID, AuthorID: author.ID}
	require.NoError(t, env.commentRepo.CreateComment(ctx, comment))
	first := &model.Reply{CommentID: comment.ID, PostID: post.ID, AuthorID: actor.ID}
	require.NoError(t, env.commentRepo.CreateReply(ctx, first))
	second := &model.Reply{CommentID: comment.ID, PostID: post.ID, AuthorID: actor.ID}
	require.NoError(t, env.commentRepo.CreateReply(ctx, second))

	assert.ErrorIs(t, env.svc.DeleteReply(ctx, stranger.ID, comment.ID, first.ID, false), UnauthorizedError)
	// 所在评论的作者可删
	assert.NoError(t, env.svc.DeleteReply(ctx, author.ID, comment.ID, first.ID, false))
	// 帖主可删自己帖子下任何评论的回复
	assert.NoError(t, env.svc.DeleteReply(ctx, owner.ID, comment.ID, second.ID, false))
	assert.Empty(t, env.commentRepo.replies)
}
