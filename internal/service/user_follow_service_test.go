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

type followEnv struct {
	userRepo   *fakeUserRepo
	notifyRepo *fakeNotificationRepo
	svc        UserFollowService
}

func newFollowEnv() *followEnv {
	env := &followEnv{
		userRepo:   newFakeUserRepo(),
		notifyRepo: newFakeNotificationRepo(),
	}
	env.svc = NewUserFollowService(env.userRepo, NewNotificationService(env.notifyRepo))
	return env
}

func TestFollowAndUnfollow(t *testing.T) {
	env := newFollowEnv()
	ctx := context.Background()

	actor := env.userRepo.add(&model.User{Username: "actor"})
	target := env.userRepo.add(&model.User{Username: "target"})

	require.NoError(t, env.svc.Follow(ctx, actor.ID, target.ID))

	// 两侧镜像同时成立
	assert.True(t, containsOID(actor.Following, target.ID))
	assert.True(t, containsOID(target.Followers, actor.ID))

	inbox := env.notifyRepo.forRecipient(target.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, consts.NotifyFollow, inbox[0].Type)
	assert.Equal(t, actor.ID, inbox[0].SenderID)

	require.NoError(t, env.svc.Unfollow(ctx, actor.ID, target.ID))
	assert.False(t, containsOID(actor.Following, target.ID))
	assert.False(t, containsOID(target.Followers, actor.ID))
	assert.Empty(t, env.notifyRepo.forRecipient(target.ID))
}

func TestFollowSelf(t *testing.T) {
	env := newFollowEnv()
	actor := env.userRepo.add(&model.User{Username: "actor"})

	assert.ErrorIs(t, env.svc.Follow(context.Background(), actor.ID, actor.ID), ErrUserFollowSelf)
	assert.ErrorIs(t, env.svc.Unfollow(context.Background(), actor.ID, actor.ID), ErrUserFollowSelf)
}

func TestFollowDuplicate(t *testing.T) {
	env := newFollowEnv()
	ctx := context.Background()

	actor := env.userRepo.add(&model.User{Username: "actor"})
	target := env.userRepo.add(&model.User{Username: "target"})

	require.NoError(t, env.svc.Follow(ctx, actor.ID, target.ID))
	assert.ErrorIs(t, env.svc.Follow(ctx, actor.ID, target.ID), ErrUserFollowExist)

	// 重复关注不会产生重边也不会重复投递
	assert.Len(t, actor.Following, 1)
	assert.Len(t, target.Followers, 1)
	assert.Len(t, env.notifyRepo.forRecipient(target.ID), 1)
}

func TestUnfollowNotFollowing(t *testing.T) {
	env := newFollowEnv()

	actor := env.userRepo.add(&model.User{Username: "actor"})
	target := env.userRepo.add(&model.User{Username: "target"})

	assert.ErrorIs(t, env.svc.Unfollow(context.Background(), actor.ID, target.ID), ErrUserFollowNotExist)
}

func TestFollowMissingTarget(t *testing.T) {
	env := newFollowEnv()
	actor := env.userRepo.add(&model.User{Username: "actor"})

	err := env.svc.Follow(context.Background(), actor.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// 列表保持原数组顺序，已删号的条目跳过
func TestGetFollowersSkipsDeleted(t *testing.T) {
	env := newFollowEnv()
	ctx := context.Background()

	target := env.userRepo.add(&model.User{Username: "target"})
	first := env.userRepo.add(&model.User{Username: "first"})
	second := env.userRepo.add(&model.User{Username: "second"})
	third := env.userRepo.add(&model.User{Username: "third"})

	require.NoError(t, env.svc.Follow(ctx, first.ID, target.ID))
	require.NoError(t, env.svc.Follow(ctx, second.ID, target.ID))
	require.NoError(t, env.svc.Follow(ctx, third.ID, target.ID))

	require.NoError(t, env.userRepo.Delete(ctx, second.ID))

	briefs, err := env.svc.GetFollowers(ctx, target.ID)
	require.NoError(t, err)
	require.Len(t, briefs, 2)
	assert.Equal(t, "first", briefs[0].Username)
	assert.Equal(t, "third", briefs[1].Username)
}
