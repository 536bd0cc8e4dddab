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

type taxonomyEnv struct {
	categoryRepo *fakeTaxonomyRepo
	tagRepo      *fakeTaxonomyRepo
	postRepo     *fakePostRepo
	store        *fakeImageStore
	svc          TaxonomyService
}

func newTaxonomyEnv(categories, tags []string) *taxonomyEnv {
	env := &taxonomyEnv{
		categoryRepo: newFakeTaxonomyRepo(categories...),
		tagRepo:      newFakeTaxonomyRepo(tags...),
		postRepo:     newFakePostRepo(),
		store:        &fakeImageStore{},
	}
	env.svc = NewTaxonomyService(env.categoryRepo, env.tagRepo, env.postRepo, env.store)
	return env
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	env := newTaxonomyEnv([]string{"poetry"}, nil)

	_, err := env.svc.CreateCategory(context.Background(), &dto.CreateTaxonomyDTO{Name: "poetry"}, nil, "")
	assert.ErrorIs(t, err, ErrTaxonomyExist)

	created, err := env.svc.CreateCategory(context.Background(), &dto.CreateTaxonomyDTO{Name: "prose", Description: "散文"}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "prose", created.Name)
	assert.Equal(t, "散文", created.Description)
}

func TestApplyPostDelta(t *testing.T) {
	env := newTaxonomyEnv([]string{"poetry"}, []string{"night", "rain"})
	ctx := context.Background()

	require.NoError(t, env.svc.ApplyPostDelta(ctx, "poetry", []string{"night", "rain"}, 1))
	require.NoError(t, env.svc.ApplyPostDelta(ctx, "poetry", []string{"night"}, 1))

	assert.Equal(t, int64(2), env.categoryRepo.count("poetry"))
	assert.Equal(t, int64(2), env.tagRepo.count("night"))
	assert.Equal(t, int64(1), env.tagRepo.count("rain"))

	require.NoError(t, env.svc.ApplyPostDelta(ctx, "poetry", []string{"night", "rain"}, -1))
	assert.Equal(t, int64(1), env.categoryRepo.count("poetry"))
	assert.Equal(t, int64(1), env.tagRepo.count("night"))
	assert.Equal(t, int64(0), env.tagRepo.count("rain"))
}

// 未登记的名称静默跳过，计数不报错
func TestApplyPostDeltaUnknownNames(t *testing.T) {
	env := newTaxonomyEnv([]string{"poetry"}, []string{"night"})

	err := env.svc.ApplyPostDelta(context.Background(), "unknown", []string{"ghost"}, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), env.categoryRepo.count("poetry"))
}

// 计数不会被减成负数
func TestApplyPostDeltaGuardsNegative(t *testing.T) {
	env := newTaxonomyEnv([]string{"poetry"}, nil)

	require.NoError(t, env.svc.ApplyPostDelta(context.Background(), "poetry", nil, -1))
	assert.Equal(t, int64(0), env.categoryRepo.count("poetry"))
}

func TestApplyPostDiff(t *testing.T) {
	env := newTaxonomyEnv([]string{"poetry", "prose"}, []string{"night", "rain", "wind"})
	ctx := context.Background()

	require.NoError(t, env.svc.ApplyPostDelta(ctx, "poetry", []string{"night", "rain"}, 1))

	require.NoError(t, env.svc.ApplyPostDiff(ctx, "poetry", "prose", []string{"night", "rain"}, []string{"rain", "wind"}))

	assert.Equal(t, int64(0), env.categoryRepo.count("poetry"))
	assert.Equal(t, int64(1), env.categoryRepo.count("prose"))
	assert.Equal(t, int64(0), env.tagRepo.count("night"))
	// 交集不动
	assert.Equal(t, int64(1), env.tagRepo.count("rain"))
	assert.Equal(t, int64(1), env.tagRepo.count("wind"))
}

// 分类和标签都没变时不产生任何计数变化
func TestApplyPostDiffNoChange(t *testing.T) {
	env := newTaxonomyEnv([]string{"poetry"}, []string{"night"})
	ctx := context.Background()

	require.NoError(t, env.svc.ApplyPostDelta(ctx, "poetry", []string{"night"}, 1))
	require.NoError(t, env.svc.ApplyPostDiff(ctx, "poetry", "poetry", []string{"night"}, []string{"night"}))

	assert.Equal(t, int64(1), env.categoryRepo.count("poetry"))
	assert.Equal(t, int64(1), env.tagRepo.count("night"))
}

// 对账用帖子集合的真实计数覆盖漂移的冗余计数
func TestReconcile(t *testing.T) {
	env := newTaxonomyEnv([]string{"poetry"}, []string{"night"})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		post := &model.Post{OwnerID: primitive.NewObjectID(), Category: "poetry", Tags: []string{"night"}}
		require.NoError(t, env.postRepo.Create(ctx, post))
	}

	// 人为制造漂移
	require.NoError(t, env.categoryRepo.SetPostCount(ctx, "poetry", 99))
	require.NoError(t, env.tagRepo.SetPostCount(ctx, "night", 1))

	require.NoError(t, env.svc.Reconcile(ctx))

	assert.Equal(t, int64(3), env.categoryRepo.count("poetry"))
	assert.Equal(t, int64(3), env.tagRepo.count("night"))
}

func TestDeleteTaxonomyReleasesImage(t *testing.T) {
	env := newTaxonomyEnv(nil, nil)
	ctx := context.Background()

	entry := &model.Category{Name: "poetry", BackgroundImage: "https://img.test/inkcard/category/x"}
	require.NoError(t, env.categoryRepo.Create(ctx, entry))

	require.NoError(t, env.svc.DeleteCategory(ctx, entry.ID))
	assert.Equal(t, []string{"https://img.test/inkcard/category/x"}, env.store.released)

	assert.ErrorIs(t, env.svc.DeleteCategory(ctx, entry.ID), ErrTaxonomyNotFound)
}

func TestUniqueNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueNames([]string{"a", "", "b", "a"}))
	assert.Empty(t, uniqueNames(nil))
}
