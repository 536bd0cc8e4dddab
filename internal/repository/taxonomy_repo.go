package repository

import (
	"Inkcard/internal/model"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaxonomyRepo 分类与标签结构一致，共用一套实现，name 唯一。
// post_count 只通过带守卫的 $inc 变化，减到 0 为止。
type TaxonomyRepo interface {
	Create(ctx context.Context, entry *model.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]*model.Category, error)
	ListNames(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	IncPostCount(ctx context.Context, name string, delta int64) error
	SetPostCount(ctx context.Context, name string, count int64) error
}

type taxonomyRepoImpl struct {
	col *mongo.Collection
}

func NewCategoryRepo(db *mongo.Database) TaxonomyRepo {
	return &taxonomyRepoImpl{col: db.Collection(ColCategories)}
}

func NewTagRepo(db *mongo.Database) TaxonomyRepo {
	return &taxonomyRepoImpl{col: db.Collection(ColTags)}
}

func (s *taxonomyRepoImpl) Create(ctx context.Context, entry *model.Category) error {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	res, err := s.col.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	entry.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *taxonomyRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	var entry model.Category
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (s *taxonomyRepoImpl) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var entry model.Category
	err := s.col.FindOne(ctx, bson.M{"name": name}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (s *taxonomyRepoImpl) List(ctx context.Context) ([]*model.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var entries []*model.Category
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *taxonomyRepoImpl) ListNames(ctx context.Context) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names, nil
}

func (s *taxonomyRepoImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *taxonomyRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// IncPostCount 原子增减计数；未命中的名称静默容忍，负向增量不会把计数减破 0
func (s *taxonomyRepoImpl) IncPostCount(ctx context.Context, name string, delta int64) error {
	if delta == 0 {
		return nil
	}

	filter := bson.M{"name": name}
	if delta < 0 {
		filter["post_count"] = bson.M{"$gte": -delta}
	}

	_, err := s.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"post_count": delta}})
	return err
}

// SetPostCount 对账任务用，直接写入真实计数
func (s *taxonomyRepoImpl) SetPostCount(ctx context.Context, name string, count int64) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"post_count": count}},
	)
	return err
}
