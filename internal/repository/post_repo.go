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

type PostRepo interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Post, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*model.Post, error)
	ListByCategory(ctx context.Context, category string) ([]*model.Post, error)
	ListByTag(ctx context.Context, tag string) ([]*model.Post, error)
	Sample(ctx context.Context, limit int64) ([]*model.Post, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	AddLike(ctx context.Context, postID, userID primitive.ObjectID) (UpdateOutcome, error)
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (UpdateOutcome, error)
	PullLikeFromAll(ctx context.Context, userID primitive.ObjectID) error

	CountByCategory(ctx context.Context, category string) (int64, error)
	CountByTag(ctx context.Context, tag string) (int64, error)
}

type postRepoImpl struct {
	col *mongo.Collection
}

func NewPostRepo(db *mongo.Database) PostRepo {
	return &postRepoImpl{col: db.Collection(ColPosts)}
}

func (s *postRepoImpl) Create(ctx context.Context, post *model.Post) error {
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return err
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *postRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *postRepoImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Post, error) {
	if len(ids) == 0 {
		return []*model.Post{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (s *postRepoImpl) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.find(ctx, bson.M{"owner_id": ownerID}, opts)
}

func (s *postRepoImpl) ListByCategory(ctx context.Context, category string) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.find(ctx, bson.M{"category": category}, opts)
}

func (s *postRepoImpl) ListByTag(ctx context.Context, tag string) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.find(ctx, bson.M{"tags": tag}, opts)
}

// Sample 随机取样，用于发现页瀑布流
func (s *postRepoImpl) Sample(ctx context.Context, limit int64) ([]*model.Post, error) {
	cursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: limit}}}},
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var posts []*model.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *postRepoImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
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

// Delete 幂等：文档已不存在不视为错误
func (s *postRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AddLike 单次 $addToSet：Matched 区分帖子缺失，Modified 区分重复点赞
func (s *postRepoImpl) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (UpdateOutcome, error) {
	result, err := s.col.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: result.MatchedCount > 0, Modified: result.ModifiedCount > 0}, nil
}

func (s *postRepoImpl) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (UpdateOutcome, error) {
	result, err := s.col.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: result.MatchedCount > 0, Modified: result.ModifiedCount > 0}, nil
}

// PullLikeFromAll 删号级联：摘掉用户在所有帖子上留下的赞
func (s *postRepoImpl) PullLikeFromAll(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	return err
}

// CountByCategory 活跃帖子真实计数，对账任务用
func (s *postRepoImpl) CountByCategory(ctx context.Context, category string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"category": category})
}

func (s *postRepoImpl) CountByTag(ctx context.Context, tag string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"tags": tag})
}

func (s *postRepoImpl) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Post, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.col.Find(ctx, filter, opts)
	} else {
		cursor, err = s.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var posts []*model.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
