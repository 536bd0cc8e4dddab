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

type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context, limit, offset int64) ([]*model.User, int64, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, set bson.M) error
	SetBadge(ctx context.Context, id primitive.ObjectID, badge string) (UpdateOutcome, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	AddFollowing(ctx context.Context, actorID, targetID primitive.ObjectID) (UpdateOutcome, error)
	AddFollower(ctx context.Context, targetID, actorID primitive.ObjectID) error
	RemoveFollowing(ctx context.Context, actorID, targetID primitive.ObjectID) (UpdateOutcome, error)
	RemoveFollower(ctx context.Context, targetID, actorID primitive.ObjectID) error
	RemoveFromAllGraphs(ctx context.Context, userID primitive.ObjectID) error

	AppendPost(ctx context.Context, ownerID, postID primitive.ObjectID) error
	PullPost(ctx context.Context, ownerID, postID primitive.ObjectID) error

	SavePost(ctx context.Context, userID, postID primitive.ObjectID) (UpdateOutcome, error)
	UnsavePost(ctx context.Context, userID, postID primitive.ObjectID) (UpdateOutcome, error)
	PullSavedFromAll(ctx context.Context, postID primitive.ObjectID) error
}

type userRepoImpl struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepoImpl{col: db.Collection(ColUsers)}
}

func (s *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	res, err := s.col.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *userRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *userRepoImpl) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *userRepoImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var users []*model.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userRepoImpl) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}
	count, err := s.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 按注册时间倒序分页
func (s *userRepoImpl) List(ctx context.Context, limit, offset int64) ([]*model.User, int64, error) {
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var users []*model.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *userRepoImpl) UpdateProfile(ctx context.Context, id primitive.ObjectID, set bson.M) error {
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

func (s *userRepoImpl) SetBadge(ctx context.Context, id primitive.ObjectID, badge string) (UpdateOutcome, error) {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"badge": badge, "updated_at": time.Now()},
	})
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: result.MatchedCount > 0, Modified: result.ModifiedCount > 0}, nil
}

func (s *userRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AddFollowing 仅当边不存在时写入 actor 侧，单次条件更新，是关注操作的裁决点
func (s *userRepoImpl) AddFollowing(ctx context.Context, actorID, targetID primitive.ObjectID) (UpdateOutcome, error) {
	result, err := s.col.UpdateOne(ctx,
		bson.M{"_id": actorID, "following": bson.M{"$ne": targetID}},
		bson.M{"$addToSet": bson.M{"following": targetID}},
	)
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: result.MatchedCount > 0, Modified: result.ModifiedCount > 0}, nil
}

// AddFollower 镜像写 target 侧，$addToSet 幂等，可安全重试
func (s *userRepoImpl) AddFollower(ctx context.Context, targetID, actorID primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{"followers": actorID}},
	)
	return err
}

func (s *userRepoImpl) RemoveFollowing(ctx context.Context, actorID, targetID primitive.ObjectID) (UpdateOutcome, error) {
	result, err := s.col.UpdateOne(ctx,
		bson.M{"_id": actorID},
		bson.M{"$pull": bson.M{"following": targetID}},
	)
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: result.MatchedCount > 0, Modified: result.ModifiedCount > 0}, nil
}

func (s *userRepoImpl) RemoveFollower(ctx context.Context, targetID, actorID primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{"followers": actorID}},
	)
	return err
}

// RemoveFromAllGraphs 将用户从所有粉丝/关注数组中摘除（删号级联用）
func (s *userRepoImpl) RemoveFromAllGraphs(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"followers": userID},
		bson.M{"$pull": bson.M{"followers": userID}},
	)
	if err != nil {
		return err
	}
	_, err = s.col.UpdateMany(ctx,
		bson.M{"following": userID},
		bson.M{"$pull": bson.M{"following": userID}},
	)
	return err
}

func (s *userRepoImpl) AppendPost(ctx context.Context, ownerID, postID primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$addToSet": bson.M{"posts": postID}},
	)
	return err
}

func (s *userRepoImpl) PullPost(ctx context.Context, ownerID, postID primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$pull": bson.M{"posts": postID}},
	)
	return err
}

// SavePost 头插保持最近收藏在前；守卫条件保证不重复
func (s *userRepoImpl) SavePost(ctx context.Context, userID, postID primitive.ObjectID) (UpdateOutcome, error) {
	result, err := s.col.UpdateOne(ctx,
		bson.M{"_id": userID, "saved": bson.M{"$ne": postID}},
		bson.M{"$push": bson.M{"saved": bson.M{
			"$each":     bson.A{postID},
			"$position": 0,
		}}},
	)
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: result.MatchedCount > 0, Modified: result.ModifiedCount > 0}, nil
}

func (s *userRepoImpl) UnsavePost(ctx context.Context, userID, postID primitive.ObjectID) (UpdateOutcome, error) {
	result, err := s.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"saved": postID}},
	)
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: result.MatchedCount > 0, Modified: result.ModifiedCount > 0}, nil
}

// PullSavedFromAll 帖子删除级联：从所有用户的收藏列表移除
func (s *userRepoImpl) PullSavedFromAll(ctx context.Context, postID primitive.ObjectID) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"saved": postID},
		bson.M{"$pull": bson.M{"saved": postID}},
	)
	return err
}
