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

// CommentRepo 评论与回复两级子集合，按 (父ID, 自身ID) 寻址
type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, postID, commentID primitive.ObjectID) (*model.Comment, error)
	ListByPost(ctx context.Context, postID primitive.ObjectID) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	DeleteCommentsByPost(ctx context.Context, postID primitive.ObjectID) error
	AddCommentLike(ctx context.Context, commentID, userID primitive.ObjectID) (UpdateOutcome, error)
	RemoveCommentLike(ctx context.Context, commentID, userID primitive.ObjectID) (UpdateOutcome, error)
	ListCommentIDsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]primitive.ObjectID, error)
	DeleteCommentsByAuthor(ctx context.Context, authorID primitive.ObjectID) error

	CreateReply(ctx context.Context, reply *model.Reply) error
	GetReply(ctx context.Context, commentID, replyID primitive.ObjectID) (*model.Reply, error)
	ListReplies(ctx context.Context, commentID primitive.ObjectID) ([]*model.Reply, error)
	ListReplyIDs(ctx context.Context, commentID primitive.ObjectID) ([]primitive.ObjectID, error)
	DeleteReply(ctx context.Context, commentID, replyID primitive.ObjectID) error
	DeleteRepliesByComment(ctx context.Context, commentID primitive.ObjectID) error
	DeleteRepliesByPost(ctx context.Context, postID primitive.ObjectID) error
	AddReplyLike(ctx context.Context, replyID, userID primitive.ObjectID) (UpdateOutcome, error)
	RemoveReplyLike(ctx context.Context, replyID, userID primitive.ObjectID) (UpdateOutcome, error)
	ListReplyIDsByComments(ctx context.Context, commentIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
	DeleteRepliesByComments(ctx context.Context, commentIDs []primitive.ObjectID) error
	DeleteRepliesByAuthor(ctx context.Context, authorID primitive.ObjectID) error

	PullLikeFromAll(ctx context.Context, userID primitive.ObjectID) error
}

type commentRepoImpl struct {
	comments *mongo.Collection
	replies  *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) CommentRepo {
	return &commentRepoImpl{
		comments: db.Collection(ColComments),
		replies:  db.Collection(ColReplies),
	}
}

func (s *commentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.CreatedAt = time.Now()
	if comment.Likes == nil {
		comment.Likes = []primitive.ObjectID{}
	}
	res, err := s.comments.InsertOne(ctx, comment)
	if err != nil {
		return err
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *commentRepoImpl) GetComment(ctx context.Context, postID, commentID primitive.ObjectID) (*model.Comment, error) {
	var comment model.Comment
	err := s.comments.FindOne(ctx, bson.M{"_id": commentID, "post_id": postID}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// ListByPost 按创建顺序（插入序）返回
func (s *commentRepoImpl) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]*model.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.comments.Find(ctx, bson.M{"post_id": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var comments []*model.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *commentRepoImpl) DeleteComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	_, err := s.comments.DeleteOne(ctx, bson.M{"_id": commentID, "post_id": postID})
	return err
}

func (s *commentRepoImpl) DeleteCommentsByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := s.comments.DeleteMany(ctx, bson.M{"post_id": postID})
	return err
}

func (s *commentRepoImpl) ListCommentIDsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return listIDs(ctx, s.comments, bson.M{"author_id": authorID})
}

func (s *commentRepoImpl) DeleteCommentsByAuthor(ctx context.Context, authorID primitive.ObjectID) error {
	_, err := s.comments.DeleteMany(ctx, bson.M{"author_id": authorID})
	return err
}

func (s *commentRepoImpl) AddCommentLike(ctx context.Context, commentID, userID primitive.ObjectID) (UpdateOutcome, error) {
	return addLike(ctx, s.comments, commentID, userID)
}

func (s *commentRepoImpl) RemoveCommentLike(ctx context.Context, commentID, userID primitive.ObjectID) (UpdateOutcome, error) {
	return removeLike(ctx, s.comments, commentID, userID)
}

func (s *commentRepoImpl) CreateReply(ctx context.Context, reply *model.Reply) error {
	reply.CreatedAt = time.Now()
	if reply.Likes == nil {
		reply.Likes = []primitive.ObjectID{}
	}
	res, err := s.replies.InsertOne(ctx, reply)
	if err != nil {
		return err
	}
	reply.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *commentRepoImpl) GetReply(ctx context.Context, commentID, replyID primitive.ObjectID) (*model.Reply, error) {
	var reply model.Reply
	err := s.replies.FindOne(ctx, bson.M{"_id": replyID, "comment_id": commentID}).Decode(&reply)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &reply, nil
}

func (s *commentRepoImpl) ListReplies(ctx context.Context, commentID primitive.ObjectID) ([]*model.Reply, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.replies.Find(ctx, bson.M{"comment_id": commentID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var replies []*model.Reply
	if err = cursor.All(ctx, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

func (s *commentRepoImpl) ListReplyIDs(ctx context.Context, commentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return listIDs(ctx, s.replies, bson.M{"comment_id": commentID})
}

func (s *commentRepoImpl) DeleteReply(ctx context.Context, commentID, replyID primitive.ObjectID) error {
	_, err := s.replies.DeleteOne(ctx, bson.M{"_id": replyID, "comment_id": commentID})
	return err
}

func (s *commentRepoImpl) DeleteRepliesByComment(ctx context.Context, commentID primitive.ObjectID) error {
	_, err := s.replies.DeleteMany(ctx, bson.M{"comment_id": commentID})
	return err
}

func (s *commentRepoImpl) DeleteRepliesByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := s.replies.DeleteMany(ctx, bson.M{"post_id": postID})
	return err
}

func (s *commentRepoImpl) ListReplyIDsByComments(ctx context.Context, commentIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	return listIDs(ctx, s.replies, bson.M{"comment_id": bson.M{"$in": commentIDs}})
}

func (s *commentRepoImpl) DeleteRepliesByComments(ctx context.Context, commentIDs []primitive.ObjectID) error {
	if len(commentIDs) == 0 {
		return nil
	}
	_, err := s.replies.DeleteMany(ctx, bson.M{"comment_id": bson.M{"$in": commentIDs}})
	return err
}

func (s *commentRepoImpl) DeleteRepliesByAuthor(ctx context.Context, authorID primitive.ObjectID) error {
	_, err := s.replies.DeleteMany(ctx, bson.M{"author_id": authorID})
	return err
}

// PullLikeFromAll 删号级联：摘掉用户在所有评论与回复上留下的赞
func (s *commentRepoImpl) PullLikeFromAll(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.comments.UpdateMany(ctx,
		bson.M{"likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return err
	}
	_, err = s.replies.UpdateMany(ctx,
		bson.M{"likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	return err
}

func (s *commentRepoImpl) AddReplyLike(ctx context.Context, replyID, userID primitive.ObjectID) (UpdateOutcome, error) {
	return addLike(ctx, s.replies, replyID, userID)
}

func (s *commentRepoImpl) RemoveReplyLike(ctx context.Context, replyID, userID primitive.ObjectID) (UpdateOutcome, error) {
	return removeLike(ctx, s.replies, replyID, userID)
}

// listIDs 仅投影 _id 的查询
func listIDs(ctx context.Context, col *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// addLike / removeLike 点赞集合的统一原子更新
func addLike(ctx context.Context, col *mongo.Collection, id, userID primitive.ObjectID) (UpdateOutcome, error) {
	result, err := col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: result.MatchedCount > 0, Modified: result.ModifiedCount > 0}, nil
}

func removeLike(ctx context.Context, col *mongo.Collection, id, userID primitive.ObjectID) (UpdateOutcome, error) {
	result, err := col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: result.MatchedCount > 0, Modified: result.ModifiedCount > 0}, nil
}
