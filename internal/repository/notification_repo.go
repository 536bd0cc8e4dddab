package repository

import (
	"Inkcard/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepo 收件箱。按 created_at 倒序读取即为最新在前，
// like 通知的撤回是 (收件人, 发送者, 帖子, 上下文, 条目) 精确元组删除。
type NotificationRepo interface {
	Push(ctx context.Context, notification *model.Notification) error
	ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, limit, offset int64) ([]*model.Notification, error)
	MarkRead(ctx context.Context, recipientID, notificationID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) error
	CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error)

	RemoveLikeTuple(ctx context.Context, recipientID, senderID, postID primitive.ObjectID, likeContext string, itemID primitive.ObjectID) error
	RemoveFollow(ctx context.Context, recipientID, senderID primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
	DeleteByItems(ctx context.Context, itemIDs []primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{col: db.Collection(ColNotifications)}
}

func (s *notificationRepoImpl) Push(ctx context.Context, notification *model.Notification) error {
	notification.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, notification)
	if err != nil {
		return err
	}
	notification.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ListByRecipient 分页获取用户的通知列表 (按时间倒序)
func (s *notificationRepoImpl) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, limit, offset int64) ([]*model.Notification, error) {
	filter := bson.M{"recipient_id": recipientID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.Notification
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkRead 标记单条通知为已读
func (s *notificationRepoImpl) MarkRead(ctx context.Context, recipientID, notificationID primitive.ObjectID) error {
	filter := bson.M{"_id": notificationID, "recipient_id": recipientID}
	update := bson.M{"$set": bson.M{"read": true}}
	result, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAllRead 一键清除未读
func (s *notificationRepoImpl) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) error {
	filter := bson.M{"recipient_id": recipientID, "read": false}
	update := bson.M{"$set": bson.M{"read": true}}
	_, err := s.col.UpdateMany(ctx, filter, update)
	return err
}

// CountUnread 获取用户的未读通知总数
func (s *notificationRepoImpl) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	filter := bson.M{"recipient_id": recipientID, "read": false}
	return s.col.CountDocuments(ctx, filter)
}

func (s *notificationRepoImpl) RemoveLikeTuple(ctx context.Context, recipientID, senderID, postID primitive.ObjectID, likeContext string, itemID primitive.ObjectID) error {
	filter := bson.M{
		"recipient_id": recipientID,
		"type":         "like",
		"post_id":      postID,
		"sender_id":    senderID,
		"like.context": likeContext,
	}
	if itemID.IsZero() {
		filter["like.item_id"] = bson.M{"$exists": false}
	} else {
		filter["like.item_id"] = itemID
	}
	_, err := s.col.DeleteMany(ctx, filter)
	return err
}

// RemoveFollow 边唯一，至多命中一条，仍用 DeleteMany 保证清干净
func (s *notificationRepoImpl) RemoveFollow(ctx context.Context, recipientID, senderID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{
		"recipient_id": recipientID,
		"type":         "follow",
		"sender_id":    senderID,
	})
	return err
}

func (s *notificationRepoImpl) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"post_id": postID})
	return err
}

// DeleteByItems 删除指向给定评论/回复的通知，含其点赞通知
func (s *notificationRepoImpl) DeleteByItems(ctx context.Context, itemIDs []primitive.ObjectID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	_, err := s.col.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"item_id": bson.M{"$in": itemIDs}},
		bson.M{"like.item_id": bson.M{"$in": itemIDs}},
	}})
	return err
}

// DeleteByUser 删号级联：本人收件箱与本人发出的通知一并清除
func (s *notificationRepoImpl) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"recipient_id": userID},
		bson.M{"sender_id": userID},
	}})
	return err
}
