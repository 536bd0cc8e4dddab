package service

import (
	"Inkcard/internal/model"
	"Inkcard/internal/pkg/consts"
	"Inkcard/internal/pkg/redis"
	"Inkcard/internal/repository"
	"context"
	"strconv"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const snippetMaxLen = 80
const unreadCacheTTL = time.Minute * 5

// NotificationService 收件箱读写与通知扇出的唯一入口。
// 其他服务通过 Notify*/Retract* 投递和撤回，未读数缓存在这里统一失效。
type NotificationService interface {
	List(ctx context.Context, recipientID primitive.ObjectID, limit, offset int64) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, recipientID, notificationID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) error

	NotifyFollow(ctx context.Context, recipientID, senderID primitive.ObjectID) error
	NotifyLike(ctx context.Context, recipientID, senderID, postID primitive.ObjectID, likeContext string, itemID primitive.ObjectID, snippet string) error
	NotifyComment(ctx context.Context, recipientID, senderID, postID, commentID primitive.ObjectID, snippet string) error
	NotifyReply(ctx context.Context, recipientID, senderID, postID, replyID primitive.ObjectID, snippet string) error

	RetractFollow(ctx context.Context, recipientID, senderID primitive.ObjectID) error
	RetractLike(ctx context.Context, recipientID, senderID, postID primitive.ObjectID, likeContext string, itemID primitive.ObjectID) error
	RetractByPost(ctx context.Context, postID primitive.ObjectID) error
	RetractByItems(ctx context.Context, itemIDs []primitive.ObjectID) error
	RetractByUser(ctx context.Context, userID primitive.ObjectID) error
}

type NotificationServiceImpl struct {
	notificationRepo repository.NotificationRepo
}

func NewNotificationService(notificationRepo repository.NotificationRepo) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *NotificationServiceImpl) List(ctx context.Context, recipientID primitive.ObjectID, limit, offset int64) ([]*model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.ListByRecipient(ctx, recipientID, limit, offset)
}

// UnreadCount 未读数走缓存，未命中回源后写回
func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	key := consts.NotifyUnreadKey + recipientID.Hex()

	valStr, err := redis.GetValue(ctx, key)
	if err == nil && valStr != "" {
		return strconv.ParseInt(valStr, 10, 64)
	}

	count, err := s.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, err
	}

	_ = redis.SetWithExpiration(ctx, key, count, unreadCacheTTL)
	return count, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, recipientID, notificationID primitive.ObjectID) error {
	err := s.notificationRepo.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		return ErrNotificationNotFound
	}
	s.bustUnread(ctx, recipientID)
	return nil
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) error {
	err := s.notificationRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return err
	}
	s.bustUnread(ctx, recipientID)
	return nil
}

// NotifyFollow 自己触发的动作不投递给自己，下同
func (s *NotificationServiceImpl) NotifyFollow(ctx context.Context, recipientID, senderID primitive.ObjectID) error {
	if recipientID == senderID {
		return nil
	}
	return s.push(ctx, &model.Notification{
		RecipientID: recipientID,
		Type:        consts.NotifyFollow,
		SenderID:    senderID,
	})
}

func (s *NotificationServiceImpl) NotifyLike(ctx context.Context, recipientID, senderID, postID primitive.ObjectID, likeContext string, itemID primitive.ObjectID, snippet string) error {
	if recipientID == senderID {
		return nil
	}
	return s.push(ctx, &model.Notification{
		RecipientID: recipientID,
		Type:        consts.NotifyLike,
		PostID:      postID,
		SenderID:    senderID,
		Like: &model.LikeDetail{
			Context: likeContext,
			ItemID:  itemID,
			Snippet: snippetOf(snippet),
		},
	})
}

func (s *NotificationServiceImpl) NotifyComment(ctx context.Context, recipientID, senderID, postID, commentID primitive.ObjectID, snippet string) error {
	if recipientID == senderID {
		return nil
	}
	return s.push(ctx, &model.Notification{
		RecipientID: recipientID,
		Type:        consts.NotifyComment,
		PostID:      postID,
		SenderID:    senderID,
		ItemID:      commentID,
		Snippet:     snippetOf(snippet),
	})
}

func (s *NotificationServiceImpl) NotifyReply(ctx context.Context, recipientID, senderID, postID, replyID primitive.ObjectID, snippet string) error {
	if recipientID == senderID {
		return nil
	}
	return s.push(ctx, &model.Notification{
		RecipientID: recipientID,
		Type:        consts.NotifyReply,
		PostID:      postID,
		SenderID:    senderID,
		ItemID:      replyID,
		Snippet:     snippetOf(snippet),
	})
}

func (s *NotificationServiceImpl) RetractFollow(ctx context.Context, recipientID, senderID primitive.ObjectID) error {
	if recipientID == senderID {
		return nil
	}
	err := s.notificationRepo.RemoveFollow(ctx, recipientID, senderID)
	if err != nil {
		return err
	}
	s.bustUnread(ctx, recipientID)
	return nil
}

// RetractLike 按 (收件人, 发送者, 帖子, 上下文, 条目) 精确元组撤回
func (s *NotificationServiceImpl) RetractLike(ctx context.Context, recipientID, senderID, postID primitive.ObjectID, likeContext string, itemID primitive.ObjectID) error {
	if recipientID == senderID {
		return nil
	}
	err := s.notificationRepo.RemoveLikeTuple(ctx, recipientID, senderID, postID, likeContext, itemID)
	if err != nil {
		return err
	}
	s.bustUnread(ctx, recipientID)
	return nil
}

func (s *NotificationServiceImpl) RetractByPost(ctx context.Context, postID primitive.ObjectID) error {
	return s.notificationRepo.DeleteByPost(ctx, postID)
}

func (s *NotificationServiceImpl) RetractByItems(ctx context.Context, itemIDs []primitive.ObjectID) error {
	return s.notificationRepo.DeleteByItems(ctx, itemIDs)
}

func (s *NotificationServiceImpl) RetractByUser(ctx context.Context, userID primitive.ObjectID) error {
	err := s.notificationRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	s.bustUnread(ctx, userID)
	return nil
}

func (s *NotificationServiceImpl) push(ctx context.Context, notification *model.Notification) error {
	err := s.notificationRepo.Push(ctx, notification)
	if err != nil {
		return err
	}
	s.bustUnread(ctx, notification.RecipientID)
	return nil
}

func (s *NotificationServiceImpl) bustUnread(ctx context.Context, recipientID primitive.ObjectID) {
	_ = redis.DeleteKey(ctx, consts.NotifyUnreadKey+recipientID.Hex())
}

// snippetOf 通知里携带的正文摘要，按字符截断
func snippetOf(text string) string {
	if utf8.RuneCountInString(text) <= snippetMaxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:snippetMaxLen])
}
