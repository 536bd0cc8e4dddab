package handler

import (
	"Inkcard/internal/pkg/response"
	"Inkcard/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifySvc service.NotificationService
}

func NewNotificationHandler(notifySvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifySvc: notifySvc}
}

func (s *NotificationHandler) GetNotificationList(c *gin.Context) {
	limit, offset := getPagination(c)

	list, err := s.notifySvc.List(c.Request.Context(), currentUserID(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *NotificationHandler) GetUnreadCount(c *gin.Context) {
	count, err := s.notifySvc.UnreadCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}

func (s *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := paramObjectID(c, "notification_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	err := s.notifySvc.MarkRead(c.Request.Context(), currentUserID(c), notificationID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := s.notifySvc.MarkAllRead(c.Request.Context(), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
