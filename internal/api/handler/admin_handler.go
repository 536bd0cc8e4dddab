package handler

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/pkg/response"
	"Inkcard/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminSvc service.AdminService
}

func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

func (s *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := getPagination(c)

	users, total, err := s.adminSvc.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.PageDTO{Total: total, Items: users})
}

func (s *AdminHandler) AssignBadge(c *gin.Context) {
	userID, ok := paramObjectID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var badgeDTO dto.AssignBadgeDTO
	if err := c.ShouldBindJSON(&badgeDTO); err != nil {
		response.Error(c, err)
		return
	}

	err := s.adminSvc.AssignBadge(c.Request.Context(), currentUserID(c), userID, &badgeDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AdminHandler) GetBadgeHistory(c *gin.Context) {
	userID, ok := paramObjectID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	history, err := s.adminSvc.BadgeHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, history)
}

func (s *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := paramObjectID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.adminSvc.DeleteUser(c.Request.Context(), currentUserID(c), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ReconcileCounts 手动触发一次计数对账
func (s *AdminHandler) ReconcileCounts(c *gin.Context) {
	if err := s.adminSvc.ReconcileCounts(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
