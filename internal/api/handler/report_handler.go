package handler

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/pkg/response"
	"Inkcard/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

func (s *ReportHandler) Submit(c *gin.Context) {
	var reportDTO dto.CreateReportDTO
	if err := c.ShouldBindJSON(&reportDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.reportSvc.Submit(c.Request.Context(), currentUserID(c), &reportDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ReportHandler) List(c *gin.Context) {
	limit, offset := getPagination(c)
	status := c.Query("status")

	reports, err := s.reportSvc.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reports)
}

func (s *ReportHandler) UpdateStatus(c *gin.Context) {
	reportID, ok := paramObjectID(c, "report_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var statusDTO dto.UpdateReportStatusDTO
	if err := c.ShouldBindJSON(&statusDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.reportSvc.UpdateStatus(c.Request.Context(), reportID, &statusDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
