package service

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/model"
	"Inkcard/internal/pkg/consts"
	"Inkcard/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportService 举报按 (目标类型, 目标ID) 聚合成单文档，
// 同一举报人对同一目标只记一次，Count 恒等于理由条数。
type ReportService interface {
	Submit(ctx context.Context, reporterID primitive.ObjectID, reportDTO *dto.CreateReportDTO) error
	List(ctx context.Context, status string, limit, offset int64) ([]*model.Report, error)
	UpdateStatus(ctx context.Context, reportID primitive.ObjectID, statusDTO *dto.UpdateReportStatusDTO) error
}

type ReportServiceImpl struct {
	reportRepo repository.ReportRepo
	userRepo   repository.UserRepo
	postRepo   repository.PostRepo
}

func NewReportService(reportRepo repository.ReportRepo, userRepo repository.UserRepo, postRepo repository.PostRepo) ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
	}
}

func (s *ReportServiceImpl) Submit(ctx context.Context, reporterID primitive.ObjectID, reportDTO *dto.CreateReportDTO) error {
	targetID, err := primitive.ObjectIDFromHex(reportDTO.TargetID)
	if err != nil {
		return ErrParamInvalid
	}

	if err = s.checkTarget(ctx, reportDTO.Type, targetID); err != nil {
		return err
	}

	reason := model.ReportReason{
		ReporterID: reporterID,
		Reason:     reportDTO.Reason,
		ExtraInfo:  reportDTO.ExtraInfo,
		ReportedAt: time.Now(),
	}

	outcome, err := s.reportRepo.AppendReason(ctx, reportDTO.Type, targetID, reason)
	if err != nil {
		return err
	}
	if outcome.Modified {
		return nil
	}

	// 没命中：要么目标还没有聚合文档，要么该举报人已举报过
	existing, err := s.reportRepo.Get(ctx, reportDTO.Type, targetID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrActionDuplicate
	}

	err = s.reportRepo.Create(ctx, &model.Report{
		Type:     reportDTO.Type,
		TargetID: targetID,
		Reasons:  []model.ReportReason{reason},
		Status:   consts.ReportStatusPending,
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		// 并发首报撞上唯一索引，落到赢家的聚合文档上重试
		outcome, err = s.reportRepo.AppendReason(ctx, reportDTO.Type, targetID, reason)
		if err != nil {
			return err
		}
		if !outcome.Modified {
			return ErrActionDuplicate
		}
		return nil
	}
	return err
}

func (s *ReportServiceImpl) List(ctx context.Context, status string, limit, offset int64) ([]*model.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reportRepo.List(ctx, status, limit, offset)
}

func (s *ReportServiceImpl) UpdateStatus(ctx context.Context, reportID primitive.ObjectID, statusDTO *dto.UpdateReportStatusDTO) error {
	err := s.reportRepo.SetStatus(ctx, reportID, statusDTO.Status)
	if err != nil {
		return ErrReportNotFound
	}
	return nil
}

// checkTarget 用户与帖子校验存在性；评论与回复的寻址需要父 ID，照单收下
func (s *ReportServiceImpl) checkTarget(ctx context.Context, targetType string, targetID primitive.ObjectID) error {
	switch targetType {
	case consts.ReportTargetUser:
		user, err := s.userRepo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
	case consts.ReportTargetPost:
		post, err := s.postRepo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
	}
	return nil
}
