package job

import (
	"Inkcard/internal/pkg/logger"
	"Inkcard/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// TaxonomyReconcileJob 每日以帖子集合的真实计数校准分类/标签冗余计数
type TaxonomyReconcileJob struct {
	taxonomySvc service.TaxonomyService
}

func NewTaxonomyReconcileJob(taxonomySvc service.TaxonomyService) *TaxonomyReconcileJob {
	return &TaxonomyReconcileJob{
		taxonomySvc: taxonomySvc,
	}
}

func (s *TaxonomyReconcileJob) Run() {
	traceID := "job-taxonomy-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	start := time.Now()
	if err := s.taxonomySvc.Reconcile(ctx); err != nil {
		log.ErrorContext(ctx, "taxonomy reconcile job failed", "err", err)
		return
	}
	log.InfoContext(ctx, "taxonomy reconcile job finished", "cost", time.Since(start).String())
}
