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

type ReportRepo interface {
	Create(ctx context.Context, report *model.Report) error
	Get(ctx context.Context, targetType string, targetID primitive.ObjectID) (*model.Report, error)
	AppendReason(ctx context.Context, targetType string, targetID primitive.ObjectID, reason model.ReportReason) (UpdateOutcome, error)
	List(ctx context.Context, status string, limit, offset int64) ([]*model.Report, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type reportRepoImpl struct {
	col *mongo.Collection
}

func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepoImpl{col: db.Collection(ColReports)}
}

// Create 依赖 (type, target_id) 唯一索引，并发首报由调用方按 ErrDuplicateKey 重试
func (s *reportRepoImpl) Create(ctx context.Context, report *model.Report) error {
	report.CreatedAt = time.Now()
	report.Count = int64(len(report.Reasons))
	res, err := s.col.InsertOne(ctx, report)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	report.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *reportRepoImpl) Get(ctx context.Context, targetType string, targetID primitive.ObjectID) (*model.Report, error) {
	var report model.Report
	err := s.col.FindOne(ctx, bson.M{"type": targetType, "target_id": targetID}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// AppendReason 守卫条件排除同一举报人，$push 与 $inc 同一次更新落盘，
// count == len(reasons) 在并发下也成立
func (s *reportRepoImpl) AppendReason(ctx context.Context, targetType string, targetID primitive.ObjectID, reason model.ReportReason) (UpdateOutcome, error) {
	result, err := s.col.UpdateOne(ctx,
		bson.M{
			"type":                targetType,
			"target_id":           targetID,
			"reasons.reporter_id": bson.M{"$ne": reason.ReporterID},
		},
		bson.M{
			"$push": bson.M{"reasons": reason},
			"$inc":  bson.M{"count": 1},
		},
	)
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: result.MatchedCount > 0, Modified: result.ModifiedCount > 0}, nil
}

func (s *reportRepoImpl) List(ctx context.Context, status string, limit, offset int64) ([]*model.Report, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "count", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var reports []*model.Report
	if err = cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *reportRepoImpl) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
