package mongo

import (
	"Inkcard/internal/api/config"
	"Inkcard/internal/pkg/logger"
	"Inkcard/internal/repository"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo 建立连接、初始化索引并返回 Database 引用
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 建立连接
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetMonitor(logger.NewMongoMonitor()),
	)
	if err != nil {
		return nil, err
	}

	// 检查连通性
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)
	if err = ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	log.Info("MongoDB initialized successfully", "db", cfg.Database)
	return db, nil
}

// ensureIndexes 举报按 (type, target_id) 聚合成单文档，唯一索引兜住并发首报
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(repository.ColReports).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "type", Value: 1}, {Key: "target_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
