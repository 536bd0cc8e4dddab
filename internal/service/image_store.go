package service

import (
	"Inkcard/internal/pkg/minio"
	"context"
)

// ImageStore 图片存储依赖，生产环境由 minio.Store 实现
type ImageStore interface {
	Upload(ctx context.Context, scope, key string, data []byte, contentType string) (*minio.ImageInfo, error)
	Release(ctx context.Context, url string)
}
