package minio

import (
	"Inkcard/internal/api/config"
	"bytes"
	"context"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/minio/minio-go/v7"
)

// ImageInfo 上传结果：公开 URL 与图片尺寸
type ImageInfo struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Upload 上传图片并返回公开 URL 与解码出的尺寸
func Upload(ctx context.Context, scope, key string, data []byte, contentType string) (*ImageInfo, error) {
	if Client == nil {
		return nil, fmt.Errorf("minio client is not initialized")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()

	objectName := scope + "/" + key

	_, err = Client.PutObject(ctx, Bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &ImageInfo{
		URL:    GetPublicURL(objectName),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Release 删除图片；句柄已不存在时仅记录日志
func Release(ctx context.Context, url string) {
	if Client == nil || url == "" {
		return
	}

	objectName := objectFromURL(url)
	if objectName == "" {
		log.WarnContext(ctx, "image url does not belong to this bucket", "url", url)
		return
	}

	if err := Client.RemoveObject(ctx, Bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		log.WarnContext(ctx, "failed to release image", "object", objectName, "err", err)
	}
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(objectName string) string {
	cfg := config.Cfg.MinIO

	publicURL := fmt.Sprintf("https://%s/%s/%s", cfg.ExternalEndpoint, Bucket, objectName)
	return publicURL
}

func objectFromURL(url string) string {
	marker := "/" + Bucket + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	return url[idx+len(marker):]
}
