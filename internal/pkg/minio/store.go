package minio

import "context"

// Store 以实例形式暴露包级上传/删除，便于服务层以接口依赖
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Upload(ctx context.Context, scope, key string, data []byte, contentType string) (*ImageInfo, error) {
	return Upload(ctx, scope, key, data, contentType)
}

func (s *Store) Release(ctx context.Context, url string) {
	Release(ctx, url)
}
