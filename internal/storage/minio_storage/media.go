package minio_storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/SocialShift/Knowledge-Backend/internal/config"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

const staticPrefix = "media/"

// MediaStorage keeps uploaded files in one bucket and hands out presigned links.
type MediaStorage struct {
	client       *minio.Client
	bucket       string
	presignedTTL time.Duration
}

func NewMediaStorage(ctx context.Context, storage *MinioStorage, bc config.BucketConfig) (*MediaStorage, error) {
	if err := storage.ensureBucket(ctx, bc.Name); err != nil {
		return nil, err
	}
	return &MediaStorage{client: storage.client, bucket: bc.Name, presignedTTL: bc.PresignTTL}, nil
}

// IsStatic reports whether the value is a bundled asset path rather than an object key.
func IsStatic(key string) bool {
	return strings.HasPrefix(key, staticPrefix)
}

func objectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return path.Join(prefix, uuid.NewString()+ext)
}

func (s *MediaStorage) Upload(ctx context.Context, prefix string, f models.Upload) (string, error) {
	key := objectKey(prefix, f.Filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, f.Reader, f.Size,
		minio.PutObjectOptions{ContentType: f.DetectContentType()})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// URL resolves a stored value to something a client can fetch.
func (s *MediaStorage) URL(ctx context.Context, key string) (string, error) {
	if key == "" || IsStatic(key) {
		return key, nil
	}
	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presignedTTL, make(url.Values))
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

// Delete removes an uploaded object. Static assets and empty keys are ignored.
func (s *MediaStorage) Delete(ctx context.Context, key string) error {
	if key == "" || IsStatic(key) {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
