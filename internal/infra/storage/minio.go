package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
)

// MinioStorage serves question image attachments from any
// S3-compatible store (R2, MinIO, Supabase storage) via presigned
// read URLs.
type MinioStorage struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	logger *slog.Logger
}

// NewMinioStorage constructs the storage adapter.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket, region string, expiry time.Duration, logger *slog.Logger) (*MinioStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	useSSL := strings.HasPrefix(strings.ToLower(endpoint), "https")
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}
	return &MinioStorage{
		client: client,
		bucket: bucket,
		expiry: expiry,
		logger: logger.With("component", "storage.minio"),
	}, nil
}

// PresignedGet returns a short-lived read URL for a stored key.
func (s *MinioStorage) PresignedGet(ctx context.Context, key string) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

var _ question.ImageStorage = (*MinioStorage)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
