package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const (
	objectPrefix = "uploads/"
	publicPrefix = "/uploads/"
)

// S3Storage keeps uploads in a MinIO bucket under "uploads/<field>-<millis><ext>"
// and hands out the matching "/uploads/..." path.
type S3Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger

	mu        sync.Mutex
	lastStamp int64
	now       func() time.Time
}

func NewS3Storage(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*S3Storage, error) {
	log.Info("Initializing S3 MinIO Storage", zap.String("endpoint", endpoint), zap.String("bucket", bucketName), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Error("S3Storage: failed to create MinIO client", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			log.Error("S3Storage: failed to make bucket", zap.String("bucket", bucketName), zap.Error(err))
			return nil, fmt.Errorf("failed to make bucket %s: %w", bucketName, err)
		}
		log.Info("S3Storage: bucket created", zap.String("bucket", bucketName))
	}

	return &S3Storage{
		client: client,
		bucket: bucketName,
		logger: log.Named("S3Storage"),
		now:    time.Now,
	}, nil
}

// stamp returns a millisecond timestamp that is unique within this process,
// so several photos saved in the same millisecond get distinct names.
func (s *S3Storage) stamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now().UnixMilli()
	if ts <= s.lastStamp {
		ts = s.lastStamp + 1
	}
	s.lastStamp = ts
	return ts
}

func objectName(field string, stamp int64, ext string) string {
	return fmt.Sprintf("%s-%d%s", field, stamp, strings.ToLower(ext))
}

// objectKey maps a public path back to its object key. Paths that could
// escape the uploads prefix are rejected.
func objectKey(p string) (string, bool) {
	if !strings.HasPrefix(p, publicPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(p, publicPrefix)
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") || path.Clean(name) != name {
		return "", false
	}
	return objectPrefix + name, true
}

func (s *S3Storage) Save(ctx context.Context, f domain.Upload) (string, error) {
	name := objectName(f.Field, s.stamp(), f.Ext)
	key := objectPrefix + name

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(f.Data), int64(len(f.Data)), minio.PutObjectOptions{
		ContentType: f.ContentType,
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}

	s.logger.Info("File uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return publicPrefix + name, nil
}

func (s *S3Storage) Open(ctx context.Context, p string) (*domain.StoredFile, error) {
	key, ok := objectKey(p)
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "File not found")
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, domain.Errorf(domain.ErrNotFound, "File not found")
		}
		s.logger.Error("StatObject failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}
	return &domain.StoredFile{
		Body:        obj,
		ContentType: stat.ContentType,
		Size:        stat.Size,
		ModTime:     stat.LastModified,
	}, nil
}

func (s *S3Storage) Remove(ctx context.Context, p string) error {
	key, ok := objectKey(p)
	if !ok {
		return fmt.Errorf("not a stored upload path: %q", p)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("RemoveObject failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	s.logger.Info("File removed", zap.String("key", key))
	return nil
}
