package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"gspotify/config"
	"gspotify/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps blobs as objects in a MinIO/S3 bucket under a fixed key
// prefix. It satisfies the same write-once contract as LocalStore: object
// names are uuid-based and never reused.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
}

const minioOpTimeout = 30 * time.Second

// NewMinioClient connects to MinIO and ensures the configured bucket exists.
func NewMinioClient(cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), minioOpTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("Created MinIO bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return client, nil
}

// NewMinioStore returns a store over the given bucket and key prefix
// (e.g. "songs" or "covers").
func NewMinioStore(client *minio.Client, bucket, prefix string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *MinioStore) key(identifier string) string {
	if s.prefix == "" {
		return identifier
	}
	return s.prefix + "/" + identifier
}

// Save uploads data under a fresh uuid-based object name.
func (s *MinioStore) Save(data []byte, ext string) (string, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	identifier := uuid.NewString() + ext

	ctx, cancel := context.WithTimeout(context.Background(), minioOpTimeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, s.bucket, s.key(identifier),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", identifier, err)
	}
	return identifier, nil
}

// Exists reports whether the object is present in the bucket.
func (s *MinioStore) Exists(identifier string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), minioOpTimeout)
	defer cancel()

	_, err := s.client.StatObject(ctx, s.bucket, s.key(identifier), minio.StatObjectOptions{})
	return err == nil
}

// Size returns the object's byte length, or 0 when it cannot be determined.
func (s *MinioStore) Size(identifier string) int64 {
	ctx, cancel := context.WithTimeout(context.Background(), minioOpTimeout)
	defer cancel()

	info, err := s.client.StatObject(ctx, s.bucket, s.key(identifier), minio.StatObjectOptions{})
	if err != nil {
		logger.Warn("Failed to stat object",
			logger.String("identifier", identifier),
			logger.ErrorField(err),
		)
		return 0
	}
	return info.Size
}

// Delete removes the object. Returns false when it was already absent.
func (s *MinioStore) Delete(identifier string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), minioOpTimeout)
	defer cancel()

	if !s.Exists(identifier) {
		return false
	}
	if err := s.client.RemoveObject(ctx, s.bucket, s.key(identifier), minio.RemoveObjectOptions{}); err != nil {
		logger.Warn("Failed to delete object",
			logger.String("identifier", identifier),
			logger.ErrorField(err),
		)
		return false
	}
	return true
}

// Open returns a seekable read handle over the object. minio.Object seeks by
// issuing ranged GETs lazily, so this does not download the whole blob.
func (s *MinioStore) Open(identifier string) (ReadSeekCloser, error) {
	ctx, cancel := context.WithTimeout(context.Background(), minioOpTimeout)
	defer cancel()

	// GetObject is lazy; a Stat confirms the object actually exists.
	if _, err := s.client.StatObject(ctx, s.bucket, s.key(identifier), minio.StatObjectOptions{}); err != nil {
		return nil, ErrNotFound
	}

	object, err := s.client.GetObject(context.Background(), s.bucket, s.key(identifier), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s: %w", identifier, err)
	}
	return object, nil
}
