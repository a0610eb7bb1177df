package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"rti-service/internal/config"
)

// Logical category paths for owned document blobs.
const (
	CategoryOriginal         = "rti/original/"
	CategoryAcknowledgement  = "rti/acknowledgements/"
	CategoryResponse         = "rti/responses/"
	CategoryFirstAppealReq   = "appeals/first/request/"
	CategorySecondAppealReq  = "appeals/second/request/"
	CategoryFirstAppealResp  = "appeals/first/response/"
	CategorySecondAppealResp = "appeals/second/response/"
)

const presignExpiry = 24 * time.Hour

type DocumentStore struct {
	client *minio.Client
	bucket string
}

func New(cfg *config.StorageConfig) (*DocumentStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &DocumentStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *DocumentStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload stores a document under the given category and returns the
// stable object reference.
func (s *DocumentStore) Upload(ctx context.Context, category, filename string, reader io.Reader, size int64) (string, error) {
	objectName := category + uuid.New().String() + filepath.Ext(filename)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	return objectName, nil
}

// PresignedURL generates a time-limited retrieval URL for the object.
func (s *DocumentStore) PresignedURL(ctx context.Context, objectName string) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// Remove deletes a document; used to undo an upload when the owning
// record fails to persist.
func (s *DocumentStore) Remove(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
