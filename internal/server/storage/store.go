// Package storage keeps intake PDFs in object storage. Two backends are
// provided: S3Store for S3-compatible services (AWS, MinIO) and GCSStore for
// Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/server/config"
)

var ErrSizeMismatch = errors.New("stored object size mismatch")

// BlobStore writes and removes objects by key.
type BlobStore interface {
	// Put stores exactly size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string, meta map[string]string) error
	Delete(ctx context.Context, key string) error
	// Backend names the implementation, e.g. "s3".
	Backend() string
}

// ExamKey returns the object key for an exam PDF owned by userID.
func ExamKey(userID, examID string, at time.Time) string {
	return fmt.Sprintf("users/%s/%d/%02d/%02d/%s.pdf", userID, at.Year(), at.Month(), at.Day(), examID)
}

// New builds the BlobStore selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (BlobStore, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		return NewS3Store(ctx, S3Options{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case config.StorageGCS:
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSPrefix, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
