package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Seams over the GCS client so tests can run without a bucket.
var (
	newGCSClient = gcs.NewClient

	openGCSWriter = func(ctx context.Context, c *gcs.Client, bucket, name, contentType string, meta map[string]string) io.WriteCloser {
		w := c.Bucket(bucket).Object(name).NewWriter(ctx)
		w.ContentType = contentType
		w.Metadata = meta
		return w
	}

	gcsObjectSize = func(ctx context.Context, c *gcs.Client, bucket, name string) (int64, error) {
		attrs, err := c.Bucket(bucket).Object(name).Attrs(ctx)
		if err != nil {
			return 0, err
		}
		return attrs.Size, nil
	}

	deleteGCSObject = func(ctx context.Context, c *gcs.Client, bucket, name string) error {
		return c.Bucket(bucket).Object(name).Delete(ctx)
	}
)

type GCSStore struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSStore connects with application default credentials, or with the
// service-account file at credentialsFile when it is set.
func NewGCSStore(ctx context.Context, bucket, prefix, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	c, err := newGCSClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStore{client: c, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSStore) Backend() string { return "gcs" }

func (s *GCSStore) objectName(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Put uploads r and then checks the stored size against size.
func (s *GCSStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string, meta map[string]string) error {
	name := s.objectName(key)

	w := openGCSWriter(ctx, s.client, s.bucket, name, contentType, meta)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", name, err)
	}

	got, err := gcsObjectSize(ctx, s.client, s.bucket, name)
	if err != nil {
		return fmt.Errorf("gcs attrs %s: %w", name, err)
	}
	if got != size {
		return fmt.Errorf("%w: local=%d remote=%d", ErrSizeMismatch, size, got)
	}
	return nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	name := s.objectName(key)
	if err := deleteGCSObject(ctx, s.client, s.bucket, name); err != nil {
		return fmt.Errorf("gcs delete %s: %w", name, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
