package storage

import (
	"context"
	"io"
)

// ObjectStore defines the object operations shared by the MinIO and GCS
// backends. Resumes are the only objects the platform stores.
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	Store(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, key string) error
	Bucket() string
}
