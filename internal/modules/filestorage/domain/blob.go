package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrBlobNotFound = errors.New("blob not found")

// Blob describes a stored preview image.
type Blob struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// BlobStore holds transient preview blobs.
// Implemented by the local filesystem and by S3/MinIO.
type BlobStore interface {
	// Put stores the content under key and returns a URL clients can load.
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Open streams a stored blob. Missing keys yield ErrBlobNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// SignedURL returns a time-limited URL for a private blob.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
