package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linkme/cardstudio/internal/modules/filestorage/domain"
)

// BlobService stores and releases the preview blobs a studio session holds.
type BlobService struct {
	store   domain.BlobStore
	folder  string
	signTTL time.Duration
}

// NewBlobService stores every blob under folder.
func NewBlobService(store domain.BlobStore, folder string) *BlobService {
	return &BlobService{
		store:  store,
		folder: strings.Trim(folder, "/"),
	}
}

// WithSignedURLs makes Store hand out time-limited URLs instead of public
// ones, for buckets that do not allow anonymous reads. A ttl of zero keeps
// public URLs.
func (s *BlobService) WithSignedURLs(ttl time.Duration) *BlobService {
	s.signTTL = ttl
	return s
}

// Store saves data under a fresh key and returns the blob metadata.
func (s *BlobService) Store(ctx context.Context, data []byte, contentType, ext string) (domain.Blob, error) {
	key := fmt.Sprintf("%s/%s%s", s.folder, uuid.New().String(), ext)

	url, err := s.store.Put(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return domain.Blob{}, err
	}
	if s.signTTL > 0 {
		url, err = s.store.SignedURL(ctx, key, s.signTTL)
		if err != nil {
			_ = s.store.Delete(ctx, key)
			return domain.Blob{}, err
		}
	}
	return domain.Blob{
		Key:         key,
		URL:         url,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Open streams a blob back.
func (s *BlobService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.store.Open(ctx, key)
}

// Release deletes a blob. An empty key is a no-op.
func (s *BlobService) Release(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}
