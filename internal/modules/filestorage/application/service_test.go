package application_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/linkme/cardstudio/internal/modules/filestorage/application"
	"github.com/linkme/cardstudio/internal/modules/filestorage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, content, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func TestBlobService_Store(t *testing.T) {
	store := new(mockStore)
	t.Cleanup(func() { store.AssertExpectations(t) })
	svc := application.NewBlobService(store, "/previews/")

	store.On("Put", mock.Anything, mock.MatchedBy(func(k string) bool {
		return strings.HasPrefix(k, "previews/") && strings.HasSuffix(k, ".jpg")
	}), mock.Anything, "image/jpeg").Return("http://localhost:8080/uploads/previews/x.jpg", nil).Once()

	blob, err := svc.Store(context.Background(), []byte("abc"), "image/jpeg", ".jpg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/previews/x.jpg", blob.URL)
	assert.Equal(t, int64(3), blob.Size)
	assert.Equal(t, "image/jpeg", blob.ContentType)
	assert.True(t, strings.HasPrefix(blob.Key, "previews/"))
}

func TestBlobService_StoreError(t *testing.T) {
	store := new(mockStore)
	svc := application.NewBlobService(store, "previews")
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("disk full")).Once()

	_, err := svc.Store(context.Background(), []byte("abc"), "image/jpeg", ".jpg")
	assert.EqualError(t, err, "disk full")
}

func TestBlobService_ReleaseAndOpen(t *testing.T) {
	store := new(mockStore)
	t.Cleanup(func() { store.AssertExpectations(t) })
	svc := application.NewBlobService(store, "previews")

	require.NoError(t, svc.Release(context.Background(), ""))

	store.On("Delete", mock.Anything, "previews/a.jpg").Return(nil).Once()
	require.NoError(t, svc.Release(context.Background(), "previews/a.jpg"))

	store.On("Open", mock.Anything, "previews/missing.jpg").Return(nil, domain.ErrBlobNotFound).Once()
	_, err := svc.Open(context.Background(), "previews/missing.jpg")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestBlobService_StoreSignedURL(t *testing.T) {
	store := new(mockStore)
	t.Cleanup(func() { store.AssertExpectations(t) })
	svc := application.NewBlobService(store, "previews").WithSignedURLs(time.Hour)

	var key string
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/jpeg").
		Run(func(args mock.Arguments) { key = args.String(1) }).
		Return("http://minio:9000/previews/x.jpg", nil).Once()
	store.On("SignedURL", mock.Anything, mock.Anything, time.Hour).Return("http://minio:9000/previews/x.jpg?X-Amz-Signature=abc", nil).Once()

	blob, err := svc.Store(context.Background(), []byte("abc"), "image/jpeg", ".jpg")
	require.NoError(t, err)
	assert.Equal(t, key, blob.Key)
	assert.Contains(t, blob.URL, "X-Amz-Signature")
}

func TestBlobService_StoreSignedURLErrorDeletesBlob(t *testing.T) {
	store := new(mockStore)
	t.Cleanup(func() { store.AssertExpectations(t) })
	svc := application.NewBlobService(store, "previews").WithSignedURLs(time.Minute)

	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("http://minio/x.jpg", nil).Once()
	store.On("SignedURL", mock.Anything, mock.Anything, time.Minute).Return("", errors.New("no credentials")).Once()
	store.On("Delete", mock.Anything, mock.MatchedBy(func(k string) bool { return strings.HasPrefix(k, "previews/") })).Return(nil).Once()

	_, err := svc.Store(context.Background(), []byte("abc"), "image/jpeg", ".jpg")
	assert.EqualError(t, err, "no credentials")
}
