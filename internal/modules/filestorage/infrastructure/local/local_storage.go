package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linkme/cardstudio/internal/modules/filestorage/domain"
)

// LocalStorage keeps preview blobs on the local filesystem and serves them
// under baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates the base directory if needed.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// BasePath is the directory blobs are written to.
func (l *LocalStorage) BasePath() string {
	return l.basePath
}

func (l *LocalStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return l.url(key), nil
}

func (l *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SignedURL has nothing to sign locally and returns the public URL.
func (l *LocalStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return l.url(key), nil
}

func (l *LocalStorage) url(key string) string {
	return fmt.Sprintf("%s/%s", l.baseURL, key)
}

// path resolves key inside basePath and rejects keys that escape it.
func (l *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(l.basePath, clean), nil
}
