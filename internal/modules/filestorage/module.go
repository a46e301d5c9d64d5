package filestorage

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/linkme/cardstudio/internal/modules/filestorage/application"
	"github.com/linkme/cardstudio/internal/modules/filestorage/domain"
	"github.com/linkme/cardstudio/internal/modules/filestorage/infrastructure/local"
	"github.com/linkme/cardstudio/internal/modules/filestorage/infrastructure/s3"
	"github.com/linkme/cardstudio/internal/shared/infrastructure/config"
)

const previewFolder = "previews"

// Module represents the FileStorage module
type Module struct {
	service *application.BlobService
	store   domain.BlobStore
	static  http.Handler
}

// NewModule picks S3/MinIO or the local filesystem as the preview blob store.
func NewModule(ctx context.Context, cfg config.FileStorageConfig) (*Module, error) {
	m := &Module{}

	if cfg.UseS3 {
		store, err := s3.NewS3Storage(ctx, s3.S3Config{
			BucketName:     cfg.S3BucketName,
			Region:         cfg.S3Region,
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			UseSSL:         cfg.S3UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		m.store = store
	} else {
		store, err := local.NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		m.store = store
		m.static = http.StripPrefix(staticPrefix(cfg.LocalURL), http.FileServer(blobsOnly{http.Dir(store.BasePath())}))
	}

	m.service = application.NewBlobService(m.store, previewFolder).WithSignedURLs(cfg.S3SignedURLTTL)
	return m, nil
}

// Service returns the blob service for use by other modules
func (m *Module) Service() *application.BlobService {
	return m.service
}

// StaticHandler serves locally stored blobs. It is nil when blobs live in S3.
func (m *Module) StaticHandler() http.Handler {
	return m.static
}

// StaticPrefix is the path the static handler should be mounted on.
func StaticPrefix(cfg config.FileStorageConfig) string {
	return staticPrefix(cfg.LocalURL)
}

// blobsOnly hides directories so the static handler never lists the blobs
// of other sessions.
type blobsOnly struct {
	fs http.FileSystem
}

func (b blobsOnly) Open(name string) (http.File, error) {
	f, err := b.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

func staticPrefix(localURL string) string {
	u, err := url.Parse(localURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/uploads/"
	}
	p := u.Path
	if p[len(p)-1] != '/' {
		p += "/"
	}
	return p
}
