package studio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linkme/cardstudio/internal/modules/studio/application"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
	"github.com/linkme/cardstudio/internal/modules/studio/infrastructure/backend"
	"github.com/linkme/cardstudio/internal/modules/studio/infrastructure/fetcher"
	"github.com/linkme/cardstudio/internal/modules/studio/infrastructure/persistence/memory"
	studioredis "github.com/linkme/cardstudio/internal/modules/studio/infrastructure/persistence/redis"
	"github.com/linkme/cardstudio/internal/modules/studio/infrastructure/qr"
	"github.com/linkme/cardstudio/internal/modules/studio/infrastructure/raster"
	"github.com/linkme/cardstudio/internal/modules/studio/infrastructure/websocket"
	studio_http "github.com/linkme/cardstudio/internal/modules/studio/interfaces/http"
	"github.com/linkme/cardstudio/internal/shared/infrastructure/config"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	sweepInterval = time.Minute
)

// ErrRedisNeedsObjectStorage is returned for SESSION_STORE=redis without
// USE_S3. Preview blobs in a bucket can be expired by a lifecycle rule.
var ErrRedisNeedsObjectStorage = errors.New("session store \"redis\" requires USE_S3=true")

type Module struct {
	service application.StudioService
	handler *studio_http.StudioHandler
	hub     *websocket.Hub
	cancel  context.CancelFunc
}

// NewModule wires the studio service. redisClient is only used when the
// session store is "redis".
func NewModule(ctx context.Context, cfg config.Config, log *zap.Logger, redisClient *goredis.Client, blobs application.BlobStore) (*Module, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)

	var (
		repo domain.SessionRepository
		mem  *memory.SessionRepository
	)
	switch cfg.Studio.SessionStore {
	case StoreRedis:
		if redisClient == nil {
			cancel()
			return nil, fmt.Errorf("session store %q requires a redis client", StoreRedis)
		}
		// redis expires sessions silently, so nothing would ever delete
		// their preview files from local disk.
		if !cfg.FileStorage.UseS3 {
			cancel()
			return nil, ErrRedisNeedsObjectStorage
		}
		repo = studioredis.NewSessionRepository(redisClient, cfg.Studio.SessionTTL)
	case StoreMemory, "":
		mem = memory.NewSessionRepository(cfg.Studio.SessionTTL)
		repo = mem
	default:
		cancel()
		return nil, fmt.Errorf("unknown session store %q", cfg.Studio.SessionStore)
	}

	hub := websocket.NewHub(log.Named("live"))
	go hub.Run()

	service := application.NewStudioService(application.Deps{
		Repo:       repo,
		Blobs:      blobs,
		QR:         qr.NewEncoder(),
		Rasterizer: raster.NewRenderer(raster.DefaultScale),
		Fetcher:    fetcher.New(cfg.Backend.Timeout, cfg.Studio.MaxUploadSize),
		Backend:    backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout),
		Publisher:  hub,
		Logger:     log.Named("studio"),
	}, application.Options{
		PublicBaseURL: cfg.Studio.PublicBaseURL,
		CopyWindow:    cfg.Studio.CopyAckWindow,
		CountActive:   mem != nil,
	})

	if mem != nil {
		mem.OnExpire(service.OnSessionExpired)
		go mem.Run(ctx, sweepInterval)
	}

	handler := studio_http.NewStudioHandler(service, hub, cfg.Studio.MaxUploadSize, log.Named("studio_http"))

	return &Module{
		service: service,
		handler: handler,
		hub:     hub,
		cancel:  cancel,
	}, nil
}

func (m *Module) HTTPHandler() *studio_http.StudioHandler {
	return m.handler
}

func (m *Module) Service() application.StudioService {
	return m.service
}

func (m *Module) Hub() *websocket.Hub {
	return m.hub
}

// Shutdown stops the expiry sweeper and closes every live connection.
func (m *Module) Shutdown() {
	m.cancel()
	m.hub.Stop()
}
