package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/linkme/cardstudio/internal/gateway"
	"github.com/linkme/cardstudio/internal/gateway/middleware"
	"github.com/linkme/cardstudio/internal/modules/filestorage"
	"github.com/linkme/cardstudio/internal/modules/studio"
	"github.com/linkme/cardstudio/internal/shared/infrastructure/config"
	"github.com/linkme/cardstudio/internal/shared/infrastructure/database"
	"github.com/linkme/cardstudio/internal/shared/infrastructure/logger"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

type app struct {
	handler  http.Handler
	shutdown []func()
}

func (a *app) close() {
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		a.shutdown[i]()
	}
}

func newApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	a := &app{}

	var redisClient *goredis.Client
	if cfg.Studio.SessionStore == studio.StoreRedis {
		client, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr()))
		redisClient = client
		a.shutdown = append(a.shutdown, func() { client.Close() })
	}

	fileModule, err := filestorage.NewModule(ctx, cfg.FileStorage)
	if err != nil {
		a.close()
		return nil, err
	}

	studioModule, err := studio.NewModule(ctx, cfg, log, redisClient, fileModule.Service())
	if err != nil {
		a.close()
		return nil, err
	}
	a.shutdown = append(a.shutdown, studioModule.Shutdown)

	mux := gateway.SetupRoutes(gateway.RouterConfig{
		StudioHandler: studioModule.HTTPHandler(),
		Bearer:        middleware.NewBearerMiddleware(),
		Static:        fileModule.StaticHandler(),
		StaticPrefix:  filestorage.StaticPrefix(cfg.FileStorage),
	})

	a.handler = gateway.NewRouter(mux).Use(
		middleware.PrometheusMiddleware,
		func(next http.Handler) http.Handler {
			return middleware.CORSMiddleware(next, cfg.Server.AllowedOrigins)
		},
	).Handler()

	return a, nil
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	log.Info("card studio ready",
		zap.String("session_store", cfg.Studio.SessionStore),
		zap.Bool("s3", cfg.FileStorage.UseS3),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	server := gateway.NewServer(cfg.Server.Port, a.handler, log)
	server.OnShutdown(a.close)
	return server.Start(ctx)
}
