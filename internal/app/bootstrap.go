package app

import (
	"bulletin/internal/app/board"
	"bulletin/internal/app/health"
	"bulletin/internal/config"
	"bulletin/internal/providers/redis"
	"bulletin/internal/providers/search"
	"bulletin/internal/router"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Application struct {
	Router *router.Router
	Search *search.Client
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	searchClient := search.NewClient(search.Config{
		Path:     cfg.IndexPath(),
		Shards:   cfg.IndexShards,
		Replicas: cfg.IndexReplicas,
	}, logger)

	// Detached on purpose: requests racing the bootstrap fail with a
	// store-not-ready error until the handle is published.
	go func() {
		if err := searchClient.Bootstrap(); err != nil {
			logger.Error("Index bootstrap failed", zap.Error(err))
		}
	}()

	var redisProvider *redis.RedisProvider
	var redisClient *goredis.Client
	if cfg.CacheEnabled {
		redisProvider = redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
		redisClient = redisProvider.Client
	}

	boardRepo := board.NewRepository(searchClient, logger)
	boardService := board.NewService(boardRepo, redisProvider, logger)
	boardHandler := board.NewHandler(boardService, logger)

	healthHandler := health.NewHandler(&health.Checker{
		Search: searchClient,
		Redis:  redisClient,
	})

	r := router.NewRouter(logger)
	r.RegisterHealthRoutes(healthHandler)
	r.RegisterBoardRoutes(boardHandler)

	return &Application{
		Router: r,
		Search: searchClient,
	}, nil
}
