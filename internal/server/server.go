package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"catalog-service/internal/cache"
	"catalog-service/internal/config"
	"catalog-service/internal/database"
	custommiddleware "catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/repository/cached"
	"catalog-service/internal/service"
	"catalog-service/internal/transport"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
	cache  *cache.Manager
}

func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *database.Service) (*Server, error) {
	isolation, err := database.ParseIsolationLevel(cfg.Database.IsolationLevel)
	if err != nil {
		return nil, err
	}

	redisClient := cache.NewRedisClient(cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// AWS config is only loaded when a driver needs it
	var (
		awsOnce sync.Once
		awsCfg  aws.Config
		awsErr  error
	)
	loadAWS := func() (aws.Config, error) {
		awsOnce.Do(func() { awsCfg, awsErr = provideAWSConfig(ctx, cfg.AWS) })
		return awsCfg, awsErr
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	backend, err := provideCacheBackend(cfg, redisClient, logger.Named("cache"))
	if err != nil {
		redisClient.Close()
		return nil, err
	}
	manager := cache.NewManager(backend, logger.Named("cache"), cache.NewMetrics(registry))

	blobs, localBlobs, err := provideBlobStore(cfg, loadAWS, logger.Named("blobs"))
	if err != nil {
		redisClient.Close()
		return nil, err
	}
	publisher, err := providePublisher(cfg, loadAWS, redisClient, logger.Named("events"))
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	// Stores wrapped by the cache-aside decorators
	ttl := cfg.Cache.TTL
	repoLogger := logger.Named("repository")
	brands := cached.NewBrandRepository(repository.NewBrandRepository(db.Pool()), manager, ttl, repoLogger)
	categories := cached.NewCategoryRepository(repository.NewCategoryRepository(db.Pool()), manager, ttl, repoLogger)
	products := cached.NewProductRepository(repository.NewProductRepository(db.Pool()), manager, ttl, repoLogger)
	images := cached.NewProductImageRepository(repository.NewProductImageRepository(db.Pool(), isolation, repoLogger), manager, ttl, repoLogger)

	bucket := func(name string) service.ImageBucket {
		return service.ImageBucket{Blobs: blobs, Bucket: name, MaxBytes: cfg.Blob.MaxUploadBytes}
	}
	brandImages := bucket(cfg.Blob.BucketBrands)
	categoryImages := bucket(cfg.Blob.BucketCategories)
	productImages := bucket(cfg.Blob.BucketProducts)

	svcLogger := logger.Named("service")
	handlers := transport.Handlers{
		Brands: transport.NewBrandHandler(
			service.NewBrandService(brands, brandImages, publisher, svcLogger), brandImages, logger),
		Categories: transport.NewCategoryHandler(
			service.NewCategoryService(categories, categoryImages, publisher, svcLogger), categoryImages, logger),
		Products: transport.NewProductHandler(
			service.NewProductService(products, brands, categories, images, productImages, publisher, svcLogger), logger),
		ProductImages: transport.NewProductImageHandler(
			service.NewProductImageService(images, products, productImages, svcLogger), productImages, logger),
	}

	s := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
		cache:  manager,
	}

	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger.Named("http")))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))

	router.Get("/health", s.health)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	if localBlobs != nil {
		router.Handle("/blobs/*", http.StripPrefix("/blobs/", http.FileServer(localBlobs.FileSystem())))
	}

	router.Group(func(r chi.Router) {
		if cfg.RateLimit.Enabled {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         cfg.Cache.KeyPrefix + "rate_limit",
			}, logger.Named("ratelimit")))
		}
		transport.RegisterRoutes(r, handlers, custommiddleware.RequireWriter(cfg.JWT.Secret, logger.Named("auth")))
	})

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info("Server configured",
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Duration("cache_ttl", ttl),
		zap.String("blob_driver", cfg.Blob.Driver),
		zap.String("events_driver", cfg.Events.Driver),
		zap.Bool("auth_enabled", cfg.JWT.Secret != ""),
	)
	return s, nil
}

// health reports 503 only when the database is down. The cache fails open, so an
// unreachable cache degrades the service without taking it out of rotation.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	dbHealth := s.db.Health(r.Context())

	cacheStatus := "up"
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()
	if err := s.cache.Ping(ctx); err != nil {
		cacheStatus = "down"
	}

	status, code := "ok", http.StatusOK
	switch {
	case dbHealth["status"] != "up":
		status, code = "unavailable", http.StatusServiceUnavailable
	case cacheStatus != "up":
		status = "degraded"
	}

	custommiddleware.RespondWithJSON(w, code, map[string]interface{}{
		"status":   status,
		"database": dbHealth,
		"cache":    cacheStatus,
	})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if err := s.cache.Close(); err != nil {
		s.logger.Error("Failed to close cache backend", zap.Error(err))
	}
	if err := s.redis.Close(); err != nil {
		s.logger.Error("Failed to close Redis client", zap.Error(err))
	}
	s.db.Close()

	s.logger.Sync()
	return nil
}
