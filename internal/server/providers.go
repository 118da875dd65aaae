package server

import (
	"context"
	"fmt"

	"catalog-service/internal/cache"
	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// provideAWSConfig loads the default credential chain. Static keys, when set, take precedence.
func provideAWSConfig(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// provideCacheBackend builds the configured backend behind a circuit breaker
func provideCacheBackend(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (cache.Backend, error) {
	var backend cache.Backend
	switch cfg.Cache.Driver {
	case "memory":
		memory, err := cache.NewMemoryBackend(cache.MemoryConfig{
			Capacity:           cfg.Cache.MemoryCapacity,
			NumShards:          cfg.Cache.MemoryShards,
			TTL:                cfg.Cache.TTL,
			EvictionPercentage: cache.DefaultMemoryConfig().EvictionPercentage,
		}, logger)
		if err != nil {
			return nil, err
		}
		backend = memory
	default:
		backend = cache.NewRedisBackend(redisClient, cfg.Cache.KeyPrefix)
	}

	return cache.NewBreakerBackend(backend, cache.BreakerSettings{
		MaxFailures: cfg.Cache.BreakerMaxFailures,
		OpenTimeout: cfg.Cache.BreakerOpenTimeout,
	}, logger), nil
}

// provideBlobStore returns the blob store and, for the local driver, the store to serve files from
func provideBlobStore(cfg *config.Config, awsCfg func() (aws.Config, error), logger *zap.Logger) (storage.BlobStore, *storage.LocalStore, error) {
	if cfg.Blob.Driver == "s3" {
		c, err := awsCfg()
		if err != nil {
			return nil, nil, err
		}
		endpoint := cfg.Blob.S3Endpoint
		if endpoint == "" {
			endpoint = cfg.AWS.Endpoint
		}
		client := storage.NewS3Client(c, endpoint)
		return storage.NewS3Store(client, cfg.Blob.PublicBaseURL, logger), nil, nil
	}

	local := storage.NewLocalStore(afero.NewOsFs(), cfg.Blob.LocalDir, cfg.Blob.PublicBaseURL)
	return local, local, nil
}

func providePublisher(cfg *config.Config, awsCfg func() (aws.Config, error), redisClient *redis.Client, logger *zap.Logger) (events.Publisher, error) {
	switch cfg.Events.Driver {
	case "eventbridge":
		c, err := awsCfg()
		if err != nil {
			return nil, err
		}
		client := eventbridge.NewFromConfig(c, func(o *eventbridge.Options) {
			if cfg.AWS.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
			}
		})
		return events.NewEventBridgePublisher(client, cfg.Events.BusName, cfg.Events.Source, logger), nil
	case "redis":
		return events.NewRedisPublisher(redisClient, cfg.Events.RedisChannel, logger), nil
	default:
		return events.NewLogPublisher(logger), nil
	}
}
