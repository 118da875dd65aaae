package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Blob      BlobConfig
	Events    EventsConfig
	AWS       AWSConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	Level string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Database       string
	Schema         string
	SSLMode        string
	MaxConns       int32
	IsolationLevel string // read committed, repeatable read or serializable
}

// DSN renders the connection string understood by pgx
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   c.Database,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	if c.Schema != "" {
		q.Set("search_path", c.Schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type CacheConfig struct {
	Driver             string // redis or memory
	TTL                time.Duration
	KeyPrefix          string
	MemoryCapacity     int
	MemoryShards       int
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

type BlobConfig struct {
	Driver           string // s3 or local
	LocalDir         string
	PublicBaseURL    string
	S3Endpoint       string
	BucketBrands     string
	BucketCategories string
	BucketProducts   string
	MaxUploadBytes   int64
}

type EventsConfig struct {
	Driver       string // eventbridge, redis or log
	BusName      string
	Source       string
	RedisChannel string
}

type AWSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type JWTConfig struct {
	Secret string
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerWindow int
	Window            time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first; real environment variables take precedence.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			Database:       v.GetString("DB_DATABASE"),
			Schema:         v.GetString("DB_SCHEMA"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			MaxConns:       v.GetInt32("DB_MAX_CONNS"),
			IsolationLevel: v.GetString("DB_ISOLATION_LEVEL"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Driver:             v.GetString("CACHE_DRIVER"),
			TTL:                v.GetDuration("CACHE_TTL"),
			KeyPrefix:          v.GetString("CACHE_KEY_PREFIX"),
			MemoryCapacity:     v.GetInt("CACHE_MEMORY_CAPACITY"),
			MemoryShards:       v.GetInt("CACHE_MEMORY_SHARDS"),
			BreakerMaxFailures: v.GetUint32("CACHE_BREAKER_MAX_FAILURES"),
			BreakerOpenTimeout: v.GetDuration("CACHE_BREAKER_OPEN_TIMEOUT"),
		},
		Blob: BlobConfig{
			Driver:           v.GetString("BLOB_DRIVER"),
			LocalDir:         v.GetString("BLOB_LOCAL_DIR"),
			PublicBaseURL:    v.GetString("BLOB_PUBLIC_BASE_URL"),
			S3Endpoint:       v.GetString("BLOB_S3_ENDPOINT"),
			BucketBrands:     v.GetString("BLOB_BUCKET_BRANDS"),
			BucketCategories: v.GetString("BLOB_BUCKET_CATEGORIES"),
			BucketProducts:   v.GetString("BLOB_BUCKET_PRODUCTS"),
			MaxUploadBytes:   v.GetInt64("BLOB_MAX_UPLOAD_BYTES"),
		},
		Events: EventsConfig{
			Driver:       v.GetString("EVENTS_DRIVER"),
			BusName:      v.GetString("EVENTS_BUS_NAME"),
			Source:       v.GetString("EVENTS_SOURCE"),
			RedisChannel: v.GetString("EVENTS_REDIS_CHANNEL"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			Endpoint:        v.GetString("AWS_ENDPOINT_URL"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           v.GetBool("RATE_LIMIT_ENABLED"),
			RequestsPerWindow: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:            v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_ISOLATION_LEVEL", "read committed")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_DRIVER", "redis")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CACHE_KEY_PREFIX", "")
	v.SetDefault("CACHE_MEMORY_CAPACITY", 10000)
	v.SetDefault("CACHE_MEMORY_SHARDS", 64)
	v.SetDefault("CACHE_BREAKER_MAX_FAILURES", 5)
	v.SetDefault("CACHE_BREAKER_OPEN_TIMEOUT", "30s")
	v.SetDefault("BLOB_DRIVER", "local")
	v.SetDefault("BLOB_LOCAL_DIR", "./data/blobs")
	v.SetDefault("BLOB_PUBLIC_BASE_URL", "/blobs")
	v.SetDefault("BLOB_BUCKET_BRANDS", "brands")
	v.SetDefault("BLOB_BUCKET_CATEGORIES", "categories")
	v.SetDefault("BLOB_BUCKET_PRODUCTS", "products")
	v.SetDefault("BLOB_MAX_UPLOAD_BYTES", 5<<20)
	v.SetDefault("EVENTS_DRIVER", "log")
	v.SetDefault("EVENTS_BUS_NAME", "default")
	v.SetDefault("EVENTS_SOURCE", "catalog-service")
	v.SetDefault("EVENTS_REDIS_CHANNEL", "catalog:events")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// Validate rejects combinations the server cannot start with
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	switch c.Blob.Driver {
	case "s3", "local":
	default:
		return fmt.Errorf("unsupported BLOB_DRIVER %q", c.Blob.Driver)
	}
	if c.Blob.MaxUploadBytes <= 0 {
		return fmt.Errorf("BLOB_MAX_UPLOAD_BYTES must be positive")
	}

	switch c.Events.Driver {
	case "eventbridge", "redis", "log":
	default:
		return fmt.Errorf("unsupported EVENTS_DRIVER %q", c.Events.Driver)
	}

	switch strings.ToLower(c.Database.IsolationLevel) {
	case "read committed", "repeatable read", "serializable":
	default:
		return fmt.Errorf("unsupported DB_ISOLATION_LEVEL %q", c.Database.IsolationLevel)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerWindow <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit requires positive RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
