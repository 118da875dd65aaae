package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viccon/sturdyc"
	"go.uber.org/zap"
)

// MemoryConfig configures the in-process backend
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// DefaultMemoryConfig returns settings suitable for a single development node
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          64,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// MemoryBackend is a process-local Backend built on a sharded sturdyc client.
// It is not shared between nodes, so it only suits single-instance deployments
// and tests. Entries expire after the client-wide TTL; a per-call TTL can only
// be honoured up to that bound, and a longer or unbounded one is logged.
type MemoryBackend struct {
	client *sturdyc.Client[[]byte]
	ttl    time.Duration
	logger *zap.Logger
	warned sync.Map // time.Duration -> struct{}
}

// NewMemoryBackend validates cfg and creates the sturdyc client
func NewMemoryBackend(cfg MemoryConfig, logger *zap.Logger) (*MemoryBackend, error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("memory cache capacity must be greater than 0")
	}
	if cfg.NumShards <= 0 {
		return nil, fmt.Errorf("memory cache shards must be greater than 0")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("memory cache TTL must be greater than 0")
	}
	if cfg.EvictionPercentage < 1 || cfg.EvictionPercentage > 100 {
		return nil, fmt.Errorf("memory cache eviction percentage must be between 1 and 100")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	client := sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)
	return &MemoryBackend{client: client, ttl: cfg.TTL, logger: logger}, nil
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := m.client.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > m.ttl {
		m.warnTTL(key, ttl)
	}
	m.client.Set(key, append([]byte(nil), value...))
	return nil
}

// warnTTL logs once per requested TTL that entries will expire earlier than asked
func (m *MemoryBackend) warnTTL(key string, ttl time.Duration) {
	if _, seen := m.warned.LoadOrStore(ttl, struct{}{}); seen {
		return
	}
	m.logger.Warn("Requested cache TTL exceeds the memory cache TTL, entries will expire earlier",
		zap.String("key", key),
		zap.Duration("requested_ttl", ttl),
		zap.Duration("memory_ttl", m.ttl),
	)
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.client.Delete(key)
	return nil
}

func (m *MemoryBackend) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.client.Get(key)
	return ok, nil
}

func (m *MemoryBackend) Ping(context.Context) error {
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
