package cache

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is applied to every catalog key unless configured otherwise
const DefaultTTL = 5 * time.Minute

// FetchFunc loads a value from the backing store on a cache miss
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Manager wraps a Backend with JSON serialization, logging and metrics.
// Backend failures never fail a read: the Manager logs them and falls
// through to the store.
type Manager struct {
	backend Backend
	logger  *zap.Logger
	metrics *Metrics
}

// NewManager creates a Manager. metrics may be nil.
func NewManager(backend Backend, logger *zap.Logger, metrics *Metrics) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		backend: backend,
		logger:  logger,
		metrics: metrics,
	}
}

// Metrics returns the counters the Manager records into
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Ping checks the underlying backend
func (m *Manager) Ping(ctx context.Context) error {
	return m.backend.Ping(ctx)
}

// Close releases the backend
func (m *Manager) Close() error {
	return m.backend.Close()
}

// GetFromCache returns the value stored under key, or calls fetch and caches
// its result for ttl. Errors from fetch are returned unchanged and nothing is
// cached. A nil result is returned but not cached.
func GetFromCache[T any](ctx context.Context, m *Manager, key string, fetch FetchFunc[T], ttl time.Duration) (T, error) {
	entity := EntityOf(key)

	if value, ok := m.read(ctx, key, entity, func(data []byte) (any, error) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if isNil(v) {
			return nil, errors.New("cached value is null")
		}
		return v, nil
	}); ok {
		return value.(T), nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if isNil(value) {
		return value, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		m.logger.Warn("Cache encode failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return value, nil
	}

	if err := m.backend.Set(ctx, key, data, ttl); err != nil {
		m.metrics.lookup(entity, ResultError)
		m.logger.Warn("Cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	return value, nil
}

// read performs the backend lookup half of GetFromCache. It is not generic so
// the logging and accounting live in one place.
func (m *Manager) read(ctx context.Context, key, entity string, decode func([]byte) (any, error)) (any, bool) {
	data, err := m.backend.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		m.metrics.lookup(entity, ResultMiss)
		m.logger.Debug("Cache miss", zap.String("key", key))
		return nil, false
	case err != nil:
		m.metrics.lookup(entity, ResultError)
		m.logger.Warn("Cache read failed, falling back to store",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}

	value, err := decode(data)
	if err != nil {
		m.metrics.lookup(entity, ResultCorrupt)
		m.logger.Warn("Discarding undecodable cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
		if delErr := m.backend.Delete(ctx, key); delErr != nil {
			m.logger.Warn("Failed to delete undecodable cache entry",
				zap.String("key", key),
				zap.Error(delErr),
			)
		}
		return nil, false
	}

	m.metrics.lookup(entity, ResultHit)
	m.logger.Debug("Cache hit", zap.String("key", key))
	return value, true
}

// InvalidateCache deletes every distinct key. All keys are attempted even if
// some deletions fail; the failures are returned joined.
func (m *Manager) InvalidateCache(ctx context.Context, keys ...string) error {
	seen := make(map[string]struct{}, len(keys))
	var errs []error

	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if err := m.backend.Delete(ctx, key); err != nil {
			m.metrics.invalidation(EntityOf(key), ResultError)
			errs = append(errs, err)
			continue
		}
		m.metrics.invalidation(EntityOf(key), ResultOK)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	m.logger.Debug("Cache invalidated", zap.Int("keys", len(seen)))
	return nil
}

// Exists reports whether key is present. Backend errors report false so the
// caller falls back to its own source of truth.
func (m *Manager) Exists(ctx context.Context, key string) bool {
	ok, err := m.backend.Exists(ctx, key)
	if err != nil {
		m.logger.Warn("Cache existence check failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return ok
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
