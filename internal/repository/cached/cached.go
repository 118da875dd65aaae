// Package cached decorates the catalog repositories with a read-through,
// write-invalidate cache. Each decorator wraps exactly one inner repository
// and implements the same interface, so callers cannot tell them apart.
//
// Reads consult the cache first and populate it on a miss. Writes go to the
// inner repository first and then drop every key the write may have made
// stale. There is no locking: between a committed write and its invalidation
// another reader may still observe the previous cached value.
package cached

import (
	"context"
	"time"

	"catalog-service/internal/cache"

	"go.uber.org/zap"
)

type base struct {
	cache  *cache.Manager
	ttl    time.Duration
	logger *zap.Logger
	entity string
}

func newBase(manager *cache.Manager, ttl time.Duration, logger *zap.Logger, entity string) base {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		cache:  manager,
		ttl:    ttl,
		logger: logger.With(zap.String("entity", entity)),
		entity: entity,
	}
}

// invalidate drops keys after a write. The write has already been committed,
// so a failure is logged and left to the TTL.
func (b base) invalidate(ctx context.Context, op string, keys ...string) {
	if err := b.cache.InvalidateCache(ctx, keys...); err != nil {
		b.logger.Error("Cache invalidation failed after write",
			zap.String("operation", op),
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

// exists answers from the cache when the per-id key is present and
// otherwise defers to check.
func (b base) exists(ctx context.Context, key string, check func(context.Context) (bool, error)) (bool, error) {
	if b.cache.Exists(ctx, key) {
		b.cache.Metrics().ExistsShortcut(b.entity)
		return true, nil
	}
	return check(ctx)
}
