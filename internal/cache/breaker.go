package cache

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerSettings controls when the cache backend is considered unavailable
type BreakerSettings struct {
	MaxFailures uint32        // consecutive failures before the breaker opens
	OpenTimeout time.Duration // how long the breaker stays open before probing again
}

// BreakerBackend guards reads and writes of another Backend with a circuit
// breaker. While the breaker is open those calls fail immediately with
// gobreaker.ErrOpenState, which the Manager treats like any other backend
// failure and answers from the store instead. Delete always reaches the
// backend: an invalidation skipped after a committed write would leave a
// stale entry for every node sharing the cache.
type BreakerBackend struct {
	next Backend
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerBackend wraps next
func NewBreakerBackend(next Backend, settings BreakerSettings, logger *zap.Logger) *BreakerBackend {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cache-backend",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up says nothing about the backend
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Cache circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerBackend{next: next, cb: cb}
}

// State reports the current breaker state
func (b *BreakerBackend) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return val.([]byte), nil
}

func (b *BreakerBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Set(ctx, key, value, ttl)
	})
	return err
}

// Delete bypasses the breaker
func (b *BreakerBackend) Delete(ctx context.Context, key string) error {
	return b.next.Delete(ctx, key)
}

func (b *BreakerBackend) Exists(ctx context.Context, key string) (bool, error) {
	val, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Exists(ctx, key)
	})
	if err != nil {
		return false, err
	}
	return val.(bool), nil
}

// Ping bypasses the breaker so health checks report the real backend state
func (b *BreakerBackend) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

func (b *BreakerBackend) Close() error {
	return b.next.Close()
}
