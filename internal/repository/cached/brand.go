package cached

import (
	"context"
	"time"

	"catalog-service/internal/cache"
	"catalog-service/internal/domain"
	"catalog-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BrandRepository caches brand reads under Brand_{id} and Brand_All
type BrandRepository struct {
	base
	inner repository.BrandRepository
}

var _ repository.BrandRepository = (*BrandRepository)(nil)

func NewBrandRepository(inner repository.BrandRepository, manager *cache.Manager, ttl time.Duration, logger *zap.Logger) *BrandRepository {
	return &BrandRepository{
		base:  newBase(manager, ttl, logger, cache.EntityBrand),
		inner: inner,
	}
}

func (r *BrandRepository) GetAll(ctx context.Context) ([]*domain.Brand, error) {
	return cache.GetFromCache[[]*domain.Brand](ctx, r.cache, cache.AllKey(cache.EntityBrand), r.inner.GetAll, r.ttl)
}

func (r *BrandRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	return cache.GetFromCache[*domain.Brand](ctx, r.cache, cache.EntityKey(cache.EntityBrand, id), func(ctx context.Context) (*domain.Brand, error) {
		return r.inner.GetByID(ctx, id)
	}, r.ttl)
}

func (r *BrandRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, cache.EntityKey(cache.EntityBrand, id), func(ctx context.Context) (bool, error) {
		return r.inner.Exists(ctx, id)
	})
}

func (r *BrandRepository) Add(ctx context.Context, brand *domain.Brand) (bool, error) {
	ok, err := r.inner.Add(ctx, brand)
	if err == nil {
		r.invalidate(ctx, "add", r.keys(brand.ID())...)
	}
	return ok, err
}

func (r *BrandRepository) Update(ctx context.Context, brand *domain.Brand) (bool, error) {
	ok, err := r.inner.Update(ctx, brand)
	r.invalidate(ctx, "update", r.keys(brand.ID())...)
	return ok, err
}

func (r *BrandRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := r.inner.RemoveByID(ctx, id)
	r.invalidate(ctx, "remove", r.keys(id)...)
	return ok, err
}

func (r *BrandRepository) keys(id uuid.UUID) []string {
	return []string{
		cache.EntityKey(cache.EntityBrand, id),
		cache.AllKey(cache.EntityBrand),
	}
}
