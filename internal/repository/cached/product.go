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

// ProductRepository caches product reads under Product_{id} and Product_All.
// Images are cached separately by ProductImageRepository.
type ProductRepository struct {
	base
	inner repository.ProductRepository
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(inner repository.ProductRepository, manager *cache.Manager, ttl time.Duration, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{
		base:  newBase(manager, ttl, logger, cache.EntityProduct),
		inner: inner,
	}
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return cache.GetFromCache[[]*domain.Product](ctx, r.cache, cache.AllKey(cache.EntityProduct), r.inner.GetAll, r.ttl)
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return cache.GetFromCache[*domain.Product](ctx, r.cache, cache.EntityKey(cache.EntityProduct, id), func(ctx context.Context) (*domain.Product, error) {
		return r.inner.GetByID(ctx, id)
	}, r.ttl)
}

func (r *ProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, cache.EntityKey(cache.EntityProduct, id), func(ctx context.Context) (bool, error) {
		return r.inner.Exists(ctx, id)
	})
}

func (r *ProductRepository) Add(ctx context.Context, product *domain.Product) (bool, error) {
	ok, err := r.inner.Add(ctx, product)
	if err == nil {
		r.invalidate(ctx, "add", r.keys(product.ID())...)
	}
	return ok, err
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (bool, error) {
	ok, err := r.inner.Update(ctx, product)
	r.invalidate(ctx, "update", r.keys(product.ID())...)
	return ok, err
}

func (r *ProductRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := r.inner.RemoveByID(ctx, id)
	r.invalidate(ctx, "remove", r.keys(id)...)
	return ok, err
}

func (r *ProductRepository) keys(id uuid.UUID) []string {
	return []string{
		cache.EntityKey(cache.EntityProduct, id),
		cache.AllKey(cache.EntityProduct),
	}
}
