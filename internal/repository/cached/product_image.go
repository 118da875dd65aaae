package cached

import (
	"context"
	"errors"
	"time"

	"catalog-service/internal/cache"
	"catalog-service/internal/domain"
	"catalog-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductImageRepository caches image reads under ProductImage_{id},
// ProductImage_All and ProductImage_All_{productId}.
type ProductImageRepository struct {
	base
	inner repository.ProductImageRepository
}

var _ repository.ProductImageRepository = (*ProductImageRepository)(nil)

func NewProductImageRepository(inner repository.ProductImageRepository, manager *cache.Manager, ttl time.Duration, logger *zap.Logger) *ProductImageRepository {
	return &ProductImageRepository{
		base:  newBase(manager, ttl, logger, cache.EntityProductImage),
		inner: inner,
	}
}

func (r *ProductImageRepository) GetAll(ctx context.Context) ([]*domain.ProductImage, error) {
	return cache.GetFromCache[[]*domain.ProductImage](ctx, r.cache, cache.AllKey(cache.EntityProductImage), r.inner.GetAll, r.ttl)
}

func (r *ProductImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error) {
	return cache.GetFromCache[*domain.ProductImage](ctx, r.cache, cache.EntityKey(cache.EntityProductImage, id), func(ctx context.Context) (*domain.ProductImage, error) {
		return r.inner.GetByID(ctx, id)
	}, r.ttl)
}

func (r *ProductImageRepository) GetAllByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.ProductImage, error) {
	return cache.GetFromCache[[]*domain.ProductImage](ctx, r.cache, cache.ProductImagesKey(productID), func(ctx context.Context) ([]*domain.ProductImage, error) {
		return r.inner.GetAllByProduct(ctx, productID)
	}, r.ttl)
}

// CountByProduct is derived from the cached image list; counts have no key of their own.
func (r *ProductImageRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	images, err := r.GetAllByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return len(images), nil
}

func (r *ProductImageRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, cache.EntityKey(cache.EntityProductImage, id), func(ctx context.Context) (bool, error) {
		return r.inner.Exists(ctx, id)
	})
}

func (r *ProductImageRepository) Add(ctx context.Context, image *domain.ProductImage) (bool, error) {
	ok, err := r.inner.Add(ctx, image)
	if err == nil {
		r.invalidate(ctx, "add", r.keys(image)...)
	}
	return ok, err
}

func (r *ProductImageRepository) Update(ctx context.Context, image *domain.ProductImage) (bool, error) {
	ok, err := r.inner.Update(ctx, image)
	r.invalidate(ctx, "update", r.keys(image)...)
	return ok, err
}

// BatchUpdate invalidates every item under its own product's list key
func (r *ProductImageRepository) BatchUpdate(ctx context.Context, images []*domain.ProductImage) (bool, error) {
	ok, err := r.inner.BatchUpdate(ctx, images)

	keys := []string{cache.AllKey(cache.EntityProductImage)}
	for _, image := range images {
		keys = append(keys,
			cache.EntityKey(cache.EntityProductImage, image.ID()),
			cache.ProductImagesKey(image.ProductID()),
		)
	}
	r.invalidate(ctx, "batch_update", keys...)
	return ok, err
}

// RemoveByID reads the image first so the owning product's list can be invalidated
func (r *ProductImageRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	previous, lookupErr := r.GetByID(ctx, id)
	if lookupErr != nil && !errors.Is(lookupErr, repository.ErrNotFound) {
		r.logger.Warn("Could not read image before removal",
			zap.String("id", id.String()),
			zap.Error(lookupErr),
		)
	}

	ok, err := r.inner.RemoveByID(ctx, id)

	keys := []string{
		cache.EntityKey(cache.EntityProductImage, id),
		cache.AllKey(cache.EntityProductImage),
	}
	if previous != nil {
		keys = append(keys, cache.ProductImagesKey(previous.ProductID()))
	}
	r.invalidate(ctx, "remove", keys...)
	return ok, err
}

func (r *ProductImageRepository) keys(image *domain.ProductImage) []string {
	return []string{
		cache.EntityKey(cache.EntityProductImage, image.ID()),
		cache.AllKey(cache.EntityProductImage),
		cache.ProductImagesKey(image.ProductID()),
	}
}
