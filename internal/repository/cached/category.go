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

// CategoryRepository caches category reads under Category_{id}, Category_All
// and Category_Sub_{parentId}. Root categories live under Category_Sub_.
type CategoryRepository struct {
	base
	inner repository.CategoryRepository
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

func NewCategoryRepository(inner repository.CategoryRepository, manager *cache.Manager, ttl time.Duration, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		base:  newBase(manager, ttl, logger, cache.EntityCategory),
		inner: inner,
	}
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	return cache.GetFromCache[[]*domain.Category](ctx, r.cache, cache.AllKey(cache.EntityCategory), r.inner.GetAll, r.ttl)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return cache.GetFromCache[*domain.Category](ctx, r.cache, cache.EntityKey(cache.EntityCategory, id), func(ctx context.Context) (*domain.Category, error) {
		return r.inner.GetByID(ctx, id)
	}, r.ttl)
}

func (r *CategoryRepository) GetSubcategories(ctx context.Context, parentID *uuid.UUID) ([]*domain.Category, error) {
	return cache.GetFromCache[[]*domain.Category](ctx, r.cache, cache.CategorySubKey(parentID), func(ctx context.Context) ([]*domain.Category, error) {
		return r.inner.GetSubcategories(ctx, parentID)
	}, r.ttl)
}

func (r *CategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, cache.EntityKey(cache.EntityCategory, id), func(ctx context.Context) (bool, error) {
		return r.inner.Exists(ctx, id)
	})
}

func (r *CategoryRepository) Add(ctx context.Context, category *domain.Category) (bool, error) {
	ok, err := r.inner.Add(ctx, category)
	if err == nil {
		r.invalidate(ctx, "add", r.keys(category.ID(), category.ParentID())...)
	}
	return ok, err
}

// Update also invalidates the children list of the previous parent when the
// category moved.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (bool, error) {
	previous := r.lookup(ctx, category.ID())

	ok, err := r.inner.Update(ctx, category)

	keys := r.keys(category.ID(), category.ParentID())
	if previous != nil {
		keys = append(keys, cache.CategorySubKey(previous.ParentID()))
	}
	r.invalidate(ctx, "update", keys...)
	return ok, err
}

// RemoveByID invalidates the category, its parent's children list, its own
// children list and every child, since the store turns the children into roots.
func (r *CategoryRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	previous := r.lookup(ctx, id)

	children, childErr := r.GetSubcategories(ctx, &id)
	if childErr != nil {
		r.logger.Warn("Could not list children before removal",
			zap.String("id", id.String()),
			zap.Error(childErr),
		)
	}

	ok, err := r.inner.RemoveByID(ctx, id)

	keys := []string{
		cache.EntityKey(cache.EntityCategory, id),
		cache.AllKey(cache.EntityCategory),
		cache.CategorySubKey(&id),
	}
	if previous != nil {
		keys = append(keys, cache.CategorySubKey(previous.ParentID()))
	}
	if len(children) > 0 || childErr != nil {
		keys = append(keys, cache.CategorySubKey(nil))
	}
	for _, child := range children {
		keys = append(keys, cache.EntityKey(cache.EntityCategory, child.ID()))
	}

	r.invalidate(ctx, "remove", keys...)
	return ok, err
}

// lookup returns the current version of a category, or nil when it cannot be read
func (r *CategoryRepository) lookup(ctx context.Context, id uuid.UUID) *domain.Category {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			r.logger.Warn("Could not read category before write",
				zap.String("id", id.String()),
				zap.Error(err),
			)
		}
		return nil
	}
	return category
}

func (r *CategoryRepository) keys(id uuid.UUID, parentID *uuid.UUID) []string {
	return []string{
		cache.EntityKey(cache.EntityCategory, id),
		cache.AllKey(cache.EntityCategory),
		cache.CategorySubKey(parentID),
	}
}
