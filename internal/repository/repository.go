package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is wrapped by every entity-specific not-found error
	ErrNotFound = errors.New("not found")

	ErrBrandNotFound        = fmt.Errorf("brand %w", ErrNotFound)
	ErrCategoryNotFound     = fmt.Errorf("category %w", ErrNotFound)
	ErrProductNotFound      = fmt.Errorf("product %w", ErrNotFound)
	ErrProductImageNotFound = fmt.Errorf("product image %w", ErrNotFound)

	ErrDuplicateSKU       = errors.New("product with this SKU already exists")
	ErrReferenceViolation = errors.New("referenced entity does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	productSKUConstraint  = "products_sku_key"
)

// BrandRepository defines the interface for brand data access
type BrandRepository interface {
	GetAll(ctx context.Context) ([]*domain.Brand, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Add(ctx context.Context, brand *domain.Brand) (bool, error)
	Update(ctx context.Context, brand *domain.Brand) (bool, error)
	RemoveByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*domain.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Add(ctx context.Context, category *domain.Category) (bool, error)
	Update(ctx context.Context, category *domain.Category) (bool, error)
	RemoveByID(ctx context.Context, id uuid.UUID) (bool, error)

	// GetSubcategories returns the direct children of parentID; nil selects root categories.
	GetSubcategories(ctx context.Context, parentID *uuid.UUID) ([]*domain.Category, error)
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Add(ctx context.Context, product *domain.Product) (bool, error)
	Update(ctx context.Context, product *domain.Product) (bool, error)
	RemoveByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProductImageRepository defines the interface for product image data access
type ProductImageRepository interface {
	GetAll(ctx context.Context) ([]*domain.ProductImage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Add(ctx context.Context, image *domain.ProductImage) (bool, error)
	Update(ctx context.Context, image *domain.ProductImage) (bool, error)
	RemoveByID(ctx context.Context, id uuid.UUID) (bool, error)

	GetAllByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.ProductImage, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int, error)

	// BatchUpdate applies every update in one transaction. It reports false,
	// and changes nothing, when any image no longer exists.
	BatchUpdate(ctx context.Context, images []*domain.ProductImage) (bool, error)
}

// mapWriteError translates constraint violations into repository errors
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName == productSKUConstraint {
				return ErrDuplicateSKU
			}
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrReferenceViolation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
