package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Numeric columns travel as text so decimals round-trip exactly
const productColumns = `id, brand_id, category_id, name, description, price::text, discount::text, sku, stock, is_available, slug`

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a PostgreSQL-backed ProductRepository
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

func (r *productRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// Add inserts the product. A SKU already used by another product yields ErrDuplicateSKU.
func (r *productRepository) Add(ctx context.Context, product *domain.Product) (bool, error) {
	query := `
		INSERT INTO products (id, brand_id, category_id, name, description, price, discount, sku, stock, is_available, slug)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		product.ID(),
		product.BrandID(),
		product.CategoryID(),
		product.Name(),
		product.Description(),
		product.Price().String(),
		product.Discount().String(),
		product.SKU(),
		product.Stock(),
		product.IsAvailable(),
		product.Slug(),
	)
	if err != nil {
		return false, mapWriteError("create product", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) (bool, error) {
	query := `
		UPDATE products
		SET brand_id = $2, category_id = $3, name = $4, description = $5,
		    price = $6::numeric, discount = $7::numeric, sku = $8, stock = $9,
		    is_available = $10, slug = $11
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		product.ID(),
		product.BrandID(),
		product.CategoryID(),
		product.Name(),
		product.Description(),
		product.Price().String(),
		product.Discount().String(),
		product.SKU(),
		product.Stock(),
		product.IsAvailable(),
		product.Slug(),
	)
	if err != nil {
		return false, mapWriteError("update product", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveByID deletes the product; its image rows are removed by the database.
func (r *productRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, mapWriteError("delete product", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		id              uuid.UUID
		d               domain.ProductDetails
		price, discount string
		slug            string
	)
	err := row.Scan(
		&id,
		&d.BrandID,
		&d.CategoryID,
		&d.Name,
		&d.Description,
		&price,
		&discount,
		&d.SKU,
		&d.Stock,
		&d.IsAvailable,
		&slug,
	)
	if err != nil {
		return nil, err
	}

	if d.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", price, err)
	}
	if d.Discount, err = decimal.NewFromString(discount); err != nil {
		return nil, fmt.Errorf("invalid discount %q: %w", discount, err)
	}
	return domain.RestoreProduct(id, d, slug), nil
}
