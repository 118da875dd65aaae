package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const productImageColumns = `id, product_id, image_ref, display_order`

type productImageRepository struct {
	pool      *pgxpool.Pool
	isolation pgx.TxIsoLevel
	logger    *zap.Logger
}

// NewProductImageRepository creates a PostgreSQL-backed ProductImageRepository.
// isolation applies to BatchUpdate transactions.
func NewProductImageRepository(pool *pgxpool.Pool, isolation pgx.TxIsoLevel, logger *zap.Logger) ProductImageRepository {
	if isolation == "" {
		isolation = pgx.ReadCommitted
	}
	return &productImageRepository{
		pool:      pool,
		isolation: isolation,
		logger:    logger,
	}
}

func (r *productImageRepository) GetAll(ctx context.Context) ([]*domain.ProductImage, error) {
	query := `SELECT ` + productImageColumns + ` FROM product_images ORDER BY product_id, display_order, id`
	return r.list(ctx, "list product images", query)
}

func (r *productImageRepository) GetAllByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.ProductImage, error) {
	query := `
		SELECT ` + productImageColumns + `
		FROM product_images
		WHERE product_id = $1
		ORDER BY display_order, id
	`
	return r.list(ctx, "list images of product", query, productID)
}

func (r *productImageRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]*domain.ProductImage, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	images := []*domain.ProductImage{}
	for rows.Next() {
		image, err := scanProductImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}
	return images, nil
}

func (r *productImageRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM product_images WHERE product_id = $1`, productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count product images: %w", err)
	}
	return count, nil
}

func (r *productImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error) {
	query := `SELECT ` + productImageColumns + ` FROM product_images WHERE id = $1`

	image, err := scanProductImage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductImageNotFound
		}
		return nil, fmt.Errorf("failed to find product image by ID: %w", err)
	}
	return image, nil
}

func (r *productImageRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM product_images WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product image existence: %w", err)
	}
	return exists, nil
}

func (r *productImageRepository) Add(ctx context.Context, image *domain.ProductImage) (bool, error) {
	query := `
		INSERT INTO product_images (id, product_id, image_ref, display_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		image.ID(),
		image.ProductID(),
		image.ImageRef(),
		image.DisplayOrder(),
	)
	if err != nil {
		return false, mapWriteError("create product image", err)
	}
	return tag.RowsAffected() == 1, nil
}

const updateProductImageQuery = `
	UPDATE product_images
	SET image_ref = $2, display_order = $3
	WHERE id = $1
`

func (r *productImageRepository) Update(ctx context.Context, image *domain.ProductImage) (bool, error) {
	tag, err := r.pool.Exec(ctx, updateProductImageQuery,
		image.ID(),
		image.ImageRef(),
		image.DisplayOrder(),
	)
	if err != nil {
		return false, mapWriteError("update product image", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *productImageRepository) BatchUpdate(ctx context.Context, images []*domain.ProductImage) (bool, error) {
	if len(images) == 0 {
		return true, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.isolation})
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.Error("Failed to roll back image batch", zap.Error(rbErr))
		}
	}()

	batch := &pgx.Batch{}
	for _, image := range images {
		batch.Queue(updateProductImageQuery, image.ID(), image.ImageRef(), image.DisplayOrder())
	}

	results := tx.SendBatch(ctx, batch)
	for _, image := range images {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return false, mapWriteError("update product image batch", err)
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			r.logger.Debug("Image batch aborted, image missing", zap.String("image_id", image.ID().String()))
			return false, nil
		}
	}
	if err := results.Close(); err != nil {
		return false, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit image batch: %w", err)
	}
	return true, nil
}

func (r *productImageRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product_images WHERE id = $1`, id)
	if err != nil {
		return false, mapWriteError("delete product image", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanProductImage(row pgx.Row) (*domain.ProductImage, error) {
	var (
		id, productID uuid.UUID
		image         string
		order         int
	)
	if err := row.Scan(&id, &productID, &image, &order); err != nil {
		return nil, err
	}
	return domain.RestoreProductImage(id, productID, image, order), nil
}
