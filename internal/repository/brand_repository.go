package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const brandColumns = `id, name, description, image_ref, display_order`

type brandRepository struct {
	pool *pgxpool.Pool
}

// NewBrandRepository creates a PostgreSQL-backed BrandRepository
func NewBrandRepository(pool *pgxpool.Pool) BrandRepository {
	return &brandRepository{pool: pool}
}

func (r *brandRepository) GetAll(ctx context.Context) ([]*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands ORDER BY display_order, name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	brands := []*domain.Brand{}
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, brand)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brands: %w", err)
	}
	return brands, nil
}

func (r *brandRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE id = $1`

	brand, err := scanBrand(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to find brand by ID: %w", err)
	}
	return brand, nil
}

func (r *brandRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM brands WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check brand existence: %w", err)
	}
	return exists, nil
}

func (r *brandRepository) Add(ctx context.Context, brand *domain.Brand) (bool, error) {
	query := `
		INSERT INTO brands (id, name, description, image_ref, display_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		brand.ID(),
		brand.Name(),
		brand.Description(),
		brand.ImageRef(),
		brand.DisplayOrder(),
	)
	if err != nil {
		return false, mapWriteError("create brand", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *brandRepository) Update(ctx context.Context, brand *domain.Brand) (bool, error) {
	query := `
		UPDATE brands
		SET name = $2, description = $3, image_ref = $4, display_order = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		brand.ID(),
		brand.Name(),
		brand.Description(),
		brand.ImageRef(),
		brand.DisplayOrder(),
	)
	if err != nil {
		return false, mapWriteError("update brand", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *brandRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return false, mapWriteError("delete brand", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanBrand(row pgx.Row) (*domain.Brand, error) {
	var (
		id                       uuid.UUID
		name, description, image string
		order                    int
	)
	if err := row.Scan(&id, &name, &description, &image, &order); err != nil {
		return nil, err
	}
	return domain.RestoreBrand(id, name, description, image, order), nil
}
