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

const categoryColumns = `id, parent_id, name, description, image_ref, display_order`

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a PostgreSQL-backed CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY display_order, name, id`
	return r.list(ctx, "list categories", query)
}

func (r *categoryRepository) GetSubcategories(ctx context.Context, parentID *uuid.UUID) ([]*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE parent_id IS NOT DISTINCT FROM $1
		ORDER BY display_order, name, id
	`
	return r.list(ctx, "list subcategories", query, parentID)
}

func (r *categoryRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return exists, nil
}

func (r *categoryRepository) Add(ctx context.Context, category *domain.Category) (bool, error) {
	query := `
		INSERT INTO categories (id, parent_id, name, description, image_ref, display_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		category.ID(),
		category.ParentID(),
		category.Name(),
		category.Description(),
		category.ImageRef(),
		category.DisplayOrder(),
	)
	if err != nil {
		return false, mapWriteError("create category", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) (bool, error) {
	query := `
		UPDATE categories
		SET parent_id = $2, name = $3, description = $4, image_ref = $5, display_order = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		category.ID(),
		category.ParentID(),
		category.Name(),
		category.Description(),
		category.ImageRef(),
		category.DisplayOrder(),
	)
	if err != nil {
		return false, mapWriteError("update category", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveByID deletes the category. Children keep existing as roots.
func (r *categoryRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, mapWriteError("delete category", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		id                       uuid.UUID
		parentID                 *uuid.UUID
		name, description, image string
		order                    int
	)
	if err := row.Scan(&id, &parentID, &name, &description, &image, &order); err != nil {
		return nil, err
	}
	return domain.RestoreCategory(id, parentID, name, description, image, order), nil
}
