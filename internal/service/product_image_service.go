package service

import (
	"context"
	"fmt"

	"catalog-service/internal/domain"
	"catalog-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageOrder assigns a display position to one image
type ImageOrder struct {
	ImageID      uuid.UUID
	DisplayOrder int
}

// ProductImageService defines product image use cases. Every operation is
// scoped to a product; images of other products are reported as not found.
type ProductImageService interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.ProductImage, error)
	Count(ctx context.Context, productID uuid.UUID) (int, error)
	Get(ctx context.Context, productID, imageID uuid.UUID) (*domain.ProductImage, error)
	Upload(ctx context.Context, productID uuid.UUID, data []byte, displayOrder int) (*domain.ProductImage, error)
	UpdateDisplayOrder(ctx context.Context, productID, imageID uuid.UUID, displayOrder int) (*domain.ProductImage, error)
	Reorder(ctx context.Context, productID uuid.UUID, orders []ImageOrder) ([]*domain.ProductImage, error)
	Delete(ctx context.Context, productID, imageID uuid.UUID) error
}

type productImageService struct {
	images   repository.ProductImageRepository
	products repository.ProductRepository
	blobs    ImageBucket
	logger   *zap.Logger
}

// NewProductImageService creates a new instance of ProductImageService
func NewProductImageService(images repository.ProductImageRepository, products repository.ProductRepository, blobs ImageBucket, logger *zap.Logger) ProductImageService {
	return &productImageService{
		images:   images,
		products: products,
		blobs:    blobs,
		logger:   logger.Named("product_images"),
	}
}

func (s *productImageService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.ProductImage, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.images.GetAllByProduct(ctx, productID)
}

func (s *productImageService) Count(ctx context.Context, productID uuid.UUID) (int, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return 0, err
	}
	return s.images.CountByProduct(ctx, productID)
}

func (s *productImageService) Get(ctx context.Context, productID, imageID uuid.UUID) (*domain.ProductImage, error) {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img.ProductID() != productID {
		return nil, repository.ErrProductImageNotFound
	}
	return img, nil
}

func (s *productImageService) Upload(ctx context.Context, productID uuid.UUID, data []byte, displayOrder int) (*domain.ProductImage, error) {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: product %s", ErrInvalidReference, productID)
	}

	ref, err := s.blobs.upload(ctx, data)
	if err != nil {
		return nil, err
	}

	img, err := domain.NewProductImage(productID, ref, displayOrder)
	if err != nil {
		s.blobs.discard(ctx, ref, s.logger)
		return nil, err
	}

	ok, err := s.images.Add(ctx, img)
	if err != nil || !ok {
		s.blobs.discard(ctx, ref, s.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to add product image: %w", err)
		}
		return nil, ErrWriteRejected
	}
	return img, nil
}

func (s *productImageService) UpdateDisplayOrder(ctx context.Context, productID, imageID uuid.UUID, displayOrder int) (*domain.ProductImage, error) {
	img, err := s.Get(ctx, productID, imageID)
	if err != nil {
		return nil, err
	}
	if err := img.Update(img.ImageRef(), displayOrder); err != nil {
		return nil, err
	}

	ok, err := s.images.Update(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("failed to update product image: %w", err)
	}
	if !ok {
		return nil, repository.ErrProductImageNotFound
	}
	return img, nil
}

// Reorder applies every position in one batch. Each image must belong to productID.
func (s *productImageService) Reorder(ctx context.Context, productID uuid.UUID, orders []ImageOrder) ([]*domain.ProductImage, error) {
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: orders must not be empty", domain.ErrValidation)
	}

	seen := make(map[uuid.UUID]bool, len(orders))
	batch := make([]*domain.ProductImage, 0, len(orders))
	for _, o := range orders {
		if seen[o.ImageID] {
			return nil, fmt.Errorf("%w: image %s listed twice", domain.ErrValidation, o.ImageID)
		}
		seen[o.ImageID] = true

		img, err := s.images.GetByID(ctx, o.ImageID)
		if err != nil {
			return nil, err
		}
		if img.ProductID() != productID {
			return nil, fmt.Errorf("%w: image %s belongs to another product", ErrInvalidReference, o.ImageID)
		}
		if err := img.Update(img.ImageRef(), o.DisplayOrder); err != nil {
			return nil, err
		}
		batch = append(batch, img)
	}

	ok, err := s.images.BatchUpdate(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to reorder product images: %w", err)
	}
	if !ok {
		return nil, repository.ErrProductImageNotFound
	}
	return batch, nil
}

func (s *productImageService) Delete(ctx context.Context, productID, imageID uuid.UUID) error {
	img, err := s.Get(ctx, productID, imageID)
	if err != nil {
		return err
	}

	ok, err := s.images.RemoveByID(ctx, imageID)
	if err != nil {
		return fmt.Errorf("failed to delete product image: %w", err)
	}
	if !ok {
		return repository.ErrProductImageNotFound
	}

	s.blobs.discard(ctx, img.ImageRef(), s.logger)
	return nil
}

func (s *productImageService) requireProduct(ctx context.Context, productID uuid.UUID) error {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return repository.ErrProductNotFound
	}
	return nil
}
