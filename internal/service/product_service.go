package service

import (
	"context"
	"fmt"

	"catalog-service/internal/domain"
	"catalog-service/internal/events"
	"catalog-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService defines product use cases
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, details domain.ProductDetails) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, details domain.ProductDetails) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productChanged struct {
	SKU   string `json:"sku"`
	Slug  string `json:"slug"`
	Price string `json:"price"`
}

type productService struct {
	products   repository.ProductRepository
	brands     repository.BrandRepository
	categories repository.CategoryRepository
	images     repository.ProductImageRepository
	blobs      ImageBucket
	publisher  events.Publisher
	logger     *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	products repository.ProductRepository,
	brands repository.BrandRepository,
	categories repository.CategoryRepository,
	images repository.ProductImageRepository,
	blobs ImageBucket,
	publisher events.Publisher,
	logger *zap.Logger,
) ProductService {
	return &productService{
		products:   products,
		brands:     brands,
		categories: categories,
		images:     images,
		blobs:      blobs,
		publisher:  publisher,
		logger:     logger.Named("products"),
	}
}

func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.GetAll(ctx)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *productService) Create(ctx context.Context, details domain.ProductDetails) (*domain.Product, error) {
	product, err := domain.NewProduct(details)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, details); err != nil {
		return nil, err
	}

	ok, err := s.products.Add(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if !ok {
		return nil, ErrWriteRejected
	}

	publish(ctx, s.publisher, s.logger, events.ProductCreated, product.ID(), changed(product))
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, details domain.ProductDetails) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(details); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, details); err != nil {
		return nil, err
	}

	ok, err := s.products.Update(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	publish(ctx, s.publisher, s.logger, events.ProductUpdated, id, changed(product))
	return product, nil
}

// Delete removes the product's images first, then the product itself
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.products.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return repository.ErrProductNotFound
	}

	images, err := s.images.GetAllByProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list product images: %w", err)
	}
	for _, img := range images {
		if _, err := s.images.RemoveByID(ctx, img.ID()); err != nil {
			return fmt.Errorf("failed to delete product image %s: %w", img.ID(), err)
		}
		s.blobs.discard(ctx, img.ImageRef(), s.logger)
	}

	ok, err := s.products.RemoveByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !ok {
		return repository.ErrProductNotFound
	}

	publish(ctx, s.publisher, s.logger, events.ProductDeleted, id, nil)
	return nil
}

func (s *productService) checkReferences(ctx context.Context, details domain.ProductDetails) error {
	if details.BrandID != nil {
		exists, err := s.brands.Exists(ctx, *details.BrandID)
		if err != nil {
			return fmt.Errorf("failed to check brand: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: brand %s", ErrInvalidReference, details.BrandID)
		}
	}
	if details.CategoryID != nil {
		exists, err := s.categories.Exists(ctx, *details.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: category %s", ErrInvalidReference, details.CategoryID)
		}
	}
	return nil
}

func changed(p *domain.Product) productChanged {
	return productChanged{
		SKU:   p.SKU(),
		Slug:  p.Slug(),
		Price: p.FinalPrice().String(),
	}
}
