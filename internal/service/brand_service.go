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

// BrandInput carries the writable brand attributes
type BrandInput struct {
	Name         string
	Description  string
	DisplayOrder int
}

// BrandService defines brand use cases
type BrandService interface {
	List(ctx context.Context) ([]*domain.Brand, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Brand, error)
	Create(ctx context.Context, in BrandInput) (*domain.Brand, error)
	Update(ctx context.Context, id uuid.UUID, in BrandInput) (*domain.Brand, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetImage(ctx context.Context, id uuid.UUID, data []byte) (*domain.Brand, error)
}

type brandService struct {
	brands    repository.BrandRepository
	images    ImageBucket
	publisher events.Publisher
	logger    *zap.Logger
}

// NewBrandService creates a new instance of BrandService
func NewBrandService(brands repository.BrandRepository, images ImageBucket, publisher events.Publisher, logger *zap.Logger) BrandService {
	return &brandService{
		brands:    brands,
		images:    images,
		publisher: publisher,
		logger:    logger.Named("brands"),
	}
}

func (s *brandService) List(ctx context.Context) ([]*domain.Brand, error) {
	return s.brands.GetAll(ctx)
}

func (s *brandService) Get(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	return s.brands.GetByID(ctx, id)
}

func (s *brandService) Create(ctx context.Context, in BrandInput) (*domain.Brand, error) {
	brand, err := domain.NewBrand(in.Name, in.Description, in.DisplayOrder)
	if err != nil {
		return nil, err
	}

	ok, err := s.brands.Add(ctx, brand)
	if err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}
	if !ok {
		return nil, ErrWriteRejected
	}
	return brand, nil
}

func (s *brandService) Update(ctx context.Context, id uuid.UUID, in BrandInput) (*domain.Brand, error) {
	brand, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := brand.Update(in.Name, in.Description, in.DisplayOrder); err != nil {
		return nil, err
	}
	if err := s.save(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *brandService) Delete(ctx context.Context, id uuid.UUID) error {
	brand, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.brands.RemoveByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	if !ok {
		return repository.ErrBrandNotFound
	}

	s.images.discard(ctx, brand.ImageRef(), s.logger)
	publish(ctx, s.publisher, s.logger, events.BrandDeleted, id, nil)
	return nil
}

// SetImage stores a new image and replaces the previous one
func (s *brandService) SetImage(ctx context.Context, id uuid.UUID, data []byte) (*domain.Brand, error) {
	brand, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ref, err := s.images.upload(ctx, data)
	if err != nil {
		return nil, err
	}

	previous := brand.ImageRef()
	brand.SetImage(ref)
	if err := s.save(ctx, brand); err != nil {
		s.images.discard(ctx, ref, s.logger)
		return nil, err
	}

	s.images.discard(ctx, previous, s.logger)
	return brand, nil
}

func (s *brandService) save(ctx context.Context, brand *domain.Brand) error {
	ok, err := s.brands.Update(ctx, brand)
	if err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}
	if !ok {
		return repository.ErrBrandNotFound
	}
	return nil
}
