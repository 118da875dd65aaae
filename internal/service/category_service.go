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

// CategoryInput carries the writable category attributes. A nil ParentID makes a root category.
type CategoryInput struct {
	ParentID     *uuid.UUID
	Name         string
	Description  string
	DisplayOrder int
}

// CategoryService defines category use cases
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListRoots(ctx context.Context) ([]*domain.Category, error)
	ListSubcategories(ctx context.Context, parentID uuid.UUID) ([]*domain.Category, error)
	Create(ctx context.Context, in CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetImage(ctx context.Context, id uuid.UUID, data []byte) (*domain.Category, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	images     ImageBucket
	publisher  events.Publisher
	logger     *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categories repository.CategoryRepository, images ImageBucket, publisher events.Publisher, logger *zap.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		images:     images,
		publisher:  publisher,
		logger:     logger.Named("categories"),
	}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.GetAll(ctx)
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *categoryService) ListRoots(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.GetSubcategories(ctx, nil)
}

func (s *categoryService) ListSubcategories(ctx context.Context, parentID uuid.UUID) ([]*domain.Category, error) {
	exists, err := s.categories.Exists(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return s.categories.GetSubcategories(ctx, &parentID)
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	category, err := domain.NewCategory(in.ParentID, in.Name, in.Description, in.DisplayOrder)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, category.ID(), in.ParentID); err != nil {
		return nil, err
	}

	ok, err := s.categories.Add(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	if !ok {
		return nil, ErrWriteRejected
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(in.ParentID, in.Name, in.Description, in.DisplayOrder); err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, id, in.ParentID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.categories.RemoveByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if !ok {
		return repository.ErrCategoryNotFound
	}

	s.images.discard(ctx, category.ImageRef(), s.logger)
	publish(ctx, s.publisher, s.logger, events.CategoryDeleted, id, nil)
	return nil
}

func (s *categoryService) SetImage(ctx context.Context, id uuid.UUID, data []byte) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ref, err := s.images.upload(ctx, data)
	if err != nil {
		return nil, err
	}

	previous := category.ImageRef()
	category.SetImage(ref)
	if err := s.save(ctx, category); err != nil {
		s.images.discard(ctx, ref, s.logger)
		return nil, err
	}

	s.images.discard(ctx, previous, s.logger)
	return category, nil
}

// checkParent verifies that parentID exists and is not a descendant of id
func (s *categoryService) checkParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}

	visited := map[uuid.UUID]bool{id: true}
	current := *parentID
	for {
		if visited[current] {
			return fmt.Errorf("%w: parent_id would create a cycle", domain.ErrValidation)
		}
		visited[current] = true

		ancestor, err := s.categories.GetByID(ctx, current)
		if err != nil {
			if current == *parentID && isNotFound(err) {
				return fmt.Errorf("%w: parent category %s", ErrInvalidReference, current)
			}
			if isNotFound(err) {
				// the chain was cut concurrently; the remaining ancestors cannot loop back
				return nil
			}
			return fmt.Errorf("failed to load parent category: %w", err)
		}

		next := ancestor.ParentID()
		if next == nil {
			return nil
		}
		current = *next
	}
}

func (s *categoryService) save(ctx context.Context, category *domain.Category) error {
	ok, err := s.categories.Update(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if !ok {
		return repository.ErrCategoryNotFound
	}
	return nil
}
