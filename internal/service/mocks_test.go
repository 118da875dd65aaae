package service

import (
	"context"

	"catalog-service/internal/domain"
	"catalog-service/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// first returns the typed first return value, tolerating a nil interface
func first[T any](args mock.Arguments) T {
	var zero T
	if v := args.Get(0); v != nil {
		return v.(T)
	}
	return zero
}

type MockBrandRepository struct{ mock.Mock }

func (m *MockBrandRepository) GetAll(ctx context.Context) ([]*domain.Brand, error) {
	args := m.Called(ctx)
	return first[[]*domain.Brand](args), args.Error(1)
}

func (m *MockBrandRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	args := m.Called(ctx, id)
	return first[*domain.Brand](args), args.Error(1)
}

func (m *MockBrandRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBrandRepository) Add(ctx context.Context, brand *domain.Brand) (bool, error) {
	args := m.Called(ctx, brand)
	return args.Bool(0), args.Error(1)
}

func (m *MockBrandRepository) Update(ctx context.Context, brand *domain.Brand) (bool, error) {
	args := m.Called(ctx, brand)
	return args.Bool(0), args.Error(1)
}

func (m *MockBrandRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockCategoryRepository struct{ mock.Mock }

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	return first[[]*domain.Category](args), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	return first[*domain.Category](args), args.Error(1)
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Add(ctx context.Context, category *domain.Category) (bool, error) {
	args := m.Called(ctx, category)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) (bool, error) {
	args := m.Called(ctx, category)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) GetSubcategories(ctx context.Context, parentID *uuid.UUID) ([]*domain.Category, error) {
	args := m.Called(ctx, parentID)
	return first[[]*domain.Category](args), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	return first[[]*domain.Product](args), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	return first[*domain.Product](args), args.Error(1)
}

func (m *MockProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Add(ctx context.Context, product *domain.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockProductImageRepository struct{ mock.Mock }

func (m *MockProductImageRepository) GetAll(ctx context.Context) ([]*domain.ProductImage, error) {
	args := m.Called(ctx)
	return first[[]*domain.ProductImage](args), args.Error(1)
}

func (m *MockProductImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error) {
	args := m.Called(ctx, id)
	return first[*domain.ProductImage](args), args.Error(1)
}

func (m *MockProductImageRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductImageRepository) Add(ctx context.Context, image *domain.ProductImage) (bool, error) {
	args := m.Called(ctx, image)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductImageRepository) Update(ctx context.Context, image *domain.ProductImage) (bool, error) {
	args := m.Called(ctx, image)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductImageRepository) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductImageRepository) GetAllByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.ProductImage, error) {
	args := m.Called(ctx, productID)
	return first[[]*domain.ProductImage](args), args.Error(1)
}

func (m *MockProductImageRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockProductImageRepository) BatchUpdate(ctx context.Context, images []*domain.ProductImage) (bool, error) {
	args := m.Called(ctx, images)
	return args.Bool(0), args.Error(1)
}

type MockBlobStore struct{ mock.Mock }

func (m *MockBlobStore) Upload(ctx context.Context, bucket string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, bucket, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, bucket, objectID string) (bool, error) {
	args := m.Called(ctx, bucket, objectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlobStore) URL(bucket, objectID string) string {
	return m.Called(bucket, objectID).String(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e events.Event) bool { return e.Type == eventType })
}
